// Package expr provides CEL (Common Expression Language) functionality
// for evaluating override conditions against file paths.
//
// It creates CEL environments with custom functions for:
//   - File path operations (pathBase, pathDir, pathExt)
//   - Glob matching (pathMatch)
//
// Override conditions have access to variables:
//   - `file` (string): The path being resolved, relative to the root config
//   - `dir` (string): The directory of the root config
package expr
