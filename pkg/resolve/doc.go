// Package resolve computes the effective configuration of files.
//
// An [Engine] expands every layer of a configuration stack into its
// ancestors (see [extends]), interleaves the overrides that match the file
// (see [override]), and folds the result (see [compose]):
//
//	ancestor, ancestor overrides, ..., layer, layer overrides
//
// Stack items are concatenated in order without an extends relation between
// them. Items with files or ignores only apply to matching paths.
package resolve
