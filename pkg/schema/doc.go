// Package schema generates JSON schemas for lintcfg document types.
//
// The schemas embedded in the api packages are produced by this package via
// internal/schemagen. They are also printed by the CLI's schema command.
package schema
