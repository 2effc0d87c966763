// Package effective provides the resolved, read-only configuration of a
// single file.
//
// A [Config] is produced by [github.com/macropower/lintcfg/pkg/compose] and is
// never modified afterwards; any change to the inputs requires composing a
// new one.
package effective
