// Package config loads lintcfg configuration documents.
//
// It provides a generic validated [Loader] for any document kind, a
// [FileLoader] that turns configuration files into layers, and discovery of
// configuration files for a target path.
package config
