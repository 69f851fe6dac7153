// Package file provides the TOML file implementation of driven.ConfigStore.
//
// The file is read into a flat map keyed by dotted section paths and
// written back as nested tables, so
//
//	[classifier]
//	suffixes = ["_tablet", "_mobile"]
//
// is addressed as "classifier.suffixes".
package file
