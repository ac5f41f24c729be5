// Package cmd implements the stencil subcommands.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// ArenaSizeIdentifier is the kong variable identifier containing the
	// default arena capacity in bytes.
	ArenaSizeIdentifier = "arenaSize"

	// SyntaxEnumIdentifier is the kong variable identifier containing the
	// comma-separated names of the syntax presets.
	SyntaxEnumIdentifier = "syntaxEnum"
)

// SyntaxEnum lists the syntax presets accepted by --syntax.
const SyntaxEnum = "keyword,delimiter"

// ConfigNamespace is the top-level YAML mapping of the configuration file
// holding flag values.
const ConfigNamespace = "config"
