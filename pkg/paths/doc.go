// Package paths provides centralized path handling for cpgen.
//
// It resolves the configuration home and the template cache root, the
// location of the user configuration file, and discovers the root of a cpgen
// project by walking up from a starting directory.
//
// # Environment Variables
//
//   - HOME: the configuration home; the cache root defaults to $HOME/.cpgen.
//     Its absence is a fatal configuration error.
//   - CPGEN_CACHE_DIR: overrides the cache root (read through pkg/config).
//   - XDG_CONFIG_HOME: location of cpgen/config.toml.
//
// # Layout
//
//	$HOME/.cpgen/
//	├── templates.tar.gz   last downloaded bundle
//	└── templates/         published template tree
//
// A project root is any directory holding the project marker (".cpgen" by
// default). The cache root is never treated as a project root even though it
// shares the marker name.
package paths
