// Package commands defines the wpsprint CLI.
//
// Commands
//
//   - print      Print one document (also the default when a file is given)
//   - printers   List installed printers
//   - papers     List the paper sizes a printer's driver supports
//   - version    Print build information
//
// # Implementation
//
// The root command loads settings (defaults, wpsprint.toml, WPSPRINT_*
// variables, flags), builds the logger and the dependency graph before any
// subcommand runs. Errors are printed once, as a category-prefixed message on
// stderr, and turn into exit code 1.
package commands
