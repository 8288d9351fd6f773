// Package cli defines the Cobra command tree for the garry CLI. The root
// command scaffolds a project; the subcommands print version information,
// manage user settings, list presets and check the local toolchain. Command
// implementations only handle flags and output and delegate the work to the
// internal packages.
package cli
