// Package options defines the typed option record the scaffold pipeline runs
// on. It covers the enumerated flag values, their validation, and the preset
// catalogue that expands one --preset name into several defaults.
package options
