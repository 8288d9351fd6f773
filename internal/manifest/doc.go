// Package manifest reads, edits, and writes a project's package.json while
// keeping its key order. It also validates the result against an embedded
// JSON Schema.
package manifest
