// Package config manages user-level settings stored at ~/.garry/config.yaml.
// Settings can also come from GARRY_* environment variables. They cover where
// templates are read from, which package manager to force, and the module
// system applied when a non-interactive run omits --module.
package config
