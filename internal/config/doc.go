// Package config loads, normalizes, and validates cuecraft configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and validates every knob the CLI and the
// caption engine need. There is no process-global configuration value:
// components receive the Config (or the slice of it they need) at
// construction so runs stay independently testable.
package config
