// Package config loads and validates the Orpheus configuration file.
//
// Configuration lives in a single TOML document. Load resolves the file from
// an explicit path or the default locations, applies defaults for anything
// unset, expands filesystem paths, and validates the result so downstream
// packages never see a half-formed config.
package config
