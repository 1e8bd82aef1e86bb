// Package config loads, normalizes, and validates Blackspot configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PLEX_TOKEN. The Config type centralizes every knob the scanner and CLI need,
// so server credentials, thresholds, and log settings are discovered in one
// pass and never mutated after Load returns.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
