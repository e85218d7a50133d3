// Package config loads, validates, and normalizes cutout configuration.
//
// Configuration is stored as TOML at ~/.config/cutout/config.toml (or a
// project-local cutout.toml). Load applies defaults for missing values,
// expands ~ in path fields, and validates the result, so downstream code can
// rely on absolute paths and sane settings without re-checking.
package config
