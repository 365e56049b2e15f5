// Package config loads, normalizes, and validates the TOML configuration for
// precheck. Path fields are expanded (~) and made absolute during Load, and
// missing values fall back to repository defaults, so the rest of the code can
// treat a loaded Config as fully populated.
package config
