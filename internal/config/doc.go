// Package config loads and validates the TOML configuration document that
// drives every pipeline stage.
//
// Loading order: repository defaults, then the config file, then environment
// variable overrides (SHORTFORM_* plus a few conventional names like
// PEXELS_API_KEY). Paths are tilde-expanded and made absolute during
// normalization so downstream code never sees a relative storage root.
package config
