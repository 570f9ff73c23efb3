// Package config loads dotback's configuration.
//
// Configuration is merged from three layers, lowest priority first:
//
//  1. Embedded defaults (embedded/dotback.toml)
//  2. The user config file at $XDG_CONFIG_HOME/dotback/dotback.toml
//  3. DOTBACK_-prefixed environment variables
//
// The candidate path enumeration and the retention policy both live
// here; the snapshot manager receives them as explicit values and never
// reads configuration on its own.
package config
