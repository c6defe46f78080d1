// Package config loads crier's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/crier/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default
//  4. If the file exists but fields are missing or blank, use defaults
//
// # Windows
//
// Each [[window]] table declares one destination. Its position is its
// destination id, so reordering windows in the file reassigns visibility
// flags. With no [[window]] tables four untitled windows are created.
// trim limits how many announcements per category a window keeps; zero
// keeps everything.
//
// All paths support ~ expansion and are returned as absolute paths.
package config
