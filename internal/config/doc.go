// Package config loads and validates reel's TOML configuration.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/reel/config.toml, then ./reel.toml, falling back to defaults when
// no file exists. Path fields are ~-expanded and made absolute during load,
// and the generation defaults are checked against the closed value sets the
// service accepts so bad enum values fail before a session starts.
package config
