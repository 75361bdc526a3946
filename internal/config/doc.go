// Package config manages the rue settings file.
//
// Settings live in a YAML file at a platform-appropriate location:
//   - Linux: $XDG_CONFIG_HOME/rue/config.yaml or $HOME/.config/rue/config.yaml
//   - macOS: $HOME/.config/rue/config.yaml
//   - Windows: %LOCALAPPDATA%\rue\config.yaml
//
// The file is optional. Missing keys fall back to the built-in defaults, so
// a file containing only
//
//	version: 1
//	pairing:
//	  max_rounds: 36
//
// extends the pairing window and leaves everything else alone.
//
// # Security
//
// The pairing credential is not part of this file; see package credential.
package config
