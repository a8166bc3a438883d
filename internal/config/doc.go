// Package config loads the focus configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/focus/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing, empty or non-positive, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/focus/config.toml
//   - Focus interval: 25 minutes
//   - Break interval: 5 minutes
//   - Session history: ~/.local/share/focus/history.db
//   - Log file: none (logging is discarded while the TUI runs)
//
// # TOML Format
//
//	focus_minutes = 25
//	break_minutes = 5
//	history_path = "~/.local/share/focus/history.db"
//	log_file = "~/.local/state/focus/focus.log"
//
// Every field is optional. Minutes may be fractional; the timer rounds them to
// whole seconds. Tilde expansion is performed for both paths.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML parse errors. A missing file is not an error.
package config
