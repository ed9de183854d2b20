// Package config loads the console configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/healthdesk/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// Values that are present are validated (go-playground/validator) after
// defaults are applied; default_page_size must also be one of page_sizes.
//
// # TOML Format
//
//	api_base = "127.0.0.1:7490"
//	request_timeout_ms = 5000
//	debounce_ms = 500
//	page_sizes = [10, 20, 30, 40, 50]
//	default_page_size = 10
//	cache_ttl_ms = 30000
//	cache_size = 256
//	poll_seconds = 5
//	log_file = "~/.local/state/healthdesk/healthdesk.log"
//	log_level = "info"   # debug, info, warn, error, disabled
//
// Tilde expansion is performed for the config path and log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - Out-of-range values
//
// Missing config files are NOT an error. The console works out of the box
// against a local mock API.
package config
