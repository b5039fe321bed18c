// Package config loads pokedex configuration.
//
// # Resolution Order
//
//  1. Defaults compiled into the binary
//  2. ~/.config/pokedex/config.toml, or the file passed with --config
//  3. POKEDEX_* environment variables (a .env file in the working directory
//     is loaded into the environment by the app before Load runs)
//
// A missing config file is not an error. Empty values are ignored at every
// layer, so an empty variable never clears a file value.
//
// # TOML Format
//
//	api_url = "http://localhost:8080"
//	request_timeout = "5s"
//	search_debounce = "700ms"
//	log_file = "~/.local/state/pokedex/pokedex.log"
//	log_level = "info"
//	metrics_addr = ""     # e.g. "127.0.0.1:9090" to serve /metrics
//	otlp_endpoint = ""    # e.g. "localhost:4317" to export traces
//	session_file = "~/.local/state/pokedex/session.toml"
//
// Durations use time.ParseDuration syntax. Paths accept a leading ~.
//
// # Errors
//
// Load returns errors for unreadable files ("open config", "read config"),
// malformed TOML or durations ("parse config", "parse env") and values that
// fail Validate.
package config
