// Package app is the composition root of pokedex.
//
// Run loads configuration (config file, .env and POKEDEX_* variables), sets
// up file logging, optional tracing and an optional /metrics endpoint, checks
// that the catalog API answers, and then starts the UI over a
// browse.Controller whose query lives in a state.Location address bar.
//
// Startup order:
//
//  1. godotenv.Load, then config.Load
//  2. initLogger (JSON to log_file), initTracer when otlp_endpoint is set,
//     startMetricsServer when metrics_addr is set
//  3. pokeapi.NewClient and ensureAPIAvailable (3 second timeout)
//  4. the address bar is seeded from --query, else the saved session
//  5. ui.Run blocks until quit or context cancellation
//  6. the final address bar content is written to the session file
//
// With Options.Captured set, Run prints the captured names and returns
// after step 3.
//
// Fatal errors are returned from Run: invalid config, an unreachable API and
// a malformed --query. Preference and session file problems are logged and
// ignored.
package app
