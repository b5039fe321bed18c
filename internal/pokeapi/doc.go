// Package pokeapi provides an HTTP client for the Pokedex catalog API.
//
// # Overview
//
// The client covers the endpoints the browser needs:
//
//   - GET /api/pokemon: one page of pokemon, sorted and filtered server side
//   - GET /api/pokemon/types: every distinct type, in server order
//   - GET /api/pokemon/captured: names of captured pokemon
//   - POST /api/pokemon/capture/{name} and /api/pokemon/release/{name}
//   - GET /: health check used before the UI starts
//
// # Client Usage
//
//	client, err := pokeapi.NewClient("localhost:8080", pokeapi.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	page, err := client.ListPokemon(ctx, pokeapi.ListQuery{Page: 1, PageSize: 10, SortBy: "number", SortOrder: "asc"})
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: pokedex/0.1
//   - Carry a fresh X-Request-ID and the active trace context
//   - Run inside an OpenTelemetry client span
//   - Are counted and timed per route in Prometheus
//
// # Error Handling
//
// Errors are wrapped with context using fmt.Errorf:
//   - "execute request: dial tcp: connection refused"
//   - "api /api/pokemon returned status 500"
//   - "decode response: unexpected end of JSON input"
//
// Non-2xx responses are *StatusError values that wrap ErrStatus. The client
// never retries.
//
// # Page Invariants
//
// ListPokemon returns a Page whose TotalPages is always ceil(total/pageSize)
// and whose Items never exceed PageSize. A response that disagrees is
// corrected and logged at warn level.
package pokeapi
