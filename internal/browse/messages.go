package browse

import (
	"github.com/urielniazov/pokedex/internal/pokeapi"
	"github.com/urielniazov/pokedex/internal/query"
)

// listResultMsg carries the outcome of one list request back to Update.
type listResultMsg struct {
	seq   uint64
	query query.Effective
	page  pokeapi.Page
	err   error
}

type typesResultMsg struct {
	types []string
	err   error
}

type captureResultMsg struct {
	key      pokeapi.Key
	captured bool
	err      error
}
