package browse

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/urielniazov/pokedex/internal/pokeapi"
	"github.com/urielniazov/pokedex/internal/query"
)

const catalogSize = 23

// fakeAPI serves a fixed catalog of catalogSize pokemon.
type fakeAPI struct {
	mu sync.Mutex

	lists     []pokeapi.ListQuery
	listCtxs  []context.Context
	listErr   error
	typeCalls int
	types     []string
	typesErr  error
	captures  []string
	releases  []string
	mutateErr error
}

func (f *fakeAPI) ListPokemon(ctx context.Context, q pokeapi.ListQuery) (pokeapi.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, q)
	f.listCtxs = append(f.listCtxs, ctx)
	if f.listErr != nil {
		return pokeapi.Page{}, f.listErr
	}
	return pageFor(q), nil
}

func (f *fakeAPI) ListTypes(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typeCalls++
	if f.typesErr != nil {
		return nil, f.typesErr
	}
	return append([]string(nil), f.types...), nil
}

func (f *fakeAPI) Capture(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captures = append(f.captures, name)
	return f.mutateErr
}

func (f *fakeAPI) Release(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases = append(f.releases, name)
	return f.mutateErr
}

func (f *fakeAPI) listCalls() []pokeapi.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pokeapi.ListQuery(nil), f.lists...)
}

func (f *fakeAPI) setListErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

func pageFor(q pokeapi.ListQuery) pokeapi.Page {
	items := []pokeapi.Pokemon{}
	start := (q.Page - 1) * q.PageSize
	for i := start; i < catalogSize && i < start+q.PageSize; i++ {
		items = append(items, pokeapi.Pokemon{
			Number:  i + 1,
			Name:    fmt.Sprintf("mon-%d", i+1),
			TypeOne: q.Type,
		})
	}
	return pokeapi.Page{
		Items:      items,
		TotalItems: catalogSize,
		PageNumber: q.Page,
		PageSize:   q.PageSize,
		TotalPages: pokeapi.TotalPagesFor(catalogSize, q.PageSize),
	}
}

// memStore is a query.Store that records writes.
type memStore struct {
	params query.Params
	writes []query.Params
}

func newMemStore(raw string) *memStore {
	params, err := query.ParseParams(raw)
	if err != nil {
		panic(err)
	}
	return &memStore{params: params}
}

func (s *memStore) Read() query.Params { return s.params.Clone() }

func (s *memStore) Write(p query.Params) error {
	s.params = p.Clone()
	s.writes = append(s.writes, p.Clone())
	return nil
}

// collect runs cmd and every command batched inside it, returning the
// messages they produce. Commands must not block.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(t, c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// await runs a command that may block on a timer and returns its message.
func await(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("cmd is nil")
	}
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("cmd did not return")
		return nil
	}
}

// deliver feeds msgs to c and runs follow-up commands until none remain.
func deliver(t *testing.T, c *Controller, msgs []tea.Msg) {
	t.Helper()
	for len(msgs) > 0 {
		msg := msgs[0]
		msgs = msgs[1:]
		msgs = append(msgs, collect(t, c.Update(msg))...)
	}
}

func defaultListQuery() pokeapi.ListQuery {
	return pokeapi.ListQuery{Page: 1, PageSize: 10, SortBy: "number", SortOrder: "asc"}
}
