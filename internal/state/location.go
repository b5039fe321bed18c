package state

import (
	"sync"

	"github.com/urielniazov/pokedex/internal/query"
)

var (
	_ query.Store    = (*Location)(nil)
	_ query.Replacer = (*Location)(nil)
)

// DefaultHistoryLimit bounds the number of entries a Location keeps.
const DefaultHistoryLimit = 50

// Location holds the persisted query parameters together with a navigation
// history, much like a browser address bar. It implements query.Store and is
// safe for concurrent use.
type Location struct {
	mu      sync.RWMutex
	entries []query.Params
	index   int
	limit   int
}

// Snapshot describes a Location at a point in time.
type Snapshot struct {
	Current    query.Params
	Index      int
	Entries    int
	CanBack    bool
	CanForward bool
}

// NewLocation returns a Location whose only entry is initial.
func NewLocation(initial query.Params, limit int) *Location {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	if initial == nil {
		initial = query.Params{}
	}
	return &Location{entries: []query.Params{initial.Clone()}, limit: limit}
}

// Read returns a copy of the current entry.
func (l *Location) Read() query.Params {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.entries[l.index].Clone()
}

// Write makes p the current entry. Forward history is discarded. Writing the
// current content again is a no-op, and a write that only refines a non-empty
// search replaces the current entry so typing does not flood the history.
func (l *Location) Write(p query.Params) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := p.Clone()
	if next == nil {
		next = query.Params{}
	}
	current := l.entries[l.index]
	if current.Serialize() == next.Serialize() {
		return nil
	}
	l.entries = l.entries[:l.index+1]
	if refinesSearch(current, next) {
		l.entries[l.index] = next
		return nil
	}
	l.entries = append(l.entries, next)
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
	l.index = len(l.entries) - 1
	return nil
}

// Replace overwrites the current entry with p and discards forward history.
func (l *Location) Replace(p query.Params) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := p.Clone()
	if next == nil {
		next = query.Params{}
	}
	l.entries = l.entries[:l.index+1]
	l.entries[l.index] = next
	return nil
}

// Back moves to the previous entry. It reports whether the entry changed.
func (l *Location) Back() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.index == 0 {
		return false
	}
	l.index--
	return true
}

// Forward moves to the next entry. It reports whether the entry changed.
func (l *Location) Forward() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.index >= len(l.entries)-1 {
		return false
	}
	l.index++
	return true
}

// String renders the current entry as a query string.
func (l *Location) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.entries[l.index].Serialize()
}

// Snapshot returns a copy of the current position.
func (l *Location) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return Snapshot{
		Current:    l.entries[l.index].Clone(),
		Index:      l.index,
		Entries:    len(l.entries),
		CanBack:    l.index > 0,
		CanForward: l.index < len(l.entries)-1,
	}
}

func refinesSearch(current, next query.Params) bool {
	if current[query.KeySearch] == "" || next[query.KeySearch] == "" {
		return false
	}
	a := current.Clone()
	b := next.Clone()
	delete(a, query.KeySearch)
	delete(b, query.KeySearch)
	return a.Serialize() == b.Serialize()
}
