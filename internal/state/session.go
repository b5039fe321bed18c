package state

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"

	"github.com/urielniazov/pokedex/internal/query"
)

// Session is the on-disk record of the last query of a run.
type Session struct {
	Query   string    `toml:"query"`
	SavedAt time.Time `toml:"saved_at"`
}

// LoadSession reads the session file at path. A missing file yields an empty
// Session and no error.
func LoadSession(path string) (Session, query.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, query.Params{}, nil
		}
		return Session{}, nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := toml.Unmarshal(data, &s); err != nil {
		return Session{}, nil, fmt.Errorf("parse session: %w", err)
	}
	params, err := query.ParseParams(s.Query)
	if err != nil {
		return Session{}, nil, fmt.Errorf("parse session query: %w", err)
	}
	return s, params, nil
}

// SaveSession atomically replaces the session file at path with p.
func SaveSession(path string, p query.Params, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := toml.Marshal(Session{Query: p.Serialize(), SavedAt: now.UTC().Truncate(time.Second)})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
