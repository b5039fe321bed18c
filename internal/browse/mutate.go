package browse

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/urielniazov/pokedex/internal/pokeapi"
)

// Capturer is the part of the API the Mutator needs.
type Capturer interface {
	Capture(ctx context.Context, name string) error
	Release(ctx context.Context, name string) error
}

// Mutator toggles the captured flag remotely and patches the held page once
// the server has accepted the change.
type Mutator struct {
	api    Capturer
	logger *zap.Logger
	parent context.Context
}

// NewMutator returns a Mutator whose calls derive from parent.
func NewMutator(parent context.Context, api Capturer, logger *zap.Logger) *Mutator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if parent == nil {
		parent = context.Background()
	}
	return &Mutator{api: api, logger: logger, parent: parent}
}

// SetCaptured returns the command performing exactly one capture or release
// call for key.
func (m *Mutator) SetCaptured(key pokeapi.Key, captured bool) tea.Cmd {
	if m.api == nil {
		return nil
	}
	api, ctx := m.api, m.parent
	return func() tea.Msg {
		var err error
		if captured {
			err = api.Capture(ctx, key.Name)
		} else {
			err = api.Release(ctx, key.Name)
		}
		return captureResultMsg{key: key, captured: captured, err: err}
	}
}

// Apply folds a finished call into page. A failed call leaves page untouched.
func (m *Mutator) Apply(page pokeapi.Page, msg captureResultMsg) pokeapi.Page {
	action := actionFor(msg.captured)
	if msg.err != nil {
		mutations.WithLabelValues(action, resultFailed).Inc()
		m.logger.Warn("capture toggle failed",
			zap.String("action", action),
			zap.Int("number", msg.key.Number),
			zap.String("name", msg.key.Name),
			zap.Error(msg.err),
		)
		return page
	}
	mutations.WithLabelValues(action, resultOK).Inc()
	patched, ok := page.WithCaptured(msg.key, msg.captured)
	if !ok {
		m.logger.Debug("captured item not on current page",
			zap.Int("number", msg.key.Number),
			zap.String("name", msg.key.Name),
		)
	}
	return patched
}

func actionFor(captured bool) string {
	if captured {
		return "capture"
	}
	return "release"
}
