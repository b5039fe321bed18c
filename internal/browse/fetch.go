package browse

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/urielniazov/pokedex/internal/pokeapi"
	"github.com/urielniazov/pokedex/internal/query"
)

// Lister is the part of the API the Orchestrator needs.
type Lister interface {
	ListPokemon(ctx context.Context, q pokeapi.ListQuery) (pokeapi.Page, error)
}

// Orchestrator issues list requests and decides which responses may be
// applied. Every request gets a sequence number; only the response carrying
// the latest one is accepted, whatever order responses arrive in.
type Orchestrator struct {
	api    Lister
	logger *zap.Logger
	parent context.Context

	seq       uint64
	last      query.Effective
	requested bool
	inFlight  bool
	cancel    context.CancelFunc
	closed    bool
}

// NewOrchestrator returns an Orchestrator whose requests derive from parent.
func NewOrchestrator(parent context.Context, api Lister, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if parent == nil {
		parent = context.Background()
	}
	return &Orchestrator{api: api, logger: logger, parent: parent}
}

// Request supersedes any in-flight request and returns the command that
// performs the new one. It returns nil once the Orchestrator is closed.
func (o *Orchestrator) Request(q query.Effective) tea.Cmd {
	if o.closed || o.api == nil {
		return nil
	}
	if o.cancel != nil {
		o.cancel()
	}
	o.seq++
	seq := o.seq
	ctx, cancel := context.WithCancel(o.parent)
	o.cancel = cancel
	o.last = q
	o.requested = true
	o.inFlight = true
	fetchesIssued.Inc()

	api := o.api
	params := listQueryFor(q)
	o.logger.Debug("list request issued",
		zap.Uint64("seq", seq),
		zap.Int("page", params.Page),
		zap.Int("page_size", params.PageSize),
		zap.String("sort_by", params.SortBy),
		zap.String("sort_order", params.SortOrder),
		zap.String("type", params.Type),
		zap.String("search", params.Search),
	)
	return func() tea.Msg {
		page, err := api.ListPokemon(ctx, params)
		return listResultMsg{seq: seq, query: q, page: page, err: err}
	}
}

// Last returns the most recently requested query.
func (o *Orchestrator) Last() (query.Effective, bool) {
	return o.last, o.requested
}

// InFlight reports whether the latest request has not resolved yet.
func (o *Orchestrator) InFlight() bool {
	return o.inFlight
}

// Resolve reports whether msg is the response to the current request and may
// be applied. Stale and post-close responses are discarded.
func (o *Orchestrator) Resolve(msg listResultMsg) bool {
	switch {
	case o.closed:
		fetchesDiscarded.WithLabelValues(discardClosed).Inc()
		o.logger.Debug("list response discarded after close", zap.Uint64("seq", msg.seq))
		return false
	case msg.seq != o.seq:
		fetchesDiscarded.WithLabelValues(discardStale).Inc()
		o.logger.Debug("stale list response discarded",
			zap.Uint64("seq", msg.seq),
			zap.Uint64("current_seq", o.seq),
		)
		return false
	}
	o.inFlight = false
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	return true
}

// Close cancels the in-flight request; later responses are discarded.
func (o *Orchestrator) Close() {
	if o.closed {
		return
	}
	o.closed = true
	o.inFlight = false
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func listQueryFor(q query.Effective) pokeapi.ListQuery {
	return pokeapi.ListQuery{
		Page:      q.Page,
		PageSize:  q.PageSize,
		SortBy:    string(q.SortField),
		SortOrder: string(q.SortOrder),
		Type:      q.TypeFilter,
		Search:    q.SearchText,
	}
}
