package browse

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/urielniazov/pokedex/internal/debounce"
	"github.com/urielniazov/pokedex/internal/pokeapi"
	"github.com/urielniazov/pokedex/internal/query"
)

// LoadErrorMessage is the single user-visible message for a failed list fetch.
const LoadErrorMessage = "Failed to load Pokemon data. Please try again."

// Phase is the lifecycle phase of a Controller.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseReady
)

func (p Phase) String() string {
	if p == PhaseReady {
		return "ready"
	}
	return "initializing"
}

// API is everything the Controller needs from the remote catalog.
type API interface {
	Lister
	TypeLister
	Capturer
}

// Ensure the HTTP client satisfies API at compile time.
var _ API = (*pokeapi.Client)(nil)

// Options configure a Controller.
type Options struct {
	Store       query.Store
	API         API
	Clock       clock.Clock
	QuietPeriod time.Duration
	Logger      *zap.Logger
}

// View is a read-only snapshot of the Controller for rendering.
type View struct {
	Phase Phase
	// Query holds the raw search text as typed.
	Query query.State
	// Effective holds the committed search text and drives fetches.
	Effective    query.Effective
	Searching    bool
	FullyLoading bool
	PageLoading  bool
	HasPage      bool
	Page         pokeapi.Page
	Err          string
	Types        []string
}

// Controller owns the query state, the held page and the category list. All
// methods must be called from the Bubble Tea event loop.
type Controller struct {
	logger    *zap.Logger
	adapter   *query.Adapter
	debouncer *debounce.Debouncer
	fetch     *Orchestrator
	mutator   *Mutator
	api       API

	ctx    context.Context
	cancel context.CancelFunc
	alive  bool

	phase        Phase
	state        query.State
	fullyLoading bool
	pageLoading  bool
	page         pokeapi.Page
	hasPage      bool
	err          string
	types        []string
	typesLoaded  bool
	// typed is set while raw search writes have not been followed by a commit.
	typed bool
}

// New builds a Controller. Nothing happens until Init.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		logger:    logger,
		adapter:   query.NewAdapter(opts.Store),
		debouncer: debounce.New(opts.Clock, opts.QuietPeriod),
		fetch:     NewOrchestrator(ctx, opts.API, logger),
		mutator:   NewMutator(ctx, opts.API, logger),
		api:       opts.API,
		ctx:       ctx,
		cancel:    cancel,
		alive:     true,
		state:     query.Default(),
	}
}

// Init loads the persisted query, writes its normalized form back, loads the
// category list and issues the first fetch. Only the first call has effect.
func (c *Controller) Init() tea.Cmd {
	if !c.alive || c.phase != PhaseInitializing {
		return nil
	}
	c.state = c.adapter.Load().Normalize()
	c.debouncer.Reset(c.state.SearchText)
	c.phase = PhaseReady
	c.logger.Info("query state loaded",
		zap.Int("page", c.state.Page),
		zap.Int("page_size", c.state.PageSize),
		zap.String("sort_by", string(c.state.SortField)),
		zap.String("sort_order", string(c.state.SortOrder)),
		zap.String("type", c.state.TypeFilter),
		zap.String("search", c.state.SearchText),
	)
	c.replace()
	return tea.Batch(c.loadTypes(), c.fetchIfChanged())
}

// Close tears the Controller down. In-flight work is cancelled and every
// later message is ignored.
func (c *Controller) Close() {
	if !c.alive {
		return
	}
	c.alive = false
	c.debouncer.Stop()
	c.fetch.Close()
	c.cancel()
}

// Alive reports whether Close has not been called.
func (c *Controller) Alive() bool { return c.alive }

// State returns the current query state; SearchText is the raw input.
func (c *Controller) State() query.State { return c.state }

// Effective returns the query that drives fetches.
func (c *Controller) Effective() query.Effective {
	return c.state.EffectiveWith(c.debouncer.Committed())
}

// View returns a snapshot for rendering.
func (c *Controller) View() View {
	return View{
		Phase:        c.phase,
		Query:        c.state,
		Effective:    c.Effective(),
		Searching:    c.debouncer.Pending(),
		FullyLoading: c.fullyLoading,
		PageLoading:  c.pageLoading,
		HasPage:      c.hasPage,
		Page:         c.page,
		Err:          c.err,
		Types:        c.types,
	}
}

func (c *Controller) ready() bool {
	return c.alive && c.phase == PhaseReady
}

// SetPage moves to page n (minimum 1) without touching other fields.
func (c *Controller) SetPage(n int) tea.Cmd {
	if !c.ready() {
		return nil
	}
	if n < 1 {
		n = 1
	}
	c.state.Page = n
	return c.sync()
}

// SetPageSize changes the page size and returns to page 1. Non-positive sizes
// are ignored.
func (c *Controller) SetPageSize(size int) tea.Cmd {
	if !c.ready() || size < 1 {
		return nil
	}
	c.state.PageSize = size
	c.state.Page = 1
	return c.sync()
}

// SetSortField changes the sort field and returns to page 1.
func (c *Controller) SetSortField(f query.SortField) tea.Cmd {
	if !c.ready() || !f.Valid() {
		return nil
	}
	c.state.SortField = f
	c.state.Page = 1
	return c.sync()
}

// SetSortOrder changes the sort order and returns to page 1.
func (c *Controller) SetSortOrder(o query.SortOrder) tea.Cmd {
	if !c.ready() || !o.Valid() {
		return nil
	}
	c.state.SortOrder = o
	c.state.Page = 1
	return c.sync()
}

// SetSort changes field and order together and returns to page 1.
func (c *Controller) SetSort(f query.SortField, o query.SortOrder) tea.Cmd {
	if !c.ready() || !f.Valid() || !o.Valid() {
		return nil
	}
	c.state.SortField = f
	c.state.SortOrder = o
	c.state.Page = 1
	return c.sync()
}

// SetTypeFilter filters by type, or clears the filter when t is empty, and
// returns to page 1.
func (c *Controller) SetTypeFilter(t string) tea.Cmd {
	if !c.ready() {
		return nil
	}
	c.state.TypeFilter = t
	c.state.Page = 1
	return c.sync()
}

// SetSearchText records raw search input. The raw value is persisted at once
// but only affects fetches after the debouncer commits it.
func (c *Controller) SetSearchText(raw string) tea.Cmd {
	if !c.ready() {
		return nil
	}
	c.state.SearchText = raw
	cmd := c.debouncer.Set(raw)
	if c.push() {
		c.typed = true
	}
	return cmd
}

// ClearFilters drops the type filter and the search text immediately.
func (c *Controller) ClearFilters() tea.Cmd {
	if !c.ready() {
		return nil
	}
	c.state.TypeFilter = ""
	c.state.SearchText = ""
	c.debouncer.Reset("")
	c.typed = false
	c.state.Page = 1
	return c.sync()
}

// Reload issues the current query again, even when it was already requested.
func (c *Controller) Reload() tea.Cmd {
	if !c.ready() {
		return nil
	}
	return c.request(c.Effective())
}

// SetCaptured toggles the captured flag of the item with key. It never touches
// the query state or issues a fetch.
func (c *Controller) SetCaptured(key pokeapi.Key, captured bool) tea.Cmd {
	if !c.ready() {
		return nil
	}
	return c.mutator.SetCaptured(key, captured)
}

// Pull applies the store's current content after it changed externally. Only
// fields that differ are applied; a differing search is committed without
// delay. The pulled state is recorded so it is not written back.
func (c *Controller) Pull() tea.Cmd {
	if !c.ready() {
		return nil
	}
	pulled := c.adapter.Load().Normalize()
	changed := false
	if pulled.Page != c.state.Page {
		c.state.Page = pulled.Page
		changed = true
	}
	if pulled.PageSize != c.state.PageSize {
		c.state.PageSize = pulled.PageSize
		changed = true
	}
	if pulled.SortField != c.state.SortField {
		c.state.SortField = pulled.SortField
		changed = true
	}
	if pulled.SortOrder != c.state.SortOrder {
		c.state.SortOrder = pulled.SortOrder
		changed = true
	}
	if pulled.TypeFilter != c.state.TypeFilter {
		c.state.TypeFilter = pulled.TypeFilter
		changed = true
	}
	if pulled.SearchText != c.state.SearchText || pulled.SearchText != c.debouncer.Committed() {
		c.state.SearchText = pulled.SearchText
		c.debouncer.Reset(pulled.SearchText)
		changed = true
	}
	c.adapter.Observe(c.state)
	c.typed = false
	if !changed {
		return nil
	}
	c.logger.Debug("query state pulled from store")
	return c.fetchIfChanged()
}

// Update routes asynchronous results. Unknown messages are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounce.SettledMsg:
		if !c.ready() {
			return nil
		}
		committed, ok := c.debouncer.Settle(msg)
		if !ok {
			return nil
		}
		searchCommits.Inc()
		c.logger.Debug("search committed", zap.String("search", committed))
		c.state.Page = 1
		if c.typed {
			// The committed query takes the place of the keystroke entry.
			c.typed = false
			c.replace()
			return c.fetchIfChanged()
		}
		return c.sync()
	case listResultMsg:
		if !c.fetch.Resolve(msg) || !c.alive {
			return nil
		}
		c.applyList(msg)
	case typesResultMsg:
		if !c.alive {
			return nil
		}
		if msg.err != nil {
			c.logger.Warn("failed to load pokemon types", zap.Error(msg.err))
			return nil
		}
		c.types = append([]string(nil), msg.types...)
	case captureResultMsg:
		if !c.alive {
			return nil
		}
		c.page = c.mutator.Apply(c.page, msg)
	}
	return nil
}

func (c *Controller) applyList(msg listResultMsg) {
	c.fullyLoading = false
	c.pageLoading = false
	if msg.err != nil {
		fetchesApplied.WithLabelValues(resultFailed).Inc()
		c.err = LoadErrorMessage
		c.logger.Warn("failed to load pokemon",
			zap.Int("page", msg.query.Page),
			zap.String("type", msg.query.TypeFilter),
			zap.String("search", msg.query.SearchText),
			zap.Error(msg.err),
		)
		return
	}
	fetchesApplied.WithLabelValues(resultOK).Inc()
	c.page = msg.page
	c.hasPage = true
	c.err = ""
}

// sync persists the state and fetches when the effective query changed.
func (c *Controller) sync() tea.Cmd {
	c.push()
	return c.fetchIfChanged()
}

// push writes the state as a new store entry and reports whether it wrote.
func (c *Controller) push() bool {
	return c.persist(c.adapter.Save)
}

// replace writes the state over the store's current entry.
func (c *Controller) replace() bool {
	return c.persist(c.adapter.Replace)
}

func (c *Controller) persist(save func(query.State) (bool, error)) bool {
	wrote, err := save(c.state)
	if err != nil {
		c.logger.Warn("failed to persist query state", zap.Error(err))
		return false
	}
	if wrote {
		c.logger.Debug("query state persisted")
	}
	return wrote
}

func (c *Controller) fetchIfChanged() tea.Cmd {
	eff := c.Effective()
	if last, ok := c.fetch.Last(); ok && last == eff {
		return nil
	}
	return c.request(eff)
}

func (c *Controller) request(eff query.Effective) tea.Cmd {
	cmd := c.fetch.Request(eff)
	if cmd == nil {
		return nil
	}
	if c.hasPage {
		c.pageLoading = true
	} else {
		c.fullyLoading = true
	}
	return cmd
}

func (c *Controller) loadTypes() tea.Cmd {
	if c.typesLoaded {
		return nil
	}
	c.typesLoaded = true
	return loadTypes(c.ctx, c.api)
}
