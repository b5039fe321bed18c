package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/urielniazov/pokedex/internal/browse"
	"github.com/urielniazov/pokedex/internal/pokeapi"
	"github.com/urielniazov/pokedex/internal/prefs"
	"github.com/urielniazov/pokedex/internal/query"
	"github.com/urielniazov/pokedex/internal/state"
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *browse.Controller
	Location   *state.Location
	ThemeName  string
	PrefsPath  string
	APIURL     string
	Logger     *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Collaborators
	ctrl      *browse.Controller
	location  *state.Location
	logger    *zap.Logger
	prefsPath string
	apiURL    string

	// UI state
	keys   keyMap
	help   help.Model
	theme  Theme
	width  int
	height int
	ready  bool

	// List state
	selected int

	// Search box
	search    textinput.Model
	searching bool

	spinner  spinner.Model
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search by name"
	search.CharLimit = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctrl:      opts.Controller,
		location:  opts.Location,
		logger:    logger,
		prefsPath: prefsPath,
		apiURL:    opts.APIURL,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		search:    search,
		spinner:   spin,
	}
	m.applyTheme(GetTheme(opts.ThemeName))
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ctrl.Init(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var inputCmd tea.Cmd
	if m.searching {
		// Cursor blinks belong to the search box.
		m.search, inputCmd = m.search.Update(msg)
	}
	cmd := m.ctrl.Update(msg)
	m.clampSelection()
	return m, tea.Batch(inputCmd, cmd)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	view := m.ctrl.View()
	q := view.Query

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		m.toggleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(q.SearchText)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.NextType):
		return m, m.ctrl.SetTypeFilter(cycleType(view.Types, q.TypeFilter, 1))

	case key.Matches(msg, m.keys.PrevType):
		return m, m.ctrl.SetTypeFilter(cycleType(view.Types, q.TypeFilter, -1))

	case key.Matches(msg, m.keys.NextSort):
		return m, m.ctrl.SetSortField(q.SortField.Next())

	case key.Matches(msg, m.keys.PrevSort):
		return m, m.ctrl.SetSortField(q.SortField.Prev())

	case key.Matches(msg, m.keys.ToggleOrder):
		return m, m.ctrl.SetSortOrder(q.SortOrder.Toggle())

	case key.Matches(msg, m.keys.NextPageSize):
		return m, m.ctrl.SetPageSize(query.NextPageSize(q.PageSize))

	case key.Matches(msg, m.keys.ClearFilters):
		m.search.SetValue("")
		return m, m.ctrl.ClearFilters()

	case key.Matches(msg, m.keys.Reload):
		return m, m.ctrl.Reload()

	case key.Matches(msg, m.keys.NextPage):
		if view.HasPage && q.Page < view.Page.TotalPages {
			m.selected = 0
			return m, m.ctrl.SetPage(q.Page + 1)
		}

	case key.Matches(msg, m.keys.PrevPage):
		if q.Page > 1 {
			m.selected = 0
			return m, m.ctrl.SetPage(q.Page - 1)
		}

	case key.Matches(msg, m.keys.FirstPage):
		m.selected = 0
		return m, m.ctrl.SetPage(1)

	case key.Matches(msg, m.keys.LastPage):
		if view.HasPage && view.Page.TotalPages > 0 {
			m.selected = 0
			return m, m.ctrl.SetPage(view.Page.TotalPages)
		}

	case key.Matches(msg, m.keys.Back):
		if m.location != nil && m.location.Back() {
			return m, m.pull()
		}

	case key.Matches(msg, m.keys.Forward):
		if m.location != nil && m.location.Forward() {
			return m, m.pull()
		}

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(view.Page.Items)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Capture):
		if item, ok := m.selectedItem(); ok {
			return m, m.ctrl.SetCaptured(item.Key(), !item.Captured)
		}
	}

	return m, nil
}

// handleSearchKey feeds keystrokes to the search box while it has focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Confirm, m.keys.Cancel) {
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var inputCmd tea.Cmd
	m.search, inputCmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, inputCmd
	}
	m.selected = 0
	return m, tea.Batch(inputCmd, m.ctrl.SetSearchText(m.search.Value()))
}

// pull re-reads the location after history navigation.
func (m *Model) pull() tea.Cmd {
	cmd := m.ctrl.Pull()
	m.search.SetValue(m.ctrl.State().SearchText)
	m.selected = 0
	return cmd
}

func (m *Model) toggleTheme() {
	m.applyTheme(GetTheme(NextTheme(m.theme.Name)))
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
		m.logger.Warn("failed to save theme preference", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

func (m *Model) applyTheme(t Theme) {
	m.theme = t
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
	m.search.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
	m.search.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text))
	m.search.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint))
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning))
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted))
	m.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint))
}

func (m *Model) clampSelection() {
	n := len(m.ctrl.View().Page.Items)
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m Model) selectedItem() (pokeapi.Pokemon, bool) {
	items := m.ctrl.View().Page.Items
	if m.selected < 0 || m.selected >= len(items) {
		return pokeapi.Pokemon{}, false
	}
	return items[m.selected], true
}

// cycleType steps through "" (all types) followed by types.
func cycleType(types []string, current string, delta int) string {
	options := append([]string{""}, types...)
	idx := 0
	for i, t := range options {
		if t == current {
			idx = i
			break
		}
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n]
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	view := m.ctrl.View()

	var b strings.Builder
	b.WriteString(m.renderHeader(view))
	b.WriteString("\n")
	b.WriteString(m.renderSearchBar(view))
	b.WriteString("\n")
	b.WriteString(m.renderContent(view))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
