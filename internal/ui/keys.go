package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	ToggleTheme key.Binding
	Back        key.Binding
	Forward     key.Binding
	Reload      key.Binding

	// Query
	Search       key.Binding
	NextType     key.Binding
	PrevType     key.Binding
	NextSort     key.Binding
	PrevSort     key.Binding
	ToggleOrder  key.Binding
	NextPageSize key.Binding
	ClearFilters key.Binding

	// Paging
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding

	// Selection
	Up      key.Binding
	Down    key.Binding
	Capture key.Binding

	// Search input
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Light/dark theme"),
		),
		Back: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "History back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "History forward"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		NextType: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Next type"),
		),
		PrevType: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Previous type"),
		),
		NextSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Next sort field"),
		),
		PrevSort: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Previous sort field"),
		),
		ToggleOrder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Toggle order"),
		),
		NextPageSize: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "Page size"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear filters"),
		),

		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "Previous page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "First page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "Last page"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Capture: key.NewBinding(
			key.WithKeys(" ", "c"),
			key.WithHelp("space/c", "Capture/release"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Done"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Leave search"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextType, k.NextSort, k.NextPage, k.Capture, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.NextType, k.PrevType, k.ClearFilters},
		{k.NextSort, k.PrevSort, k.ToggleOrder, k.NextPageSize},
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage},
		{k.Up, k.Down, k.Capture},
		{k.Back, k.Forward, k.Reload, k.ToggleTheme, k.Help, k.Quit},
	}
}
