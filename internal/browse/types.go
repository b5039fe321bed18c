package browse

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// TypeLister is the part of the API the category loader needs.
type TypeLister interface {
	ListTypes(ctx context.Context) ([]string, error)
}

func loadTypes(ctx context.Context, api TypeLister) tea.Cmd {
	if api == nil {
		return nil
	}
	return func() tea.Msg {
		types, err := api.ListTypes(ctx)
		return typesResultMsg{types: types, err: err}
	}
}
