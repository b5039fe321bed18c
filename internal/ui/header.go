package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/urielniazov/pokedex/internal/browse"
	"github.com/urielniazov/pokedex/internal/query"
)

// renderHeader renders the title bar and the current query line.
func (m Model) renderHeader(view browse.View) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	title := []string{
		bg.Render("Pokédex", styles.Logo),
		bg.Render(m.theme.Name, styles.FaintText),
	}
	if view.HasPage {
		total := view.Page.TotalItems
		title = append(title, bg.Render(fmt.Sprintf("%d Pokémon", total), styles.MutedText))
	}
	if m.apiURL != "" {
		title = append(title, bg.Render(truncate(m.apiURL, 40), styles.FaintText))
	}
	if m.location != nil {
		snap := m.location.Snapshot()
		title = append(title, bg.Render(fmt.Sprintf("history %d/%d", snap.Index+1, snap.Entries), styles.FaintText))
	}

	q := view.Query
	typeLabel := q.TypeFilter
	if typeLabel == "" {
		typeLabel = "All types"
	}
	queryLine := []string{
		bg.Render("type", styles.FaintText) + bg.Space() + bg.Render(typeLabel, styles.TypeStyle(q.TypeFilter).Background(bg.Color())),
		bg.Render("sort", styles.FaintText) + bg.Space() + bg.Render(q.SortField.Label()+" "+orderArrow(q.SortOrder), styles.Text),
		bg.Render("per page", styles.FaintText) + bg.Space() + bg.Render(fmt.Sprint(q.PageSize), styles.Text),
	}
	if loc := m.locationString(); loc != "" {
		queryLine = append(queryLine, bg.Render("?"+truncate(loc, 60), styles.InfoText))
	}

	bar := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width)
	return bar.Render(bg.Join(title, "  ")) + "\n" + bar.Render(strings.Join(queryLine, sep))
}

// renderSearchBar renders the search box with a spinner while input is
// waiting to be committed.
func (m Model) renderSearchBar(view browse.View) string {
	styles := m.theme.Styles()
	input := m.search.View()
	if !m.searching {
		text := view.Query.SearchText
		if text == "" {
			input = styles.FaintText.Render("/ Search by name")
		} else {
			input = styles.AccentText.Render("/ ") + styles.Text.Render(text)
		}
	}
	if view.Searching {
		input += "  " + m.spinner.View() + styles.MutedText.Render(" searching")
	}
	return lipgloss.NewStyle().Padding(0, 1).Width(m.width).Render(input)
}

// renderFooter renders the short help line.
func (m Model) renderFooter() string {
	if m.searching {
		return m.theme.Styles().Footer.Width(m.width).Render(m.help.ShortHelpView([]key.Binding{m.keys.Confirm, m.keys.Cancel}))
	}
	return m.theme.Styles().Footer.Width(m.width).Render(m.help.View(m.keys))
}

func (m Model) locationString() string {
	if m.location == nil {
		return ""
	}
	return m.location.String()
}

func orderArrow(o query.SortOrder) string {
	return ternary(o == query.Desc, "↓", "↑")
}
