package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/urielniazov/pokedex/internal/browse"
	"github.com/urielniazov/pokedex/internal/pokeapi"
)

// Messages shown in place of the list.
const (
	loadingText   = "Loading Pokémon data..."
	noResultsText = "No Pokémon found matching your search criteria."
)

// column describes one list column.
type column struct {
	title string
	width int
	right bool
	value func(pokeapi.Pokemon) string
}

var (
	colNumber   = column{"#", 5, true, func(p pokeapi.Pokemon) string { return fmt.Sprint(p.Number) }}
	colName     = column{"Name", 24, false, func(p pokeapi.Pokemon) string { return p.Name }}
	colTypes    = column{"Type", 18, false, func(p pokeapi.Pokemon) string { return strings.Join(p.Types(), "/") }}
	colTotal    = column{"Total", 6, true, func(p pokeapi.Pokemon) string { return fmt.Sprint(p.Total) }}
	colHP       = column{"HP", 4, true, func(p pokeapi.Pokemon) string { return fmt.Sprint(p.HitPoints) }}
	colAttack   = column{"Atk", 4, true, func(p pokeapi.Pokemon) string { return fmt.Sprint(p.Attack) }}
	colDefense  = column{"Def", 4, true, func(p pokeapi.Pokemon) string { return fmt.Sprint(p.Defense) }}
	colSpAtk    = column{"SpA", 4, true, func(p pokeapi.Pokemon) string { return fmt.Sprint(p.SpecialAttack) }}
	colSpDef    = column{"SpD", 4, true, func(p pokeapi.Pokemon) string { return fmt.Sprint(p.SpecialDefense) }}
	colSpeed    = column{"Spe", 4, true, func(p pokeapi.Pokemon) string { return fmt.Sprint(p.Speed) }}
	colGen      = column{"Gen", 4, true, func(p pokeapi.Pokemon) string { return fmt.Sprint(p.Generation) }}
	colLegend   = column{"Leg", 4, false, func(p pokeapi.Pokemon) string { return ternary(p.Legendary, "★", "") }}
	colCaptured = column{"Captured", 9, false, func(p pokeapi.Pokemon) string { return ternary(p.Captured, "● yes", "○") }}
)

// columnsFor picks the columns that fit width.
func columnsFor(width int) []column {
	switch {
	case width < LayoutCompactWidth:
		return []column{colNumber, colName, colTypes, colTotal, colCaptured}
	case width < LayoutWideWidth:
		return []column{colNumber, colName, colTypes, colTotal, colHP, colAttack, colDefense, colSpAtk, colSpDef, colSpeed, colCaptured}
	default:
		return []column{colNumber, colName, colTypes, colTotal, colHP, colAttack, colDefense, colSpAtk, colSpDef, colSpeed, colGen, colLegend, colCaptured}
	}
}

func (c column) cell(value string) string {
	if c.right {
		return padLeft(truncate(value, c.width), c.width)
	}
	return fit(value, c.width)
}

// renderContent renders the area between the search bar and the footer.
func (m Model) renderContent(view browse.View) string {
	height := m.height - headerLines - searchLines - footerLines
	if height < 1 {
		height = 1
	}
	styles := m.theme.Styles()

	var body string
	switch {
	case view.Err != "":
		body = m.renderError(view)
	case !view.HasPage:
		body = m.spinner.View() + " " + styles.MutedText.Render(loadingText)
	default:
		return m.renderResults(view, height)
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) renderError(view browse.View) string {
	styles := m.theme.Styles()
	lines := []string{styles.DangerText.Render(view.Err)}
	if view.FullyLoading || view.PageLoading {
		lines = append(lines, m.spinner.View()+" "+styles.MutedText.Render("Retrying..."))
	} else {
		lines = append(lines, styles.MutedText.Render("Press r to retry"))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Padding(1, 3).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderResults(view browse.View, height int) string {
	styles := m.theme.Styles()
	listHeight := height - paginationLines

	var lines []string
	if view.PageLoading {
		lines = append(lines, " "+m.spinner.View()+" "+styles.InfoText.Render(fmt.Sprintf("Loading page %d...", view.Query.Page)))
	}

	if len(view.Page.Items) == 0 {
		lines = append(lines, "", " "+styles.MutedText.Render(noResultsText))
		if view.Query.HasFilters() {
			lines = append(lines, " "+styles.AccentText.Render("Press x to clear all filters"))
		}
	} else {
		lines = append(lines, m.renderList(view.Page.Items, listHeight-len(lines))...)
	}

	for len(lines) < listHeight {
		lines = append(lines, "")
	}
	if len(lines) > listHeight && listHeight > 0 {
		lines = lines[:listHeight]
	}
	lines = append(lines, "", m.renderPagination(view))
	return strings.Join(lines, "\n")
}

// renderList renders the column header and up to limit-1 rows, scrolled so
// the selection stays visible.
func (m Model) renderList(items []pokeapi.Pokemon, limit int) []string {
	styles := m.theme.Styles()
	cols := columnsFor(m.width)

	header := make([]string, 0, len(cols))
	for _, c := range cols {
		header = append(header, c.cell(c.title))
	}
	lines := []string{" " + styles.MutedText.Bold(true).Render(strings.Join(header, " "))}

	rows := limit - 1
	if rows < 1 {
		rows = 1
	}
	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}
	end := min(len(items), start+rows)

	for i := start; i < end; i++ {
		lines = append(lines, " "+m.renderRow(items[i], cols, i == m.selected))
	}
	return lines
}

func (m Model) renderRow(p pokeapi.Pokemon, cols []column, selected bool) string {
	styles := m.theme.Styles()
	cells := make([]string, 0, len(cols))
	for _, c := range cols {
		text := c.cell(c.value(p))
		switch {
		case selected:
			cells = append(cells, text)
		case c.title == colTypes.title:
			cells = append(cells, m.renderTypes(p, c.width))
		case c.title == colCaptured.title && p.Captured:
			cells = append(cells, styles.SuccessText.Render(text))
		case c.title == colLegend.title:
			cells = append(cells, styles.WarningText.Render(text))
		default:
			cells = append(cells, styles.Text.Render(text))
		}
	}
	row := strings.Join(cells, " ")
	if selected {
		return styles.Selected.Render(row)
	}
	return row
}

// renderTypes colors each type and pads the cell to width.
func (m Model) renderTypes(p pokeapi.Pokemon, width int) string {
	styles := m.theme.Styles()
	types := p.Types()
	plain := strings.Join(types, "/")
	if len([]rune(plain)) > width {
		return styles.Text.Render(fit(plain, width))
	}
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, styles.TypeStyle(t).Render(t))
	}
	return strings.Join(parts, styles.FaintText.Render("/")) + strings.Repeat(" ", width-len([]rune(plain)))
}
