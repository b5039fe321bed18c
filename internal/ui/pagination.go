package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/urielniazov/pokedex/internal/browse"
)

// pageWindow returns at most limit consecutive page numbers around current,
// shifted left when current is near the last page.
func pageWindow(current, total, limit int) []int {
	if total <= 0 || limit <= 0 {
		return nil
	}
	start := max(1, current-limit/2)
	end := min(total, start+limit-1)
	if end-start+1 < limit {
		start = max(1, end-limit+1)
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// renderPagination renders the page navigation bar.
func (m Model) renderPagination(view browse.View) string {
	if !view.HasPage || view.Page.TotalPages == 0 {
		return ""
	}
	styles := m.theme.Styles()
	current := view.Query.Page
	total := view.Page.TotalPages

	button := func(label string, enabled bool) string {
		if enabled {
			return styles.AccentText.Render(label)
		}
		return styles.FaintText.Render(label)
	}

	numbers := make([]string, 0, maxPageLinks)
	for _, p := range pageWindow(current, total, maxPageLinks) {
		label := fmt.Sprint(p)
		if p == current {
			numbers = append(numbers, styles.Selected.Bold(true).Render(" "+label+" "))
			continue
		}
		numbers = append(numbers, styles.Text.Render(" "+label+" "))
	}

	parts := []string{
		button("⟪ First", current > 1),
		button("⟨ Prev", current > 1),
		strings.Join(numbers, ""),
		button("Next ⟩", current < total),
		button("Last ⟫", current < total),
		styles.MutedText.Render(fmt.Sprintf("Page %d of %d", current, total)),
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, "  "))
}
