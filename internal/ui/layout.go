package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which only the key columns are shown.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show generation and legendary columns.
	LayoutWideWidth = 120
)

// Fixed line counts around the list.
const (
	headerLines     = 2
	searchLines     = 1
	paginationLines = 2
	footerLines     = 1
)

// maxPageLinks is how many page numbers the pagination bar shows at once.
const maxPageLinks = 5
