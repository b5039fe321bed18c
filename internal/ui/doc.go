// Package ui is the Bubble Tea front end of the Pokédex browser.
//
// The Model owns only presentation state: terminal size, the selected row,
// the search box, the theme and the help overlay. Everything about the
// catalog query lives in a browse.Controller; key presses are translated to
// controller setters and every message the Model does not handle itself is
// forwarded to Controller.Update.
//
// # Layout
//
//   - Header: title, result count, API address, history position and the
//     active type, sort and page size
//   - Search bar: the name filter, with a spinner while typing is settling
//   - Content: the result list, or a loading, error or empty state
//   - Pagination: first, previous, a window of page numbers, next and last
//   - Footer: short key help
//
// Columns adapt to the terminal width (see LayoutCompactWidth and
// LayoutWideWidth). Press ? for the full key reference.
package ui
