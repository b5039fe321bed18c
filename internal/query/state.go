package query

import "strings"

// SortField names a column the API can sort by.
type SortField string

const (
	SortNumber         SortField = "number"
	SortName           SortField = "name"
	SortTotal          SortField = "total"
	SortHitPoints      SortField = "hit_points"
	SortAttack         SortField = "attack"
	SortDefense        SortField = "defense"
	SortSpecialAttack  SortField = "special_attack"
	SortSpecialDefense SortField = "special_defense"
	SortSpeed          SortField = "speed"
	SortGeneration     SortField = "generation"
)

// SortFields lists every sort field in display order.
var SortFields = []SortField{
	SortNumber,
	SortName,
	SortTotal,
	SortHitPoints,
	SortAttack,
	SortDefense,
	SortSpecialAttack,
	SortSpecialDefense,
	SortSpeed,
	SortGeneration,
}

var sortFieldLabels = map[SortField]string{
	SortNumber:         "Pokedex Number",
	SortName:           "Name",
	SortTotal:          "Total Stats",
	SortHitPoints:      "HP",
	SortAttack:         "Attack",
	SortDefense:        "Defense",
	SortSpecialAttack:  "Special Attack",
	SortSpecialDefense: "Special Defense",
	SortSpeed:          "Speed",
	SortGeneration:     "Generation",
}

// Valid reports whether f is a known sort field.
func (f SortField) Valid() bool {
	_, ok := sortFieldLabels[f]
	return ok
}

// Label returns the human readable name of the field.
func (f SortField) Label() string {
	if label, ok := sortFieldLabels[f]; ok {
		return label
	}
	return string(f)
}

// Next returns the field after f in SortFields, wrapping around.
func (f SortField) Next() SortField {
	return stepSortField(f, 1)
}

// Prev returns the field before f in SortFields, wrapping around.
func (f SortField) Prev() SortField {
	return stepSortField(f, -1)
}

func stepSortField(f SortField, delta int) SortField {
	for i, field := range SortFields {
		if field == f {
			n := len(SortFields)
			return SortFields[((i+delta)%n+n)%n]
		}
	}
	return SortFields[0]
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == Asc || o == Desc
}

// Toggle flips the order.
func (o SortOrder) Toggle() SortOrder {
	if o == Desc {
		return Asc
	}
	return Desc
}

// Label returns the human readable name of the order.
func (o SortOrder) Label() string {
	if o == Desc {
		return "Descending"
	}
	return "Ascending"
}

// PageSizes are the page sizes offered by the UI. Any positive size is accepted.
var PageSizes = []int{5, 10, 20, 50}

// NextPageSize returns the offered size after size, wrapping around. Sizes outside
// PageSizes step to the first offered size.
func NextPageSize(size int) int {
	for i, s := range PageSizes {
		if s == size {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return PageSizes[0]
}

const (
	DefaultPage      = 1
	DefaultPageSize  = 10
	DefaultSortField = SortNumber
	DefaultSortOrder = Asc
)

// State is the canonical query state. It is a comparable value; every field
// is always populated. An empty TypeFilter or SearchText means no filter.
type State struct {
	Page       int
	PageSize   int
	SortField  SortField
	SortOrder  SortOrder
	TypeFilter string
	SearchText string
}

// Default returns the state used when nothing is persisted.
func Default() State {
	return State{
		Page:      DefaultPage,
		PageSize:  DefaultPageSize,
		SortField: DefaultSortField,
		SortOrder: DefaultSortOrder,
	}
}

// Normalize replaces out-of-domain fields with their defaults.
func (s State) Normalize() State {
	if s.Page < 1 {
		s.Page = DefaultPage
	}
	if s.PageSize < 1 {
		s.PageSize = DefaultPageSize
	}
	if !s.SortField.Valid() {
		s.SortField = DefaultSortField
	}
	if !s.SortOrder.Valid() {
		s.SortOrder = DefaultSortOrder
	}
	return s
}

// HasFilters reports whether a type filter or search text is set.
func (s State) HasFilters() bool {
	return s.TypeFilter != "" || strings.TrimSpace(s.SearchText) != ""
}

// Effective is the query that drives fetches: a State whose SearchText holds the
// committed (debounced) search rather than the raw input.
type Effective State

// EffectiveWith returns s with its search text replaced by committed.
func (s State) EffectiveWith(committed string) Effective {
	e := Effective(s)
	e.SearchText = committed
	return e
}
