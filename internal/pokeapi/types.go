package pokeapi

import "math"

// Pokemon mirrors a single entry returned by /api/pokemon.
type Pokemon struct {
	Number         int     `json:"number"`
	Name           string  `json:"name"`
	TypeOne        string  `json:"type_one"`
	TypeTwo        *string `json:"type_two"`
	Total          int     `json:"total"`
	HitPoints      int     `json:"hit_points"`
	Attack         int     `json:"attack"`
	Defense        int     `json:"defense"`
	SpecialAttack  int     `json:"special_attack"`
	SpecialDefense int     `json:"special_defense"`
	Speed          int     `json:"speed"`
	Generation     int     `json:"generation"`
	Legendary      bool    `json:"legendary"`
	Captured       bool    `json:"captured"`
}

// Key identifies a Pokemon. Number and name together are unique.
type Key struct {
	Number int
	Name   string
}

// Key returns the natural key of p.
func (p Pokemon) Key() Key {
	return Key{Number: p.Number, Name: p.Name}
}

// Types returns the non-empty types of p in order.
func (p Pokemon) Types() []string {
	types := make([]string, 0, 2)
	if p.TypeOne != "" {
		types = append(types, p.TypeOne)
	}
	if p.TypeTwo != nil && *p.TypeTwo != "" {
		types = append(types, *p.TypeTwo)
	}
	return types
}

// ListResponse mirrors the payload of /api/pokemon.
type ListResponse struct {
	Pokemon    []Pokemon `json:"pokemon"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}

// Page is one page of results with metadata that always satisfies
// TotalPages == ceil(TotalItems/PageSize) and len(Items) <= PageSize.
type Page struct {
	Items      []Pokemon
	TotalItems int
	PageNumber int
	PageSize   int
	TotalPages int
}

// TotalPagesFor returns ceil(total/pageSize), or zero when pageSize <= 0.
func TotalPagesFor(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// ToPage converts the response into a Page. It reports whether the response had
// to be corrected to satisfy the Page invariants.
func (r ListResponse) ToPage() (Page, bool) {
	page := Page{
		Items:      r.Pokemon,
		TotalItems: r.Total,
		PageNumber: r.Page,
		PageSize:   r.PageSize,
	}
	corrected := false
	if page.TotalItems < 0 {
		page.TotalItems = 0
		corrected = true
	}
	page.TotalPages = TotalPagesFor(page.TotalItems, page.PageSize)
	if page.TotalPages != r.TotalPages {
		corrected = true
	}
	if page.PageSize > 0 && len(page.Items) > page.PageSize {
		page.Items = page.Items[:page.PageSize]
		corrected = true
	}
	return page, corrected
}

// Clone returns a copy of p whose Items slice is independent.
func (p Page) Clone() Page {
	if p.Items != nil {
		items := make([]Pokemon, len(p.Items))
		copy(items, p.Items)
		p.Items = items
	}
	return p
}

// WithCaptured returns a copy of p with the captured flag of the item matching
// key set to captured. The second result is false when no item matched, in
// which case p is returned unchanged.
func (p Page) WithCaptured(key Key, captured bool) (Page, bool) {
	for i, item := range p.Items {
		if item.Key() != key {
			continue
		}
		patched := p.Clone()
		patched.Items[i].Captured = captured
		return patched, true
	}
	return p, false
}
