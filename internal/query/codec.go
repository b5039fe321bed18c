package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Persisted parameter keys.
const (
	KeyPage      = "page"
	KeyPageSize  = "pageSize"
	KeySortBy    = "sortBy"
	KeySortOrder = "sortOrder"
	KeyType      = "type"
	KeySearch    = "search"
)

// Params is the flat, untyped representation of a State held by a Store.
type Params map[string]string

// Clone returns an independent copy of p.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	dup := make(Params, len(p))
	for k, v := range p {
		dup[k] = v
	}
	return dup
}

// Serialize renders p in a canonical form (sorted, URL-encoded). Two Params
// with the same entries always serialize identically.
func (p Params) Serialize() string {
	values := url.Values{}
	for k, v := range p {
		values.Set(k, v)
	}
	return values.Encode()
}

// ParseParams reads a URL query string ("type=Fire&page=2") into Params. The
// first value wins for repeated keys; a leading "?" is ignored.
func ParseParams(raw string) (Params, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(raw), "?"))
	if err != nil {
		return nil, err
	}
	params := make(Params, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params, nil
}

// Decode builds a State from p. Absent keys and values that fail to parse fall
// back to the field default; Decode never fails.
func Decode(p Params) State {
	return State{
		Page:       decodePositive(p, KeyPage, DefaultPage),
		PageSize:   decodePositive(p, KeyPageSize, DefaultPageSize),
		SortField:  decodeSortField(p),
		SortOrder:  decodeSortOrder(p),
		TypeFilter: p[KeyType],
		SearchText: p[KeySearch],
	}
}

// Encode writes the fields of s that differ from their defaults.
func Encode(s State) Params {
	p := Params{}
	if s.Page != DefaultPage {
		p[KeyPage] = strconv.Itoa(s.Page)
	}
	if s.PageSize != DefaultPageSize {
		p[KeyPageSize] = strconv.Itoa(s.PageSize)
	}
	if s.SortField != DefaultSortField {
		p[KeySortBy] = string(s.SortField)
	}
	if s.SortOrder != DefaultSortOrder {
		p[KeySortOrder] = string(s.SortOrder)
	}
	if s.TypeFilter != "" {
		p[KeyType] = s.TypeFilter
	}
	if s.SearchText != "" {
		p[KeySearch] = s.SearchText
	}
	return p
}

func decodePositive(p Params, key string, fallback int) int {
	raw, ok := p[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func decodeSortField(p Params) SortField {
	f := SortField(strings.TrimSpace(p[KeySortBy]))
	if !f.Valid() {
		return DefaultSortField
	}
	return f
}

func decodeSortOrder(p Params) SortOrder {
	o := SortOrder(strings.ToLower(strings.TrimSpace(p[KeySortOrder])))
	if !o.Valid() {
		return DefaultSortOrder
	}
	return o
}
