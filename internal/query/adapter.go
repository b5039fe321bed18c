package query

import "fmt"

// Store is an external key-value text store holding the persisted query, such
// as an address bar or a session file.
type Store interface {
	Read() Params
	Write(Params) error
}

// Replacer is implemented by stores that keep a history and can overwrite
// their current entry instead of adding one.
type Replacer interface {
	Replace(Params) error
}

// Adapter converts between a Store and State. It remembers the serialized form
// of the last state it wrote or observed so that unchanged states are never
// written twice.
type Adapter struct {
	store Store
	last  string
	wrote bool
}

// NewAdapter returns an Adapter over store.
func NewAdapter(store Store) *Adapter {
	return &Adapter{store: store}
}

// Load reads the store and decodes it, applying defaults for absent or invalid
// fields.
func (a *Adapter) Load() State {
	if a == nil || a.store == nil {
		return Default()
	}
	return Decode(a.store.Read())
}

// Save writes s when its serialized form differs from the last one written or
// observed. It reports whether a write happened.
func (a *Adapter) Save(s State) (bool, error) {
	return a.save(s, false)
}

// Replace is Save, except that a store implementing Replacer overwrites its
// current entry. Other stores get a plain write.
func (a *Adapter) Replace(s State) (bool, error) {
	return a.save(s, true)
}

func (a *Adapter) save(s State, replace bool) (bool, error) {
	if a == nil || a.store == nil {
		return false, nil
	}
	params := Encode(s)
	serialized := params.Serialize()
	if a.wrote && serialized == a.last {
		return false, nil
	}
	var err error
	if r, ok := a.store.(Replacer); ok && replace {
		err = r.Replace(params)
	} else {
		err = a.store.Write(params)
	}
	if err != nil {
		return false, fmt.Errorf("write query params: %w", err)
	}
	a.last = serialized
	a.wrote = true
	return true, nil
}

// Observe records s as already persisted, typically after it was pulled from
// the store, so a following Save of the same state is a no-op.
func (a *Adapter) Observe(s State) {
	if a == nil {
		return
	}
	a.last = Encode(s).Serialize()
	a.wrote = true
}
