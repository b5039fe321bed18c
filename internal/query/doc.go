// Package query defines the catalog query state and its persisted form.
//
// State is the canonical value: page, page size, sort field and order, type
// filter and search text. Params is the flat string map an external Store
// holds (keys page, pageSize, sortBy, sortOrder, type, search). Decode never
// fails: absent or unparsable values fall back to the field default. Encode
// writes only fields that differ from their defaults, so a state that sits at
// its defaults persists as an empty map.
//
// Adapter sits between a Store and the in-memory State. Save compares the
// serialized Params against the last serialized form it wrote or observed and
// skips the write when nothing changed; Observe records a state pulled from
// the store so it is not echoed back. Together they keep two writable copies
// of the same state from feeding each other.
package query
