package table

import "maps"

// ColumnMap maps external column names to internal storage names.
type ColumnMap map[string]string

// Identity builds a map where every column maps to itself.
func Identity(columns []string) ColumnMap {
	m := make(ColumnMap, len(columns))
	for _, c := range columns {
		m[c] = c
	}
	return m
}

// Resolve returns the internal name for an external name, or the name
// itself when it is not mapped.
func (m ColumnMap) Resolve(name string) string {
	if internal, ok := m[name]; ok {
		return internal
	}
	return name
}

// Has reports whether name is part of the external vocabulary.
func (m ColumnMap) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Clone returns a copy of the map.
func (m ColumnMap) Clone() ColumnMap {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
