// Package lookup resolves identifier fields on a record to descriptive
// text from referenced tables.
package lookup

import (
	"fmt"
	"strings"

	"github.com/shrikedb/shrike/internal/record"
	"github.com/shrikedb/shrike/internal/store"
)

// Spec describes one foreign-key lookup: which record field holds the
// identifier, which table it references, and which columns describe the
// referenced row.
type Spec struct {
	SourceField string
	Table       string
	DestField   string   // optional; receives the space-joined description
	DescColumns []string // columns concatenated into DestField
}

type lookupState struct {
	spec       Spec
	previousID any
	currentID  any
	row        map[string]any
}

// Resolver resolves identifier fields on a bound record against a store.
// A failed lookup is not an error; callers use Find's boolean to decide
// whether to surface a not-found condition.
type Resolver struct {
	store *store.Store
	rec   *record.Record
	specs map[string]*lookupState
}

// New binds a record to a store for foreign-key resolution.
func New(st *store.Store, rec *record.Record) *Resolver {
	return &Resolver{
		store: st,
		rec:   rec,
		specs: make(map[string]*lookupState),
	}
}

// Register adds a lookup spec, keyed by its source field. Registering the
// same source field again replaces the earlier spec and its bookkeeping.
func (r *Resolver) Register(spec Spec) {
	r.specs[spec.SourceField] = &lookupState{spec: spec}
}

// Find resolves the identifier currently held in sourceField. When no row
// matches, the table's zero-valued template row is substituted and the
// bookkeeping still advances, so HasChanged reflects the attempt. It
// reports whether a real row was found.
func (r *Resolver) Find(sourceField string) (bool, error) {
	st, ok := r.specs[sourceField]
	if !ok {
		return false, fmt.Errorf("no lookup registered for field %q", sourceField)
	}
	v, ok := r.rec.Get(sourceField)
	if !ok {
		return false, fmt.Errorf("record has no field %q", sourceField)
	}

	st.previousID = st.currentID

	row, found, err := r.store.FindOrEmpty(st.spec.Table, r.store.IDColumn(), v.Raw())
	if err != nil {
		return false, err
	}

	st.row = row
	st.currentID = row[r.store.IDColumn()]

	if st.spec.DestField != "" {
		r.rec.Set(st.spec.DestField, record.String(describe(row, st.spec.DescColumns)))
	}

	return found, nil
}

// HasChanged reports whether the identifier differs from the previous
// resolution. It is true the first time a field is resolved.
func (r *Resolver) HasChanged(sourceField string) bool {
	st, ok := r.specs[sourceField]
	if !ok {
		return false
	}
	return st.currentID != st.previousID
}

// Current returns the last resolved row for sourceField: the real row or
// the empty template, nil before the first resolution.
func (r *Resolver) Current(sourceField string) map[string]any {
	st, ok := r.specs[sourceField]
	if !ok {
		return nil
	}
	return st.row
}

// describe joins the description columns with single spaces, trimmed.
func describe(row map[string]any, cols []string) string {
	parts := make([]string, 0, len(cols))
	for _, col := range cols {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%v", v))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
