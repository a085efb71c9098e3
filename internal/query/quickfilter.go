package query

import (
	"strings"

	"github.com/shrikedb/shrike/internal/record"
	"github.com/shrikedb/shrike/internal/store"
)

// ArgsFunc supplies the current arguments for a quick filter's predicate
// fragment. It is called on every query so arguments stay live.
type ArgsFunc func() []any

// VisibleFunc gates a quick filter. When it returns false the filter is
// skipped for that query without being deactivated; visibility is
// re-evaluated on every query, never cached.
type VisibleFunc func() bool

type quickFilter struct {
	name     string
	fragment string
	args     ArgsFunc
	visible  VisibleFunc
}

// QuickFilterBuilder decorates Builder with a set of named, independently
// toggleable predicate fragments.
type QuickFilterBuilder struct {
	*Builder
	filters []quickFilter
	active  map[string]bool
}

// NewQuickFilter binds a search record to a target table, like New, with
// quick-filter support.
func NewQuickFilter(st *store.Store, rec *record.Record, table string) *QuickFilterBuilder {
	return &QuickFilterBuilder{
		Builder: New(st, rec, table),
		active:  make(map[string]bool),
	}
}

// RegisterQuickFilter adds a named predicate fragment. args and visible may
// be nil. Registration order defines the order fragments are ANDed in.
func (q *QuickFilterBuilder) RegisterQuickFilter(name, fragment string, args ArgsFunc, visible VisibleFunc) *QuickFilterBuilder {
	q.filters = append(q.filters, quickFilter{
		name:     name,
		fragment: fragment,
		args:     args,
		visible:  visible,
	})
	return q
}

// AddJoin mirrors Builder.AddJoin while keeping the fluent chain typed to
// the quick-filter builder.
func (q *QuickFilterBuilder) AddJoin(alias, table, localColumn string, kind JoinKind, columns ...string) *QuickFilterBuilder {
	q.Builder.AddJoin(alias, table, localColumn, kind, columns...)
	return q
}

// Toggle flips the named filter's membership in the active set and
// immediately re-runs the query.
func (q *QuickFilterBuilder) Toggle(name string) ([]map[string]any, error) {
	q.active[name] = !q.active[name]
	return q.Query("")
}

// Active reports whether the named filter is currently toggled on.
func (q *QuickFilterBuilder) Active(name string) bool {
	return q.active[name]
}

// Query ANDs every active filter whose visibility predicate currently
// holds onto the caller's extra predicate, then delegates to the base
// builder. Quick-filter arguments follow the caller's extraArgs.
func (q *QuickFilterBuilder) Query(extraPredicate string, extraArgs ...any) ([]map[string]any, error) {
	fragments, filterArgs := q.activeFragments()
	if len(fragments) == 0 {
		return q.Builder.Query(extraPredicate, extraArgs...)
	}

	merged := strings.Join(fragments, " AND ")
	if extraPredicate != "" {
		merged = extraPredicate + " AND " + merged
	}

	args := make([]any, 0, len(extraArgs)+len(filterArgs))
	args = append(args, extraArgs...)
	args = append(args, filterArgs...)

	return q.Builder.Query(merged, args...)
}

// Reset clears the active-filter set in addition to the field reset.
func (q *QuickFilterBuilder) Reset(except ...string) {
	q.active = make(map[string]bool)
	q.Builder.Reset(except...)
}

func (q *QuickFilterBuilder) activeFragments() ([]string, []any) {
	var fragments []string
	var args []any
	for _, f := range q.filters {
		if !q.active[f.name] {
			continue
		}
		if f.visible != nil && !f.visible() {
			continue
		}
		fragments = append(fragments, f.fragment)
		if f.args != nil {
			args = append(args, f.args()...)
		}
	}
	return fragments, args
}
