// Package query synthesizes filtered, optionally joined SELECT statements
// from a search record's current values and executes them against a store.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shrikedb/shrike/internal/record"
	"github.com/shrikedb/shrike/internal/sqlutil"
	"github.com/shrikedb/shrike/internal/store"
)

// JoinKind selects the SQL join operator.
type JoinKind string

const (
	JoinLeft  JoinKind = "LEFT"
	JoinInner JoinKind = "INNER"
)

// Join describes one joined table appended to a generated query. The join
// predicate is always <baseTable>.<LocalColumn> = <Table>.<id>.
type Join struct {
	Alias       string
	Table       string
	LocalColumn string
	Kind        JoinKind
	Columns     []string // projected as <Table>.<col> AS <Alias>_<col>
}

// Builder generates and runs SELECT queries driven by a search record.
// Each Query call is a single-shot synthesis-then-execute cycle; the
// builder holds no state machine beyond its last results and selection.
type Builder struct {
	store   *store.Store
	rec     *record.Record
	table   string
	columns []string
	orderBy string
	limit   int

	joins   []Join
	aliases map[string]struct{}

	results  []map[string]any
	selected any

	onResults func([]map[string]any)
	onSelect  func(any)
}

// New binds a search record to a target table on the given store.
func New(st *store.Store, rec *record.Record, table string) *Builder {
	return &Builder{
		store:   st,
		rec:     rec,
		table:   table,
		aliases: make(map[string]struct{}),
	}
}

// Columns sets an explicit projection; the default is every column.
func (b *Builder) Columns(cols ...string) *Builder {
	b.columns = cols
	return b
}

// OrderBy sets the ORDER BY expression. Result order is entirely delegated
// to the store; the builder never sorts.
func (b *Builder) OrderBy(expr string) *Builder {
	b.orderBy = expr
	return b
}

// Limit caps the number of returned rows. Zero means no cap.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// OnResults registers an observer notified after every successful query.
func (b *Builder) OnResults(fn func([]map[string]any)) *Builder {
	b.onResults = fn
	return b
}

// OnSelect registers an observer notified when a row is chosen via
// SelectRow.
func (b *Builder) OnSelect(fn func(any)) *Builder {
	b.onSelect = fn
	return b
}

// Record returns the bound search record.
func (b *Builder) Record() *record.Record { return b.rec }

// Table returns the target table.
func (b *Builder) Table() string { return b.table }

// AddJoin registers a join under alias. Aliases are unique per builder;
// re-registering an existing alias is ignored so fluent chains stay safe.
func (b *Builder) AddJoin(alias, table, localColumn string, kind JoinKind, columns ...string) *Builder {
	if _, dup := b.aliases[alias]; dup {
		return b
	}
	if kind == "" {
		kind = JoinLeft
	}
	b.aliases[alias] = struct{}{}
	b.joins = append(b.joins, Join{
		Alias:       alias,
		Table:       table,
		LocalColumn: localColumn,
		Kind:        kind,
		Columns:     columns,
	})
	return b
}

// Reset returns every non-hidden search field to its zero value. Fields
// named in except keep their current value, so callers can clear all
// filters but sticky ones.
func (b *Builder) Reset(except ...string) {
	b.rec.Reset(except...)
}

// Query synthesizes a SELECT from the record's current values and runs it.
// extraPredicate, when non-empty, is ANDed onto the generated WHERE clause
// with extraArgs appended after the field arguments.
//
// Every successful call replaces the held result list, clears any recorded
// selection, and notifies the results observer.
func (b *Builder) Query(extraPredicate string, extraArgs ...any) ([]map[string]any, error) {
	sqlStr, args := b.buildSQL(extraPredicate, extraArgs)

	rows, err := b.store.DB().Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", b.table, err)
	}
	results, err := sqlutil.RowMaps(rows)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", b.table, err)
	}

	b.results = results
	b.selected = nil
	if b.onResults != nil {
		b.onResults(results)
	}
	return results, nil
}

// Results returns the rows from the last successful query.
func (b *Builder) Results() []map[string]any { return b.results }

// SelectRow records v as the chosen result and signals pickers that
// selection is complete.
func (b *Builder) SelectRow(v any) {
	b.selected = v
	if b.onSelect != nil {
		b.onSelect(v)
	}
}

// Selected returns the value recorded by SelectRow, or nil after a new
// query.
func (b *Builder) Selected() any { return b.selected }

// buildSQL assembles the statement and its arguments.
func (b *Builder) buildSQL(extraPredicate string, extraArgs []any) (string, []any) {
	where, args := b.buildWhere(extraPredicate, extraArgs)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.buildProjection())
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)

	for _, j := range b.joins {
		fmt.Fprintf(&sb, " %s JOIN %s ON %s.%s = %s.%s",
			j.Kind, j.Table, b.table, j.LocalColumn, j.Table, b.store.IDColumn())
	}

	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	if b.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.orderBy)
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}

	return sb.String(), args
}

// buildProjection returns the SELECT column list. With joins registered,
// base columns are fully qualified and every join contributes its projected
// columns under <alias>_<col> names.
func (b *Builder) buildProjection() string {
	if len(b.joins) == 0 {
		if len(b.columns) == 0 {
			return "*"
		}
		return strings.Join(b.columns, ", ")
	}

	var parts []string
	if len(b.columns) == 0 {
		parts = append(parts, b.table+".*")
	} else {
		for _, col := range b.columns {
			parts = append(parts, sqlutil.Qualify(b.table, col))
		}
	}
	for _, j := range b.joins {
		for _, col := range j.Columns {
			parts = append(parts, fmt.Sprintf("%s.%s AS %s_%s", j.Table, col, j.Alias, col))
		}
	}
	return strings.Join(parts, ", ")
}

// buildWhere iterates the search record's non-hidden fields in their
// natural order. A non-empty string field contributes a case-insensitive
// substring match; any other non-zero field contributes an equality check
// with the stringified value. The uppercase comparison is ASCII-oriented,
// a known limitation for non-ASCII business data.
func (b *Builder) buildWhere(extraPredicate string, extraArgs []any) (string, []any) {
	var conds []string
	var args []any

	for _, f := range b.rec.Fields() {
		if f.Hidden() {
			continue
		}
		v, ok := b.rec.Get(f.Name)
		if !ok || v.IsZero() {
			continue
		}
		if f.Type == record.TypeString {
			s, _ := v.AsString()
			conds = append(conds, fmt.Sprintf("%s.%s LIKE UPPER(?)", b.table, f.Name))
			args = append(args, "%"+strings.ToUpper(s)+"%")
		} else {
			conds = append(conds, fmt.Sprintf("%s.%s = ?", b.table, f.Name))
			args = append(args, v.Arg())
		}
	}

	if extraPredicate != "" {
		conds = append(conds, extraPredicate)
		args = append(args, extraArgs...)
	}

	return strings.Join(conds, " AND "), args
}
