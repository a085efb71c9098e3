// Package record describes ordered, typed record schemas. A Record is the
// search/edit surface the query layer reads filter values from and the
// lookup layer writes descriptions back into.
package record

import (
	"fmt"
	"strings"
)

// HiddenPrefix marks fields excluded from persistence, serialization, and
// automatic filtering.
const HiddenPrefix = "_"

// Field describes one named, typed slot in a Record.
type Field struct {
	Name string
	Type FieldType
}

// Hidden reports whether the field is excluded from query generation.
// Hidden fields are marked structurally by a leading underscore.
func (f Field) Hidden() bool {
	return strings.HasPrefix(f.Name, HiddenPrefix)
}

// Record is an insertion-ordered mapping of field name to typed value.
// Insertion order defines the column order used when iterating for query
// generation. Field names are unique within a Record.
type Record struct {
	fields []Field
	index  map[string]int
	values []Value
}

// New creates a Record with the given fields, each initialized to its
// type's zero value. Duplicate field names are a programming error.
func New(fields ...Field) *Record {
	r := &Record{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		r.AddField(f)
	}
	return r
}

// AddField appends a field initialized to its zero value.
// Panics if the name is already taken.
func (r *Record) AddField(f Field) {
	if _, ok := r.index[f.Name]; ok {
		panic(fmt.Sprintf("record: duplicate field %q", f.Name))
	}
	r.index[f.Name] = len(r.fields)
	r.fields = append(r.fields, f)
	r.values = append(r.values, Zero(f.Type))
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.fields) }

// Fields returns the fields in insertion order.
func (r *Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Has reports whether the record has a field with the given name.
func (r *Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Get returns the current value of a field.
func (r *Record) Get(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return Value{}, false
	}
	return r.values[i], true
}

// Set assigns a field's current value. Returns false if the field does not
// exist.
func (r *Record) Set(name string, v Value) bool {
	i, ok := r.index[name]
	if !ok {
		return false
	}
	r.values[i] = v
	return true
}

// Reset sets every non-hidden field back to its semantic zero value.
// Fields named in except keep their current value; hidden fields are left
// untouched.
func (r *Record) Reset(except ...string) {
	keep := make(map[string]struct{}, len(except))
	for _, name := range except {
		keep[name] = struct{}{}
	}
	for i, f := range r.fields {
		if f.Hidden() {
			continue
		}
		if _, ok := keep[f.Name]; ok {
			continue
		}
		r.values[i] = Zero(f.Type)
	}
}
