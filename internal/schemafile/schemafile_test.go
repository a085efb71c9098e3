package schemafile

import (
	"testing"

	"github.com/shrikedb/shrike/internal/record"
)

func TestParsePreservesFieldOrder(t *testing.T) {
	data := []byte(`
fields:
  - name: name
    type: string
  - name: age
    type: integer
  - name: balance
    type: real
  - name: _cursor
    type: string
`)
	rec, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	fields := rec.Fields()
	want := []struct {
		name string
		typ  record.FieldType
	}{
		{"name", record.TypeString},
		{"age", record.TypeInteger},
		{"balance", record.TypeReal},
		{"_cursor", record.TypeString},
	}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i, w := range want {
		if fields[i].Name != w.name || fields[i].Type != w.typ {
			t.Errorf("field %d = %s/%s, want %s/%s",
				i, fields[i].Name, fields[i].Type, w.name, w.typ)
		}
	}
	if !fields[3].Hidden() {
		t.Error("_cursor should be hidden")
	}
}

func TestParseRejectsDuplicates(t *testing.T) {
	data := []byte(`
fields:
  - name: name
    type: string
  - name: name
    type: integer
`)
	if _, err := Parse(data); err == nil {
		t.Error("expected duplicate field error")
	}
}

func TestParseRejectsUnknownType(t *testing.T) {
	data := []byte(`
fields:
  - name: blob
    type: jellyfish
`)
	if _, err := Parse(data); err == nil {
		t.Error("expected unknown type error")
	}
}

func TestParseRejectsEmptySchema(t *testing.T) {
	if _, err := Parse([]byte("fields: []")); err == nil {
		t.Error("expected error for empty schema")
	}
}
