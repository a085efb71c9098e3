package ui

import (
	"strings"
	"testing"
	"time"
)

func TestFormatCell(t *testing.T) {
	ts := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"bytes", []byte("raw"), "raw"},
		{"int64", int64(42), "42"},
		{"float", float64(3.5), "3.5"},
		{"float whole", float64(2), "2"},
		{"bool true", true, "1"},
		{"bool false", false, "0"},
		{"time", ts, "2024-06-01 09:30:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCell(tt.in); got != tt.want {
				t.Errorf("FormatCell(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewRowTableCollectsColumnsSorted(t *testing.T) {
	rows := []map[string]any{
		{"name": "Ann", "id": int64(1)},
		{"id": int64(2), "status": "open"},
	}
	tbl := NewRowTable(nil, rows)

	got := tbl.Columns()
	want := []string{"id", "name", "status"}
	if len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("columns = %v, want %v", got, want)
		}
	}
}

func TestRowTableExplicitColumnsKeptInOrder(t *testing.T) {
	rows := []map[string]any{{"id": int64(1), "name": "Ann"}}
	tbl := NewRowTable([]string{"name", "id"}, rows)

	out := tbl.Render()
	if out == "" {
		t.Fatal("expected rendered output")
	}
	if strings.Index(out, "name") > strings.Index(out, "id") {
		t.Errorf("explicit column order not preserved:\n%s", out)
	}
}

func TestRowTableEmptyRendersNothing(t *testing.T) {
	if out := NewRowTable(nil, nil).Render(); out != "" {
		t.Errorf("empty table rendered %q", out)
	}
}

func TestKeyValueListContainsValues(t *testing.T) {
	out := KeyValueList([]string{"id", "name"}, map[string]any{
		"id":   int64(7),
		"name": "Ann",
	})
	if !strings.Contains(out, "7") || !strings.Contains(out, "Ann") {
		t.Errorf("unexpected output:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("got %d lines, want 2", len(lines))
	}
}
