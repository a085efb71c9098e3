package query

import (
	"strings"
	"testing"

	"github.com/shrikedb/shrike/internal/record"
	"github.com/shrikedb/shrike/internal/testutil"
)

func orderRecord() *record.Record {
	return record.New(record.Field{Name: "status", Type: record.TypeString})
}

func TestToggleAddsAndRemovesFilter(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	q := NewQuickFilter(s, orderRecord(), "orders").
		RegisterQuickFilter("open", "status = ?", func() []any { return []any{"open"} }, nil)

	rows, err := q.Toggle("open")
	if err != nil {
		t.Fatalf("Toggle on: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("with filter on: %d rows, want 2", len(rows))
	}
	if !q.Active("open") {
		t.Error("filter should be active after first toggle")
	}

	rows, err = q.Toggle("open")
	if err != nil {
		t.Fatalf("Toggle off: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("with filter off: %d rows, want all 3", len(rows))
	}
	if q.Active("open") {
		t.Error("filter should be inactive after second toggle")
	}
}

func TestQuickFiltersMergeWithExtraPredicate(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	q := NewQuickFilter(s, orderRecord(), "orders").
		RegisterQuickFilter("open", "status = ?", func() []any { return []any{"open"} }, nil)

	if _, err := q.Toggle("open"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	rows, err := q.Query("total > ?", 50.0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != int64(10) {
		t.Errorf("expected only the big open order, got %#v", rows)
	}
}

func TestQuickFilterOrderIsRegistrationOrder(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	q := NewQuickFilter(s, orderRecord(), "orders").
		RegisterQuickFilter("open", "status = ?", func() []any { return []any{"open"} }, nil).
		RegisterQuickFilter("big", "total > ?", func() []any { return []any{50.0} }, nil)

	q.active["open"] = true
	q.active["big"] = true

	fragments, args := q.activeFragments()
	joined := strings.Join(fragments, " AND ")
	if joined != "status = ? AND total > ?" {
		t.Errorf("fragments = %q", joined)
	}
	if len(args) != 2 || args[0] != "open" || args[1] != 50.0 {
		t.Errorf("args out of order: %#v", args)
	}
}

func TestVisibilitySkipsWithoutDeactivating(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	visible := false
	q := NewQuickFilter(s, orderRecord(), "orders").
		RegisterQuickFilter("open", "status = ?",
			func() []any { return []any{"open"} },
			func() bool { return visible })

	rows, err := q.Toggle("open")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("hidden filter should not constrain: got %d rows", len(rows))
	}
	if !q.Active("open") {
		t.Error("hidden filter must stay active")
	}

	// Once visible again, the still-active filter applies.
	visible = true
	rows, err = q.Query("")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("visible filter should constrain: got %d rows", len(rows))
	}
}

func TestQuickFilterResetClearsActiveSet(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	rec := orderRecord()
	rec.Set("status", record.String("open"))

	q := NewQuickFilter(s, rec, "orders").
		RegisterQuickFilter("big", "total > ?", func() []any { return []any{50.0} }, nil)
	if _, err := q.Toggle("big"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	q.Reset()

	if q.Active("big") {
		t.Error("Reset should clear the active-filter set")
	}
	if v, _ := rec.Get("status"); !v.IsZero() {
		t.Error("Reset should also clear the search fields")
	}
}

func TestQuickFilterArgumentsAreLive(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	status := "open"
	q := NewQuickFilter(s, orderRecord(), "orders").
		RegisterQuickFilter("status", "status = ?", func() []any { return []any{status} }, nil)

	if _, err := q.Toggle("status"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	status = "shipped"
	rows, err := q.Query("")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != int64(11) {
		t.Errorf("argument provider should be re-evaluated: %#v", rows)
	}
}

func TestQuickFilterAddJoinKeepsChain(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)

	// The chain stays typed to the quick-filter builder across AddJoin.
	q := NewQuickFilter(s, orderRecord(), "orders").
		AddJoin("cust", "customers", "customer_id", JoinLeft, "name").
		RegisterQuickFilter("open", "status = ?", func() []any { return []any{"open"} }, nil)

	if _, err := q.Toggle("open"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	rows := q.Results()
	if len(rows) != 2 {
		t.Fatalf("expected 2 joined rows, got %d", len(rows))
	}
	if _, ok := rows[0]["cust_name"]; !ok {
		t.Errorf("joined projection missing: %#v", rows[0])
	}
}
