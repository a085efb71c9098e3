package query

import (
	"reflect"
	"strings"
	"testing"

	"github.com/shrikedb/shrike/internal/record"
	"github.com/shrikedb/shrike/internal/testutil"
)

const shopScript = `
CREATE TABLE customers (
	id INTEGER PRIMARY KEY,
	name TEXT,
	age INTEGER
);
CREATE TABLE orders (
	id INTEGER PRIMARY KEY,
	customer_id INTEGER,
	total REAL,
	status TEXT
);
INSERT INTO customers VALUES (1, 'JOHN SMITH', 40);
INSERT INTO customers VALUES (2, 'JANE DOE', 35);
INSERT INTO orders VALUES (10, 1, 99.5, 'open');
INSERT INTO orders VALUES (11, 1, 10.0, 'shipped');
INSERT INTO orders VALUES (12, 2, 5.0, 'open');
`

func customerRecord() *record.Record {
	return record.New(
		record.Field{Name: "name", Type: record.TypeString},
		record.Field{Name: "age", Type: record.TypeInteger},
	)
}

func TestBuildSQLStringFieldUsesLike(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	rec := customerRecord()
	rec.Set("name", record.String("John"))

	b := New(s, rec, "customers")
	sqlStr, args := b.buildSQL("", nil)

	if !strings.Contains(sqlStr, "customers.name LIKE UPPER(?)") {
		t.Errorf("missing LIKE predicate in %q", sqlStr)
	}
	if strings.Contains(sqlStr, "age") {
		t.Errorf("zero-valued age should be omitted: %q", sqlStr)
	}
	want := []any{"%JOHN%"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %#v, want %#v", args, want)
	}
}

func TestBuildSQLNonStringFieldUsesEquality(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	rec := customerRecord()
	rec.Set("age", record.Integer(40))

	b := New(s, rec, "customers")
	sqlStr, args := b.buildSQL("", nil)

	if !strings.Contains(sqlStr, "customers.age = ?") {
		t.Errorf("missing equality predicate in %q", sqlStr)
	}
	if !reflect.DeepEqual(args, []any{"40"}) {
		t.Errorf("args = %#v, want stringified 40", args)
	}
}

func TestBuildSQLAllZeroValuesIsUnfiltered(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	b := New(s, customerRecord(), "customers")

	sqlStr, args := b.buildSQL("", nil)

	if sqlStr != "SELECT * FROM customers" {
		t.Errorf("unfiltered SQL = %q", sqlStr)
	}
	if len(args) != 0 {
		t.Errorf("unexpected args: %#v", args)
	}
}

func TestBuildSQLHiddenFieldsExcluded(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	rec := record.New(
		record.Field{Name: "name", Type: record.TypeString},
		record.Field{Name: "_marker", Type: record.TypeString},
	)
	rec.Set("_marker", record.String("internal"))

	b := New(s, rec, "customers")
	sqlStr, _ := b.buildSQL("", nil)

	if strings.Contains(sqlStr, "_marker") {
		t.Errorf("hidden field leaked into SQL: %q", sqlStr)
	}
}

func TestBuildSQLExtraPredicate(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	rec := customerRecord()
	rec.Set("name", record.String("jo"))

	b := New(s, rec, "customers")
	sqlStr, args := b.buildSQL("age > ?", []any{30})

	if !strings.Contains(sqlStr, "customers.name LIKE UPPER(?) AND age > ?") {
		t.Errorf("extra predicate not ANDed: %q", sqlStr)
	}
	if !reflect.DeepEqual(args, []any{"%JO%", 30}) {
		t.Errorf("args = %#v", args)
	}
}

func TestBuildSQLOrderAndLimit(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	b := New(s, customerRecord(), "customers").OrderBy("name DESC").Limit(5)

	sqlStr, _ := b.buildSQL("", nil)

	if !strings.HasSuffix(sqlStr, "ORDER BY name DESC LIMIT 5") {
		t.Errorf("order/limit missing: %q", sqlStr)
	}
}

func TestBuildSQLWithJoin(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	rec := record.New(record.Field{Name: "status", Type: record.TypeString})

	b := New(s, rec, "orders").
		AddJoin("cust", "customers", "customer_id", JoinLeft, "name")

	sqlStr, _ := b.buildSQL("", nil)

	for _, want := range []string{
		"SELECT orders.*",
		"customers.name AS cust_name",
		"LEFT JOIN customers ON orders.customer_id = customers.id",
	} {
		if !strings.Contains(sqlStr, want) {
			t.Errorf("join SQL missing %q:\n%s", want, sqlStr)
		}
	}
}

func TestBuildSQLJoinsInRegistrationOrder(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	rec := record.New(record.Field{Name: "status", Type: record.TypeString})

	b := New(s, rec, "orders").
		AddJoin("cust", "customers", "customer_id", JoinLeft, "name").
		AddJoin("cust2", "customers", "customer_id", JoinInner)

	sqlStr, _ := b.buildSQL("", nil)

	left := strings.Index(sqlStr, "LEFT JOIN")
	inner := strings.Index(sqlStr, "INNER JOIN")
	if left == -1 || inner == -1 || left > inner {
		t.Errorf("joins out of registration order: %q", sqlStr)
	}
}

func TestAddJoinDuplicateAliasIgnored(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	rec := record.New(record.Field{Name: "status", Type: record.TypeString})

	b := New(s, rec, "orders").
		AddJoin("cust", "customers", "customer_id", JoinLeft).
		AddJoin("cust", "customers", "customer_id", JoinInner)

	sqlStr, _ := b.buildSQL("", nil)
	if strings.Contains(sqlStr, "INNER JOIN") {
		t.Errorf("duplicate alias should be ignored: %q", sqlStr)
	}
}

func TestQueryExecutesAndNotifies(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	rec := customerRecord()
	rec.Set("name", record.String("john"))

	var notified [][]map[string]any
	b := New(s, rec, "customers").
		OnResults(func(rows []map[string]any) { notified = append(notified, rows) })

	rows, err := b.Query("")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "JOHN SMITH" {
		t.Fatalf("unexpected results: %#v", rows)
	}
	if len(notified) != 1 {
		t.Errorf("results observer called %d times, want 1", len(notified))
	}
	if !reflect.DeepEqual(b.Results(), rows) {
		t.Error("Results() should hold the latest rows")
	}
}

func TestQueryClearsSelection(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	b := New(s, customerRecord(), "customers")

	var chosen any
	b.OnSelect(func(v any) { chosen = v })

	b.SelectRow("row-1")
	if b.Selected() != "row-1" || chosen != "row-1" {
		t.Fatalf("selection not recorded: %v / %v", b.Selected(), chosen)
	}

	if _, err := b.Query(""); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if b.Selected() != nil {
		t.Error("new query should clear the recorded selection")
	}
}

func TestQueryWithJoinReturnsAliasedColumns(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	rec := record.New(record.Field{Name: "status", Type: record.TypeString})
	rec.Set("status", record.String("open"))

	b := New(s, rec, "orders").
		AddJoin("cust", "customers", "customer_id", JoinLeft, "name").
		OrderBy("orders.id")

	rows, err := b.Query("")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 open orders, got %d: %#v", len(rows), rows)
	}
	if rows[0]["cust_name"] != "JOHN SMITH" || rows[1]["cust_name"] != "JANE DOE" {
		t.Errorf("joined columns wrong: %#v", rows)
	}
}

func TestResetKeepsExceptedFields(t *testing.T) {
	s := testutil.TempStore(t, "shop", shopScript)
	rec := customerRecord()
	rec.Set("name", record.String("john"))
	rec.Set("age", record.Integer(40))

	b := New(s, rec, "customers")
	b.Reset("age")

	if v, _ := rec.Get("name"); !v.IsZero() {
		t.Error("name should be cleared by Reset")
	}
	if v, _ := rec.Get("age"); v.IsZero() {
		t.Error("excepted age should survive Reset")
	}
}
