// Package sqlutil provides small SQL helpers shared by the store and query
// layers.
package sqlutil

import (
	"database/sql"
	"strings"
)

// Placeholders returns n comma-separated "?" markers for a VALUES clause.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ", ")
}

// Qualify prefixes col with table unless it is already qualified.
func Qualify(table, col string) string {
	if strings.Contains(col, ".") {
		return col
	}
	return table + "." + col
}

// RowMaps scans every row into a map keyed by column name and closes rows.
// []byte values are converted to string so results render and compare
// cleanly.
func RowMaps(rows *sql.Rows) ([]map[string]any, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = vals[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
