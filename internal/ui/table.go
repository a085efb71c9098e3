package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// maxCellWidth caps individual cell width so one wide value doesn't
// blow out the whole table.
const maxCellWidth = 60

// RowTable renders query result rows as a minimally bordered table.
type RowTable struct {
	columns []string
	rows    [][]string
}

// NewRowTable creates a table over the given result rows. If columns is
// empty, the union of row keys is used in sorted order.
func NewRowTable(columns []string, rows []map[string]any) *RowTable {
	if len(columns) == 0 {
		columns = collectColumns(rows)
	}

	t := &RowTable{columns: columns}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = FormatCell(row[col])
		}
		t.rows = append(t.rows, cells)
	}
	return t
}

// Columns returns the column order the table renders with.
func (t *RowTable) Columns() []string {
	return t.columns
}

// Render generates the table output as a string. Returns "" when there
// are no rows.
func (t *RowTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	headers := make([]string, len(t.columns))
	copy(headers, t.columns)

	tbl := table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderHeader(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().MaxWidth(maxCellWidth)
			if row == table.HeaderRow {
				style = style.Inherit(AccentBold)
			}
			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Headers(headers...).
		Rows(t.rows...)

	return tbl.Render()
}

// FormatCell renders a single result value for display.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(val)
	}
}

func collectColumns(rows []map[string]any) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, row := range rows {
		for k := range row {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// KeyValueList renders a single row as aligned "key: value" lines,
// in the given column order. Used for single-record output.
func KeyValueList(columns []string, row map[string]any) string {
	if len(columns) == 0 {
		columns = collectColumns([]map[string]any{row})
	}

	width := 0
	for _, col := range columns {
		if len(col) > width {
			width = len(col)
		}
	}

	var b strings.Builder
	for _, col := range columns {
		// Pad before styling so ANSI codes don't skew alignment.
		key := fmt.Sprintf("%-*s", width+1, col+":")
		fmt.Fprintf(&b, "%s %s\n", Accent.Render(key), FormatCell(row[col]))
	}
	return b.String()
}
