package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shrikedb/shrike/internal/query"
	"github.com/shrikedb/shrike/internal/record"
	"github.com/shrikedb/shrike/internal/schemafile"
	"github.com/shrikedb/shrike/internal/ui"
)

var (
	querySchema  string
	querySets    []string
	queryOrder   string
	queryLimit   int
	queryColumns []string
	queryJoins   []string
	queryWhere   string
)

var queryCmd = &cobra.Command{
	Use:   "query <table>",
	Short: "Run a declarative search against a table",
	Long: `Generates and runs a SELECT from a YAML record schema. Each --set
field becomes a WHERE condition: string fields match case-insensitively as
substrings, other types match exactly. Zero-valued and _hidden fields are
skipped.

Joins take the form alias:table:localColumn[:kind[:col1,col2]], where kind
is left or inner and the trailing columns are projected as <alias>_<col>.

Examples:
  shrike -s ledger query customers --schema customer.yaml --set name=smith
  shrike -s ledger query orders --schema order.yaml \
    --set status=open --order placed_at --limit 20 \
    --join cust:customers:customer_id:left:name,email`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := args[0]

		if querySchema == "" {
			return fmt.Errorf("--schema is required")
		}
		rec, err := schemafile.Load(querySchema)
		if err != nil {
			return err
		}
		if err := applySets(rec, querySets); err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		b := query.New(s, rec, table)
		if queryOrder != "" {
			b.OrderBy(queryOrder)
		}
		limit := queryLimit
		if limit == 0 {
			limit = getConfig().DefaultLimit
		}
		if limit > 0 {
			b.Limit(limit)
		}
		if len(queryColumns) > 0 {
			b.Columns(queryColumns...)
		}
		for _, spec := range queryJoins {
			j, err := parseJoinSpec(spec)
			if err != nil {
				return err
			}
			b.AddJoin(j.alias, j.table, j.localColumn, j.kind, j.columns...)
		}

		rows, err := b.Query(queryWhere)
		if err != nil {
			return err
		}

		if len(rows) == 0 {
			fmt.Println(ui.Hint("no rows matched"))
			return nil
		}
		fmt.Println(ui.NewRowTable(queryColumns, rows).Render())
		fmt.Fprintln(os.Stderr, ui.Hint(ui.Count(len(rows), "row", "rows")))
		return nil
	},
}

// applySets parses field=value pairs against the schema's field types.
func applySets(rec *record.Record, sets []string) error {
	for _, set := range sets {
		name, raw, ok := strings.Cut(set, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, expected field=value", set)
		}

		var field *record.Field
		for _, f := range rec.Fields() {
			if f.Name == name {
				field = &f
				break
			}
		}
		if field == nil {
			return fmt.Errorf("schema has no field %q", name)
		}

		v, err := record.ParseValue(field.Type, raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		rec.Set(name, v)
	}
	return nil
}

type joinSpec struct {
	alias       string
	table       string
	localColumn string
	kind        query.JoinKind
	columns     []string
}

// parseJoinSpec parses alias:table:localColumn[:kind[:col1,col2,...]].
func parseJoinSpec(spec string) (joinSpec, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 || len(parts) > 5 {
		return joinSpec{}, fmt.Errorf("invalid --join %q, expected alias:table:localColumn[:kind[:cols]]", spec)
	}
	for _, p := range parts[:3] {
		if p == "" {
			return joinSpec{}, fmt.Errorf("invalid --join %q: empty segment", spec)
		}
	}

	j := joinSpec{
		alias:       parts[0],
		table:       parts[1],
		localColumn: parts[2],
		kind:        query.JoinLeft,
	}

	if len(parts) >= 4 && parts[3] != "" {
		switch strings.ToLower(parts[3]) {
		case "left":
			j.kind = query.JoinLeft
		case "inner":
			j.kind = query.JoinInner
		default:
			return joinSpec{}, fmt.Errorf("invalid --join kind %q, expected left or inner", parts[3])
		}
	}
	if len(parts) == 5 && parts[4] != "" {
		j.columns = strings.Split(parts[4], ",")
	}

	return j, nil
}

func init() {
	queryCmd.Flags().StringVar(&querySchema, "schema", "", "YAML record schema file (required)")
	queryCmd.Flags().StringArrayVar(&querySets, "set", nil, "Set a schema field: field=value (repeatable)")
	queryCmd.Flags().StringVar(&queryOrder, "order", "", "ORDER BY expression")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Result cap (defaults to default_limit from config)")
	queryCmd.Flags().StringSliceVar(&queryColumns, "columns", nil, "Columns to project")
	queryCmd.Flags().StringArrayVar(&queryJoins, "join", nil, "Join spec alias:table:localColumn[:kind[:cols]] (repeatable)")
	queryCmd.Flags().StringVar(&queryWhere, "where", "", "Extra raw WHERE fragment ANDed with generated conditions")
	rootCmd.AddCommand(queryCmd)
}
