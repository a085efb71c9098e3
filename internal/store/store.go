// Package store owns the embedded SQLite connection for one named store
// and its bootstrap/lifecycle operations.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/shrikedb/shrike/internal/paths"
	"github.com/shrikedb/shrike/internal/sqlutil"
)

// ErrNoBootstrapSource indicates the store file does not exist and the
// asset directory holds neither a schema script nor a snapshot for it.
var ErrNoBootstrapSource = errors.New("no schema script or snapshot for store")

// DefaultIDColumn is the id column assumed when none is configured.
const DefaultIDColumn = "id"

// Config selects the storage backend and bootstrap sources for a store.
// Callers state the runtime kind and directories explicitly; there is no
// global platform object.
type Config struct {
	Runtime  paths.Runtime
	DataDir  string // directory for store files; resolved per Runtime when empty
	AssetDir string // bundled <name>.sql scripts and store snapshots
	IDColumn string // defaults to "id"
}

// BootstrapSource records where a store's contents came from at open time.
type BootstrapSource string

const (
	// SourceExisting means the store file already existed.
	SourceExisting BootstrapSource = "existing"
	// SourceScript means the bundled <name>.sql script was executed.
	SourceScript BootstrapSource = "script"
	// SourceSnapshot means a pre-built snapshot was copied into place.
	SourceSnapshot BootstrapSource = "snapshot"
)

// StatementError pairs a schema statement that failed during bootstrap with
// its error.
type StatementError struct {
	Statement string
	Err       error
}

// BootstrapResult reports how a store was initialized. Failed statements
// are collected and reported instead of aborting the script run, so one bad
// upgrade statement does not lose the rest of the schema.
type BootstrapResult struct {
	Source BootstrapSource
	Failed []StatementError
}

// Store is the handle to one open SQLite store. At most one connection is
// open per Store; reopening requires a fresh Open after Close.
type Store struct {
	db        *sql.DB
	name      string
	path      string
	cfg       Config
	idColumn  string
	bootstrap BootstrapResult
	emptyRows map[string]map[string]any
}

// Open opens the named store, bootstrapping it on first use.
//
// When the store file does not exist yet, the bundled schema script
// <name>.sql is executed statement by statement; if no script exists, a
// pre-built snapshot (<name>.sqlite or <name>.db) is copied byte-for-byte.
// With neither source available, Open fails with ErrNoBootstrapSource.
func Open(name string, cfg Config) (*Store, error) {
	if cfg.IDColumn == "" {
		cfg.IDColumn = DefaultIDColumn
	}
	path, err := paths.StorePath(cfg.Runtime, cfg.DataDir, name)
	if err != nil {
		return nil, fmt.Errorf("resolve store path for %q: %w", name, err)
	}

	s := &Store{
		name:      name,
		path:      path,
		cfg:       cfg,
		idColumn:  cfg.IDColumn,
		emptyRows: make(map[string]map[string]any),
	}
	if err := s.openAndBootstrap(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// DB returns the underlying sql.DB for raw queries. The query layer uses
// this; other callers should prefer Store methods.
func (s *Store) DB() *sql.DB { return s.db }

// Name returns the store's logical name.
func (s *Store) Name() string { return s.name }

// Path returns the resolved store file path (":memory:" for in-memory
// stores).
func (s *Store) Path() string { return s.path }

// IDColumn returns the configured id column name.
func (s *Store) IDColumn() string { return s.idColumn }

// Bootstrap returns how this store was initialized, including any schema
// statements that failed.
func (s *Store) Bootstrap() BootstrapResult { return s.bootstrap }

func (s *Store) openAndBootstrap() error {
	result := BootstrapResult{Source: SourceExisting}
	var script string

	if s.cfg.Runtime == paths.RuntimeMemory {
		// In-memory stores are always fresh; the script is optional so
		// tests can start from an empty database.
		if p := paths.ScriptPath(s.cfg.AssetDir, s.name); s.cfg.AssetDir != "" && fileExists(p) {
			script = p
			result.Source = SourceScript
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
		if !fileExists(s.path) {
			if p := paths.ScriptPath(s.cfg.AssetDir, s.name); fileExists(p) {
				script = p
				result.Source = SourceScript
			} else if snap, ok := findSnapshot(s.cfg.AssetDir, s.name); ok {
				if err := copyFile(snap, s.path); err != nil {
					return fmt.Errorf("copy snapshot for %q: %w", s.name, err)
				}
				result.Source = SourceSnapshot
			} else {
				return fmt.Errorf("open store %q: %w", s.name, ErrNoBootstrapSource)
			}
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("connect to database: %w", err)
	}

	// SQLite has a single writer; one connection avoids SQLITE_BUSY and
	// keeps in-memory stores on a single database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return err
	}

	if script != "" {
		data, err := os.ReadFile(script)
		if err != nil {
			db.Close()
			return fmt.Errorf("read schema script: %w", err)
		}
		for _, stmt := range SplitScript(string(data)) {
			if _, err := db.Exec(stmt); err != nil {
				result.Failed = append(result.Failed, StatementError{Statement: stmt, Err: err})
			}
		}
	}

	s.db = db
	s.bootstrap = result
	return nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return nil
}

// Find returns the first row of table whose id column equals id.
// A missing row is not an error: the result is an empty map.
func (s *Store) Find(table string, id any) (map[string]any, error) {
	return s.FindBy(table, s.idColumn, id)
}

// FindBy behaves like Find with an explicit id column.
func (s *Store) FindBy(table, idField string, id any) (map[string]any, error) {
	rows, err := s.db.Query(
		fmt.Sprintf("SELECT * FROM %s WHERE %s = ? LIMIT 1", table, idField), id)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", table, err)
	}
	result, err := sqlutil.RowMaps(rows)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", table, err)
	}
	if len(result) == 0 {
		return map[string]any{}, nil
	}
	return result[0], nil
}

// FindOrEmpty behaves like FindBy but substitutes the table's zero-valued
// template row when no row matches. found reports whether a real row was
// returned.
func (s *Store) FindOrEmpty(table, idField string, id any) (row map[string]any, found bool, err error) {
	row, err = s.FindBy(table, idField, id)
	if err != nil {
		return nil, false, err
	}
	if len(row) > 0 {
		return row, true, nil
	}
	row, err = s.EmptyRow(table)
	if err != nil {
		return nil, false, err
	}
	return row, false, nil
}

// EmptyRow returns a type-appropriate zero-valued row for table: integer
// columns map to 0, floating columns to 0.0, everything else (including
// TEXT) to "". Column metadata is introspected once per table per Store and
// cached thereafter. The heuristic does not distinguish NULL from column
// defaults.
func (s *Store) EmptyRow(table string) (map[string]any, error) {
	if cached, ok := s.emptyRows[table]; ok {
		return copyRow(cached), nil
	}

	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("introspect %s: %w", table, err)
	}
	defer rows.Close()

	tmpl := make(map[string]any)
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, declType   string
			dflt             any
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("introspect %s: %w", table, err)
		}
		tmpl[name] = zeroForDeclType(declType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("introspect %s: %w", table, err)
	}

	s.emptyRows[table] = tmpl
	return copyRow(tmpl), nil
}

// zeroForDeclType maps a declared column type to its zero value, following
// SQLite's affinity keywords.
func zeroForDeclType(declType string) any {
	d := strings.ToUpper(declType)
	switch {
	case strings.Contains(d, "INT"):
		return int64(0)
	case strings.Contains(d, "REAL"), strings.Contains(d, "FLOA"),
		strings.Contains(d, "DOUB"), strings.Contains(d, "NUMERIC"),
		strings.Contains(d, "DECIMAL"):
		return float64(0)
	default:
		return ""
	}
}

func copyRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// RowProvider produces the replacement rows for ReplaceAll.
type RowProvider func() ([]map[string]any, error)

// ReplaceAll deletes every row of table and inserts the provider's rows in
// a single transaction. Either all rows land or none do.
func (s *Store) ReplaceAll(table string, provider RowProvider) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("replace %s: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	rows, err := provider()
	if err != nil {
		return fmt.Errorf("replace %s: row provider: %w", table, err)
	}

	for _, row := range rows {
		cols := sortedKeys(row)
		args := make([]any, len(cols))
		for i, c := range cols {
			args[i] = row[c]
		}
		stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(cols, ", "), sqlutil.Placeholders(len(cols)))
		if _, err := tx.Exec(stmt, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	return tx.Commit()
}

func sortedKeys(row map[string]any) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	// Stable column order keeps generated SQL deterministic.
	sort.Strings(cols)
	return cols
}

// Compact reclaims unused storage space. Must not be called while a
// transaction is open.
func (s *Store) Compact() error {
	if _, err := s.db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("compact store: %w", err)
	}
	return nil
}

// ForceReinitialize closes the connection, deletes the physical store, and
// re-runs the bootstrap path. Used to push schema upgrades by re-running
// the bundled script.
func (s *Store) ForceReinitialize() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("reinitialize: %w", err)
	}
	if s.path != paths.MemoryPath {
		if err := removeStoreFiles(s.path); err != nil {
			return fmt.Errorf("reinitialize: %w", err)
		}
	}
	s.emptyRows = make(map[string]map[string]any)
	return s.openAndBootstrap()
}

// SwapStore replaces the store's contents with newFile, preserving the
// current store as a ".old" backup, then reopens the connection.
func (s *Store) SwapStore(newFile string) error {
	if s.path == paths.MemoryPath {
		return errors.New("swap is not supported for in-memory stores")
	}
	if !fileExists(newFile) {
		return fmt.Errorf("swap store: %s does not exist", newFile)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("swap store: %w", err)
	}

	backup := s.path + ".old"
	if err := os.Remove(backup); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("swap store: %w", err)
	}
	if err := os.Rename(s.path, backup); err != nil {
		return fmt.Errorf("swap store: %w", err)
	}
	// Stale WAL/SHM siblings would shadow the new file's contents.
	if err := removeSiblingFiles(s.path); err != nil {
		return fmt.Errorf("swap store: %w", err)
	}
	if err := copyFile(newFile, s.path); err != nil {
		return fmt.Errorf("swap store: %w", err)
	}

	s.emptyRows = make(map[string]map[string]any)
	return s.openAndBootstrap()
}

func removeStoreFiles(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return removeSiblingFiles(path)
}

func removeSiblingFiles(path string) error {
	for _, p := range []string{path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func findSnapshot(assetDir, name string) (string, bool) {
	if assetDir == "" {
		return "", false
	}
	for _, cand := range paths.SnapshotCandidates(assetDir, name) {
		if fileExists(cand) {
			return cand, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
