// Package testutil provides fixtures for store-backed tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shrikedb/shrike/internal/paths"
	"github.com/shrikedb/shrike/internal/store"
)

// TempStore writes script as the bundled <name>.sql in a temp asset
// directory and opens a fresh on-disk store. The store is closed when the
// test finishes.
func TempStore(t *testing.T, name, script string) *store.Store {
	t.Helper()

	dir := t.TempDir()
	assetDir := filepath.Join(dir, "assets")
	if err := os.MkdirAll(assetDir, 0755); err != nil {
		t.Fatalf("create asset dir: %v", err)
	}
	if err := os.WriteFile(paths.ScriptPath(assetDir, name), []byte(script), 0644); err != nil {
		t.Fatalf("write bootstrap script: %v", err)
	}

	s, err := store.Open(name, store.Config{
		Runtime:  paths.RuntimeServer,
		DataDir:  filepath.Join(dir, "data"),
		AssetDir: assetDir,
	})
	if err != nil {
		t.Fatalf("open store %q: %v", name, err)
	}
	if failed := s.Bootstrap().Failed; len(failed) > 0 {
		t.Fatalf("bootstrap failures: %+v", failed)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
