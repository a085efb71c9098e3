// Package paths resolves on-disk locations for store files and their
// bundled bootstrap assets.
//
// The runtime kind is passed in explicitly; there is no process-wide
// platform probe.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
)

// Runtime identifies the kind of environment a store runs in. It selects
// the default data directory when none is configured.
type Runtime string

const (
	RuntimeDesktop Runtime = "desktop"
	RuntimeServer  Runtime = "server"
	RuntimeMobile  Runtime = "mobile"
	RuntimeMemory  Runtime = "memory"
)

// MemoryPath is the SQLite path used for in-memory stores.
const MemoryPath = ":memory:"

// appDir is the directory name used under user-owned base directories.
const appDir = "shrike"

// ParseRuntime maps a configuration string to a Runtime.
func ParseRuntime(s string) (Runtime, error) {
	switch Runtime(s) {
	case RuntimeDesktop, RuntimeServer, RuntimeMobile, RuntimeMemory:
		return Runtime(s), nil
	case "":
		return RuntimeDesktop, nil
	}
	return "", fmt.Errorf("unknown runtime %q", s)
}

// StoreFileName returns the on-disk file name for a store name.
// Names are slugged so display names like "Sales Ledger" stay portable.
func StoreFileName(name string) string {
	return slug.Make(name) + ".db"
}

// DefaultDataDir returns the store directory for a runtime kind when no
// explicit data directory is configured.
func DefaultDataDir(rt Runtime) (string, error) {
	switch rt {
	case RuntimeDesktop:
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve user config dir: %w", err)
		}
		return filepath.Join(base, appDir), nil
	case RuntimeMobile:
		// Mobile runtimes get a documents-style directory under home.
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		return filepath.Join(home, "."+appDir), nil
	case RuntimeServer:
		return filepath.Abs("data")
	case RuntimeMemory:
		return "", nil
	}
	return "", fmt.Errorf("unknown runtime %q", rt)
}

// StorePath resolves the database file path for a named store.
func StorePath(rt Runtime, dataDir, name string) (string, error) {
	if rt == RuntimeMemory {
		return MemoryPath, nil
	}
	if dataDir == "" {
		var err error
		dataDir, err = DefaultDataDir(rt)
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dataDir, StoreFileName(name)), nil
}

// ScriptPath returns the bundled schema script path for a store name.
func ScriptPath(assetDir, name string) string {
	return filepath.Join(assetDir, name+".sql")
}

// SnapshotCandidates returns the pre-built snapshot paths checked, in
// order, when no schema script exists for a store.
func SnapshotCandidates(assetDir, name string) []string {
	return []string{
		filepath.Join(assetDir, name+".sqlite"),
		filepath.Join(assetDir, name+".db"),
	}
}
