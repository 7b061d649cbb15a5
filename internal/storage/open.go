package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists the selectable backends in display order.
var Backends = []string{BackendFile, BackendSQLite, BackendMemory}

// NormalizeBackend maps user input onto a known backend, defaulting to file.
func NormalizeBackend(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case BackendSQLite:
		return BackendSQLite
	case BackendMemory:
		return BackendMemory
	default:
		return BackendFile
	}
}

// Open creates the named backend rooted at dir. The returned close func is
// never nil.
func Open(backend, dir string) (Store, func() error, error) {
	noop := func() error { return nil }
	switch NormalizeBackend(backend) {
	case BackendMemory:
		return NewMemoryStore(), noop, nil
	case BackendSQLite:
		store, err := OpenSQLiteStore(filepath.Join(dir, StateDBFileName))
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite backend: %w", err)
		}
		return store, store.Close, nil
	default:
		return NewFileStore(filepath.Join(dir, StateFileName)), noop, nil
	}
}
