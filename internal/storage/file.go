package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

// StateFileName is the file a FileStore keeps its keys in.
const StateFileName = "state.json"

// CorruptSuffix is appended to a state file that could not be parsed when it
// is set aside to make room for a fresh one.
const CorruptSuffix = ".bad"

var errCorruptFile = errors.New("parse state file")

// FileStore keeps every key in a single JSON object on disk.
// Writes replace the file atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the file at path.
// The file and its directory are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (store *FileStore) Path() string {
	return store.path
}

func (store *FileStore) Get(key string) ([]byte, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	values, err := store.readLocked()
	if err != nil {
		return nil, err
	}
	value, ok := values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(value), nil
}

func (store *FileStore) Set(key string, value []byte) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	values, err := store.readForWriteLocked()
	if err != nil {
		return err
	}
	values[key] = string(value)
	return store.writeLocked(values)
}

func (store *FileStore) Remove(key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	values, err := store.readForWriteLocked()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return store.writeLocked(values)
}

func (store *FileStore) readLocked() (map[string]string, error) {
	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	values := make(map[string]string)
	if len(rawData) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(rawData, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptFile, err)
	}
	return values, nil
}

// readForWriteLocked is readLocked for writers. A file that cannot be parsed
// is renamed aside and replaced by an empty store; reads keep failing on it
// until then.
func (store *FileStore) readForWriteLocked() (map[string]string, error) {
	values, err := store.readLocked()
	if !errors.Is(err, errCorruptFile) {
		return values, err
	}
	if err := os.Rename(store.path, store.path+CorruptSuffix); err != nil {
		return nil, fmt.Errorf("set aside corrupt state file: %w", err)
	}
	return make(map[string]string), nil
}

func (store *FileStore) writeLocked(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	serialized, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal state file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(store.path), ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(serialized); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
