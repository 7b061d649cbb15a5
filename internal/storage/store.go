// Package storage holds the key-value backends the timer persists into and
// the YAML settings file.
package storage

import "errors"

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = errors.New("key not found")
	// ErrUnavailable is returned by a guarded store whose probe failed.
	ErrUnavailable = errors.New("storage unavailable")
)

// Store is a synchronous key-value capability.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}
