package storage

import (
	"bytes"
	"fmt"
	"log"
	"sync"
)

const probeKey = "phasering.__probe__"

// Guarded wraps a Store behind a one-time capability probe.
// When the probe fails every call returns ErrUnavailable without touching
// the backend, and the failure is logged once. Write failures after a
// successful probe are logged once per failure streak.
type Guarded struct {
	store  Store
	logger *log.Logger

	probeOnce sync.Once
	available bool

	mu      sync.Mutex
	failing bool
}

// Guard wraps store. A nil store is treated as unavailable.
func Guard(store Store, logger *log.Logger) *Guarded {
	if logger == nil {
		logger = log.Default()
	}
	if guarded, ok := store.(*Guarded); ok {
		return guarded
	}
	return &Guarded{store: store, logger: logger}
}

// Available runs the probe on first use and reports its outcome.
func (guard *Guarded) Available() bool {
	guard.probeOnce.Do(func() {
		if err := probe(guard.store); err != nil {
			guard.logger.Printf("storage: persistence disabled: %v", err)
			return
		}
		guard.available = true
	})
	return guard.available
}

func (guard *Guarded) Get(key string) ([]byte, error) {
	if !guard.Available() {
		return nil, ErrUnavailable
	}
	return guard.store.Get(key)
}

func (guard *Guarded) Set(key string, value []byte) error {
	if !guard.Available() {
		return ErrUnavailable
	}
	return guard.track("set "+key, guard.store.Set(key, value))
}

func (guard *Guarded) Remove(key string) error {
	if !guard.Available() {
		return ErrUnavailable
	}
	return guard.track("remove "+key, guard.store.Remove(key))
}

func (guard *Guarded) track(op string, err error) error {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	if err == nil {
		if guard.failing {
			guard.logger.Printf("storage: %s recovered", op)
		}
		guard.failing = false
		return nil
	}
	if !guard.failing {
		guard.logger.Printf("storage: %s: %v", op, err)
	}
	guard.failing = true
	return err
}

func probe(store Store) error {
	if store == nil {
		return fmt.Errorf("probe: no store configured")
	}
	want := []byte("1")
	if err := store.Set(probeKey, want); err != nil {
		return fmt.Errorf("probe write: %w", err)
	}
	got, err := store.Get(probeKey)
	if err != nil {
		return fmt.Errorf("probe read: %w", err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("probe read: got %q", got)
	}
	if err := store.Remove(probeKey); err != nil {
		return fmt.Errorf("probe remove: %w", err)
	}
	return nil
}
