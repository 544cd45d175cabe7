package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const autoSaveInterval = 10 * time.Second

// FlatFileStore keeps the whole keyspace in memory and persists it to a
// single JSON file. Writes are atomic (temp file + rename); the autosave
// loop skips the write when the checksum has not changed since the last save.
type FlatFileStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
	path string

	cancel       context.CancelFunc
	wg           sync.WaitGroup
	lastChecksum string
	checksumMu   sync.Mutex
}

// OpenFlatFile loads (or creates) the JSON file at path and starts the
// autosave loop.
func OpenFlatFile(path string) (*FlatFileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("flat file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	s := &FlatFileStore{
		data: make(map[string]json.RawMessage),
		path: path,
	}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("failed to create storage file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	default:
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("failed to decode storage file: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.autoSave(ctx)

	return s, nil
}

// Get returns the raw value for key.
func (s *FlatFileStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set stores value under key. Persistence happens on the next autosave tick
// or on Close.
func (s *FlatFileStore) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not valid JSON", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make(json.RawMessage, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

// Delete removes key. Deleting a missing key is a no-op.
func (s *FlatFileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Keys returns all stored keys in no particular order.
func (s *FlatFileStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// Close stops the autosave loop and flushes to disk.
func (s *FlatFileStore) Close() error {
	if s.cancel != nil {
		s.cancel()
		s.wg.Wait()
	}
	return s.save()
}

func (s *FlatFileStore) autoSave(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(autoSaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.save(); err != nil {
				log.Error().Err(err).Str("path", s.path).Msg("storage autosave failed")
			}
		}
	}
}

func (s *FlatFileStore) save() error {
	s.mu.RLock()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode storage data: %w", err)
	}

	sum := sha256.Sum256(raw)
	checksum := hex.EncodeToString(sum[:])

	s.checksumMu.Lock()
	defer s.checksumMu.Unlock()
	if checksum == s.lastChecksum {
		return nil
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write temp storage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}

	s.lastChecksum = checksum
	return nil
}
