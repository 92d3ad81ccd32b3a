// Package store provides the file-backed watchlist and price history stores.
// Business logic depends on the store interfaces, never on concrete paths,
// so tests can substitute in-memory implementations.
//
// Both stores are whole-file read-modify-write with no inter-process
// locking. Concurrent invocations can lose updates; the tool assumes one
// invocation runs to completion before another starts.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cardwatch/cardwatch/internal/models"
)

// ErrCorrupt marks a store file that exists but cannot be parsed. A missing
// file is not corrupt; it loads as an empty store.
var ErrCorrupt = errors.New("store file is corrupt")

// WatchlistStore abstracts watchlist persistence.
type WatchlistStore interface {
	Load() (models.WatchlistFile, error)
	Save(models.WatchlistFile) error
}

// FileWatchlistStore persists the watchlist as a single JSON file.
type FileWatchlistStore struct {
	path string
}

func NewFileWatchlistStore(path string) *FileWatchlistStore {
	return &FileWatchlistStore{path: path}
}

// Load reads the watchlist file. A missing file yields an empty watchlist
// with the default check interval; unparseable content yields ErrCorrupt.
func (s *FileWatchlistStore) Load() (models.WatchlistFile, error) {
	wf := models.WatchlistFile{CheckInterval: models.DefaultCheckInterval}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return wf, nil
		}
		return wf, fmt.Errorf("failed to read watchlist file: %w", err)
	}

	if err := json.Unmarshal(data, &wf); err != nil {
		return models.WatchlistFile{CheckInterval: models.DefaultCheckInterval},
			fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if wf.CheckInterval == "" {
		wf.CheckInterval = models.DefaultCheckInterval
	}
	return wf, nil
}

func (s *FileWatchlistStore) Save(wf models.WatchlistFile) error {
	data, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode watchlist: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write watchlist file: %w", err)
	}
	return nil
}

// MemoryWatchlistStore is an in-memory WatchlistStore for tests. Set LoadErr
// to simulate a failing load.
type MemoryWatchlistStore struct {
	File    models.WatchlistFile
	LoadErr error
}

func NewMemoryWatchlistStore() *MemoryWatchlistStore {
	return &MemoryWatchlistStore{
		File: models.WatchlistFile{CheckInterval: models.DefaultCheckInterval},
	}
}

func (s *MemoryWatchlistStore) Load() (models.WatchlistFile, error) {
	if s.LoadErr != nil {
		return models.WatchlistFile{}, s.LoadErr
	}
	return s.File, nil
}

func (s *MemoryWatchlistStore) Save(wf models.WatchlistFile) error {
	s.File = wf
	return nil
}

// AddToWatchlist appends an entry. Duplicates are allowed; the store does not
// enforce uniqueness.
func AddToWatchlist(s WatchlistStore, card string, maxPrice float64) error {
	wf, err := s.Load()
	if err != nil {
		return err
	}
	wf.Watchlist = append(wf.Watchlist, models.WatchItem{Card: card, MaxPrice: maxPrice})
	return s.Save(wf)
}

// RemoveFromWatchlist removes the first case-insensitive match for card.
// Removing a card that is not on the list is a no-op, not an error.
func RemoveFromWatchlist(s WatchlistStore, card string) (*models.WatchItem, error) {
	wf, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i, item := range wf.Watchlist {
		if strings.EqualFold(item.Card, card) {
			removed := item
			wf.Watchlist = append(wf.Watchlist[:i], wf.Watchlist[i+1:]...)
			if err := s.Save(wf); err != nil {
				return nil, err
			}
			return &removed, nil
		}
	}
	return nil, nil
}
