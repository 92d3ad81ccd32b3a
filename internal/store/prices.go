package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cardwatch/cardwatch/internal/models"
)

// PriceStore abstracts price history persistence.
type PriceStore interface {
	Load() (models.PriceHistory, error)
	Save(models.PriceHistory) error
}

// FilePriceStore persists price history as a single JSON file mapping card
// name to current price and history log.
type FilePriceStore struct {
	path string
}

func NewFilePriceStore(path string) *FilePriceStore {
	return &FilePriceStore{path: path}
}

// Load reads the price history file. A missing file yields an empty map;
// unparseable content yields ErrCorrupt.
func (s *FilePriceStore) Load() (models.PriceHistory, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.PriceHistory{}, nil
		}
		return nil, fmt.Errorf("failed to read price history file: %w", err)
	}

	var ph models.PriceHistory
	if err := json.Unmarshal(data, &ph); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if ph == nil {
		ph = models.PriceHistory{}
	}
	return ph, nil
}

func (s *FilePriceStore) Save(ph models.PriceHistory) error {
	data, err := json.MarshalIndent(ph, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode price history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write price history file: %w", err)
	}
	return nil
}

// MemoryPriceStore is an in-memory PriceStore for tests.
type MemoryPriceStore struct {
	History models.PriceHistory
}

func NewMemoryPriceStore() *MemoryPriceStore {
	return &MemoryPriceStore{History: models.PriceHistory{}}
}

func (s *MemoryPriceStore) Load() (models.PriceHistory, error) {
	return s.History, nil
}

func (s *MemoryPriceStore) Save(ph models.PriceHistory) error {
	s.History = ph
	return nil
}

// UpdatePrice records an observed price for a card: upserts the card's
// current price, appends a dated history entry, and truncates the history to
// the most recent MaxHistoryEntries. Same-day updates append separate
// entries; there is no de-duplication by date.
func UpdatePrice(s PriceStore, card string, price float64, listings int) error {
	return updatePriceAt(s, card, price, listings, time.Now())
}

func updatePriceAt(s PriceStore, card string, price float64, listings int, now time.Time) error {
	ph, err := s.Load()
	if err != nil {
		return err
	}

	rec, ok := ph[card]
	if !ok {
		rec = &models.CardPriceHistory{}
		ph[card] = rec
	}

	rec.Current = price
	rec.History = append(rec.History, models.PriceEntry{
		Date:     now.Format("2006-01-02"),
		Price:    price,
		Listings: listings,
	})
	if n := len(rec.History); n > models.MaxHistoryEntries {
		rec.History = rec.History[n-models.MaxHistoryEntries:]
	}

	return s.Save(ph)
}

// CurrentPrice returns the most recently recorded price for a card. The
// second return is false when the card has no record; that is not an error.
func CurrentPrice(s PriceStore, card string) (float64, bool, error) {
	ph, err := s.Load()
	if err != nil {
		return 0, false, err
	}
	rec, ok := ph[card]
	if !ok {
		return 0, false, nil
	}
	return rec.Current, true, nil
}

// PriceHistoryFor returns a card's history log, empty when unrecorded.
func PriceHistoryFor(s PriceStore, card string) ([]models.PriceEntry, error) {
	ph, err := s.Load()
	if err != nil {
		return nil, err
	}
	rec, ok := ph[card]
	if !ok {
		return nil, nil
	}
	return rec.History, nil
}
