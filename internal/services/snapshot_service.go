package services

import (
	"errors"
	"sync"
	"time"

	"github.com/cardwatch/cardwatch/internal/database"
	"github.com/cardwatch/cardwatch/internal/metrics"
	"github.com/cardwatch/cardwatch/internal/models"
)

// ErrArchiveDisabled is returned when the snapshot archive database has not
// been initialized.
var ErrArchiveDisabled = errors.New("price archive is not initialized")

// SnapshotService appends every recorded price observation to the sqlite
// archive. The JSON price history keeps its bounded window; the archive is
// unbounded and exists for long-term reporting.
type SnapshotService struct {
	mu sync.Mutex
}

func NewSnapshotService() *SnapshotService {
	return &SnapshotService{}
}

// Record appends one observation for a card.
func (s *SnapshotService) Record(card string, price float64, listings int) error {
	db := database.GetDB()
	if db == nil {
		return ErrArchiveDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := models.PriceSnapshot{
		Card:     card,
		Day:      time.Now().Format("2006-01-02"),
		Price:    price,
		Listings: listings,
	}
	if err := db.Create(&snapshot).Error; err != nil {
		return err
	}
	metrics.SnapshotsRecordedTotal.Inc()
	return nil
}

// Depth returns how many observations the archive holds for a card.
func (s *SnapshotService) Depth(card string) (int64, error) {
	db := database.GetDB()
	if db == nil {
		return 0, ErrArchiveDisabled
	}

	var count int64
	err := db.Model(&models.PriceSnapshot{}).Where("card = ?", card).Count(&count).Error
	return count, err
}

// HistorySince returns a card's archived observations from the last n days,
// oldest first. n <= 0 returns everything.
func (s *SnapshotService) HistorySince(card string, days int) ([]models.PriceSnapshot, error) {
	db := database.GetDB()
	if db == nil {
		return nil, ErrArchiveDisabled
	}

	query := db.Where("card = ?", card).Order("id ASC")
	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
		query = query.Where("day >= ?", cutoff)
	}

	var snapshots []models.PriceSnapshot
	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}
