package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/cardwatch/cardwatch/internal/metrics"
	"github.com/cardwatch/cardwatch/internal/models"
	"github.com/cardwatch/cardwatch/internal/store"
)

// ErrNoListings marks a watchlist entry skipped because no qualifying
// listings were found. It is a per-entry outcome, never fatal to the pass.
var ErrNoListings = errors.New("no qualifying listings found")

// Checker evaluates the watchlist against the listing source and records
// every observed price into history, whether or not a deal fires.
type Checker struct {
	watchlist store.WatchlistStore
	prices    store.PriceStore
	source    ListingSource
	archive   *SnapshotService // optional, nil disables archiving
}

func NewChecker(watchlist store.WatchlistStore, prices store.PriceStore, source ListingSource, archive *SnapshotService) *Checker {
	return &Checker{
		watchlist: watchlist,
		prices:    prices,
		source:    source,
		archive:   archive,
	}
}

// Run evaluates every watchlist entry in sequence. Entries are independent:
// a failing upstream query or store write for one card is captured in its
// CheckResult and the pass continues. Only a watchlist load failure aborts.
func (c *Checker) Run(ctx context.Context) ([]models.CheckResult, error) {
	wf, err := c.watchlist.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}

	metrics.ChecksTotal.Inc()
	metrics.WatchlistSize.Set(float64(len(wf.Watchlist)))

	results := make([]models.CheckResult, 0, len(wf.Watchlist))
	for _, item := range wf.Watchlist {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		result := c.CheckItem(ctx, item)
		results = append(results, result)

		switch {
		case result.Err != nil && errors.Is(result.Err, ErrNoListings):
			metrics.EntriesCheckedTotal.WithLabelValues("skipped").Inc()
			log.Printf("No listings found for %s", item.Card)
		case result.Err != nil:
			metrics.EntriesCheckedTotal.WithLabelValues("error").Inc()
			log.Printf("Error checking %s: %v", item.Card, result.Err)
		case result.Alert != nil:
			metrics.EntriesCheckedTotal.WithLabelValues("deal").Inc()
			metrics.DealsFoundTotal.Inc()
			log.Printf("Deal found for %s: $%.2f (threshold $%.2f)",
				item.Card, result.Alert.CurrentPrice, item.MaxPrice)
		default:
			metrics.EntriesCheckedTotal.WithLabelValues("no_deal").Inc()
		}
	}
	return results, nil
}

// CheckItem evaluates a single watchlist entry and produces at most one
// alert. The observed price is recorded into history even when no deal
// fires, so history reflects every check.
func (c *Checker) CheckItem(ctx context.Context, item models.WatchItem) models.CheckResult {
	result := models.CheckResult{Item: item}

	searchResult, err := c.source.Search(ctx, item.Card)
	if err != nil {
		result.Err = fmt.Errorf("listing search for %q: %w", item.Card, err)
		return result
	}

	filtered := FilterPSA10(searchResult)
	lowest := LowestPriceListing(filtered)
	if lowest == nil {
		result.Err = fmt.Errorf("%w for %q", ErrNoListings, item.Card)
		return result
	}

	// Previous price must be read before this check's update lands.
	previousPrice, hasPrevious, err := store.CurrentPrice(c.prices, item.Card)
	if err != nil {
		result.Err = fmt.Errorf("price lookup for %q: %w", item.Card, err)
		return result
	}

	if err := store.UpdatePrice(c.prices, item.Card, lowest.Price, filtered.TotalListings); err != nil {
		result.Err = fmt.Errorf("price update for %q: %w", item.Card, err)
		return result
	}
	metrics.PricesRecordedTotal.Inc()

	if c.archive != nil {
		// Archive failures are best-effort; the JSON history is authoritative.
		if err := c.archive.Record(item.Card, lowest.Price, filtered.TotalListings); err != nil {
			log.Printf("Failed to archive price for %s: %v", item.Card, err)
		}
	}

	if lowest.Price > item.MaxPrice {
		return result
	}

	if !hasPrevious {
		previousPrice = lowest.Price
	}
	result.Alert = &models.DealAlert{
		ID:           uuid.NewString(),
		Card:         item.Card,
		CurrentPrice: lowest.Price,
		Threshold:    item.MaxPrice,
		Savings:      previousPrice - lowest.Price,
		Listing:      *lowest,
		IsNewLow:     lowest.Price < previousPrice,
	}
	return result
}

// Alerts extracts the alerts from a pass's results, in watchlist order.
func Alerts(results []models.CheckResult) []models.DealAlert {
	var alerts []models.DealAlert
	for _, r := range results {
		if r.Alert != nil {
			alerts = append(alerts, *r.Alert)
		}
	}
	return alerts
}
