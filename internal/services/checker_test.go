package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cardwatch/cardwatch/internal/models"
	"github.com/cardwatch/cardwatch/internal/store"
)

// stubListingSource serves canned results per card and errors on demand.
type stubListingSource struct {
	results map[string]*models.SearchResult
	errs    map[string]error
}

func (s *stubListingSource) Search(_ context.Context, cardName string) (*models.SearchResult, error) {
	if err, ok := s.errs[cardName]; ok {
		return nil, err
	}
	if result, ok := s.results[cardName]; ok {
		return result, nil
	}
	return &models.SearchResult{Card: cardName, Listings: []models.Listing{}}, nil
}

func singleListing(card string, price float64) *models.SearchResult {
	return &models.SearchResult{
		Card: card,
		Listings: []models.Listing{
			{Title: card + " PSA 10", Price: price, URL: "https://ebay.com/x", Seller: "s"},
		},
		TotalListings: 1,
		AveragePrice:  price,
	}
}

func newTestChecker(items []models.WatchItem, source ListingSource) (*Checker, *store.MemoryPriceStore) {
	watchlist := store.NewMemoryWatchlistStore()
	watchlist.File.Watchlist = items
	prices := store.NewMemoryPriceStore()
	return NewChecker(watchlist, prices, source, nil), prices
}

func TestCheckItem_ThresholdIsInclusive(t *testing.T) {
	source := &stubListingSource{results: map[string]*models.SearchResult{
		"Exact": singleListing("Exact", 50),
		"Over":  singleListing("Over", 50.01),
	}}
	checker, _ := newTestChecker(nil, source)

	result := checker.CheckItem(context.Background(), models.WatchItem{Card: "Exact", MaxPrice: 50})
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if result.Alert == nil {
		t.Fatal("price equal to threshold should fire an alert")
	}
	if result.Alert.ID == "" {
		t.Error("alert should carry an ID")
	}

	result = checker.CheckItem(context.Background(), models.WatchItem{Card: "Over", MaxPrice: 50})
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if result.Alert != nil {
		t.Error("price above threshold should not fire an alert")
	}
}

func TestCheckItem_FirstObservation(t *testing.T) {
	source := &stubListingSource{results: map[string]*models.SearchResult{
		"Card": singleListing("Card", 40),
	}}
	checker, prices := newTestChecker(nil, source)

	result := checker.CheckItem(context.Background(), models.WatchItem{Card: "Card", MaxPrice: 50})
	if result.Alert == nil {
		t.Fatal("expected an alert")
	}
	if result.Alert.Savings != 0 {
		t.Errorf("first observation should have zero savings, got %v", result.Alert.Savings)
	}
	if result.Alert.IsNewLow {
		t.Error("first observation is not a new low")
	}

	current, ok, _ := store.CurrentPrice(prices, "Card")
	if !ok || current != 40 {
		t.Errorf("price should be recorded, got ok=%v current=%v", ok, current)
	}
}

func TestCheckItem_NewLow(t *testing.T) {
	source := &stubListingSource{results: map[string]*models.SearchResult{
		"Card": singleListing("Card", 75),
	}}
	checker, prices := newTestChecker(nil, source)

	if err := store.UpdatePrice(prices, "Card", 90, 1); err != nil {
		t.Fatal(err)
	}

	result := checker.CheckItem(context.Background(), models.WatchItem{Card: "Card", MaxPrice: 80})
	if result.Alert == nil {
		t.Fatal("expected an alert")
	}
	if !result.Alert.IsNewLow {
		t.Error("75 after 90 should be a new low")
	}
	if result.Alert.Savings != 15 {
		t.Errorf("expected savings 15, got %v", result.Alert.Savings)
	}
}

func TestCheckItem_PriceRose(t *testing.T) {
	source := &stubListingSource{results: map[string]*models.SearchResult{
		"Card": singleListing("Card", 75),
	}}
	checker, prices := newTestChecker(nil, source)

	if err := store.UpdatePrice(prices, "Card", 60, 1); err != nil {
		t.Fatal(err)
	}

	result := checker.CheckItem(context.Background(), models.WatchItem{Card: "Card", MaxPrice: 80})
	if result.Alert == nil {
		t.Fatal("75 under an 80 threshold should still alert")
	}
	if result.Alert.IsNewLow {
		t.Error("75 after 60 is not a new low")
	}
	if result.Alert.Savings != -15 {
		t.Errorf("expected savings -15, got %v", result.Alert.Savings)
	}
}

func TestCheckItem_RecordsPriceWithoutDeal(t *testing.T) {
	source := &stubListingSource{results: map[string]*models.SearchResult{
		"Card": singleListing("Card", 200),
	}}
	checker, prices := newTestChecker(nil, source)

	result := checker.CheckItem(context.Background(), models.WatchItem{Card: "Card", MaxPrice: 50})
	if result.Err != nil || result.Alert != nil {
		t.Fatalf("expected quiet no-deal, got alert=%+v err=%v", result.Alert, result.Err)
	}

	current, ok, _ := store.CurrentPrice(prices, "Card")
	if !ok || current != 200 {
		t.Errorf("price should be recorded even without a deal, got ok=%v current=%v", ok, current)
	}
}

func TestCheckItem_NoQualifyingListings(t *testing.T) {
	source := &stubListingSource{results: map[string]*models.SearchResult{
		"Card": {
			Card:          "Card",
			Listings:      []models.Listing{{Title: "Card PSA 9", Price: 10}},
			TotalListings: 1,
		},
	}}
	checker, prices := newTestChecker(nil, source)

	result := checker.CheckItem(context.Background(), models.WatchItem{Card: "Card", MaxPrice: 50})
	if !errors.Is(result.Err, ErrNoListings) {
		t.Fatalf("expected ErrNoListings, got %v", result.Err)
	}

	// A skipped entry must not pollute history.
	if _, ok, _ := store.CurrentPrice(prices, "Card"); ok {
		t.Error("no price should be recorded when nothing qualifies")
	}
}

func TestRun_EntriesAreIndependent(t *testing.T) {
	source := &stubListingSource{
		results: map[string]*models.SearchResult{
			"Good": singleListing("Good", 30),
		},
		errs: map[string]error{
			"Bad": errors.New("upstream exploded"),
		},
	}
	checker, _ := newTestChecker([]models.WatchItem{
		{Card: "Bad", MaxPrice: 50},
		{Card: "Good", MaxPrice: 50},
	}, source)

	results, err := checker.Run(context.Background())
	if err != nil {
		t.Fatalf("per-entry failures must not abort the pass: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err == nil {
		t.Error("first entry should carry its error")
	}
	if results[1].Alert == nil {
		t.Error("second entry should still produce an alert")
	}

	alerts := Alerts(results)
	if len(alerts) != 1 || alerts[0].Card != "Good" {
		t.Errorf("expected one alert for Good, got %+v", alerts)
	}
}

func TestRun_WatchlistLoadFailureIsFatal(t *testing.T) {
	watchlist := store.NewMemoryWatchlistStore()
	watchlist.LoadErr = errors.New("disk gone")
	checker := NewChecker(watchlist, store.NewMemoryPriceStore(), &stubListingSource{}, nil)

	if _, err := checker.Run(context.Background()); err == nil {
		t.Fatal("watchlist load failure should abort the pass")
	}
}
