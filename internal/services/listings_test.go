package services

import (
	"context"
	"testing"

	"github.com/cardwatch/cardwatch/internal/models"
)

func TestFilterPSA10(t *testing.T) {
	input := &models.SearchResult{
		Card: "Test Card",
		Listings: []models.Listing{
			{Title: "Test Card PSA 10", Price: 120},
			{Title: "Test Card BGS 9.5", Price: 56, AuthenticityGuarantee: true},
			{Title: "Test Card raw", Price: 35},
		},
		TotalListings: 3,
		AveragePrice:  70.33,
	}

	filtered := FilterPSA10(input)

	if len(filtered.Listings) != 2 {
		t.Fatalf("expected 2 qualifying listings, got %d", len(filtered.Listings))
	}
	if filtered.Listings[0].Price != 120 || filtered.Listings[1].Price != 56 {
		t.Errorf("wrong listings kept: %+v", filtered.Listings)
	}

	// Aggregate stats describe the full market, not the filtered subset.
	if filtered.TotalListings != 3 {
		t.Errorf("TotalListings should be preserved, got %d", filtered.TotalListings)
	}
	if filtered.AveragePrice != 70.33 {
		t.Errorf("AveragePrice should be preserved, got %v", filtered.AveragePrice)
	}
}

func TestFilterPSA10_NoneQualify(t *testing.T) {
	input := &models.SearchResult{
		Card: "Test Card",
		Listings: []models.Listing{
			{Title: "Test Card PSA 9", Price: 40},
			{Title: "Test Card ungraded", Price: 20},
		},
		TotalListings: 2,
	}

	filtered := FilterPSA10(input)
	if len(filtered.Listings) != 0 {
		t.Errorf("expected no qualifying listings, got %d", len(filtered.Listings))
	}
}

func TestLowestPriceListing(t *testing.T) {
	result := &models.SearchResult{
		Listings: []models.Listing{
			{Title: "a", Price: 120},
			{Title: "b", Price: 56},
			{Title: "c", Price: 85},
		},
	}

	lowest := LowestPriceListing(result)
	if lowest == nil || lowest.Price != 56 {
		t.Fatalf("expected price 56, got %+v", lowest)
	}
}

func TestLowestPriceListing_TieGoesToFirst(t *testing.T) {
	result := &models.SearchResult{
		Listings: []models.Listing{
			{Title: "first", Price: 56},
			{Title: "second", Price: 56},
		},
	}

	lowest := LowestPriceListing(result)
	if lowest.Title != "first" {
		t.Errorf("tie should go to earliest listing, got %q", lowest.Title)
	}
}

func TestLowestPriceListing_Empty(t *testing.T) {
	if lowest := LowestPriceListing(&models.SearchResult{}); lowest != nil {
		t.Errorf("expected nil for empty result, got %+v", lowest)
	}
}

func TestMockListingSource_KnownCard(t *testing.T) {
	source := NewMockListingSource()

	result, err := source.Search(context.Background(), "Dark Magician Girl")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Listings) != 4 {
		t.Fatalf("expected 4 fixture listings, got %d", len(result.Listings))
	}
	if result.TotalListings != 4 {
		t.Errorf("expected TotalListings 4, got %d", result.TotalListings)
	}
	if result.AveragePrice != 74 {
		t.Errorf("expected average 74, got %v", result.AveragePrice)
	}
}

func TestMockListingSource_UnknownCardFallback(t *testing.T) {
	source := NewMockListingSource()

	result, err := source.Search(context.Background(), "Some Obscure Card")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Listings) != 1 {
		t.Fatalf("expected synthetic fallback listing, got %d listings", len(result.Listings))
	}
	if result.Listings[0].Price != 75 || !result.Listings[0].AuthenticityGuarantee {
		t.Errorf("unexpected fallback listing: %+v", result.Listings[0])
	}
}

func TestAveragePrice(t *testing.T) {
	listings := []models.Listing{{Price: 100}, {Price: 50}}
	if got := averagePrice(listings); got != 75 {
		t.Errorf("expected 75, got %v", got)
	}
	if got := averagePrice(nil); got != 0 {
		t.Errorf("expected 0 for empty, got %v", got)
	}
}
