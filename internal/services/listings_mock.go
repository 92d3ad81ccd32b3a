package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cardwatch/cardwatch/internal/models"
)

// mockListings is the fixture table keyed by lowercased card name.
var mockListings = map[string][]models.Listing{
	"dark magician girl": {
		{Title: "Dark Magician Girl Maximum Gold PSA 10", Price: 120, URL: "https://ebay.com/1", Seller: "PSA", AuthenticityGuarantee: true},
		{Title: "Dark Magician Girl RA03 PSA 10", Price: 56, URL: "https://ebay.com/2", Seller: "CardShop", AuthenticityGuarantee: true},
		{Title: "Dark Magician Girl Speed Duel PSA 10", Price: 35, URL: "https://ebay.com/3", Seller: "GradedCards", AuthenticityGuarantee: true},
		{Title: "Dark Magician Girl 2021 JP Promo PSA 10", Price: 85, URL: "https://ebay.com/4", Seller: "JapanCardShop", AuthenticityGuarantee: false},
	},
	"blue-eyes white dragon": {
		{Title: "Blue-Eyes White Dragon LOB PSA 10", Price: 250, URL: "https://ebay.com/5", Seller: "RareCards", AuthenticityGuarantee: true},
		{Title: "Blue-Eyes White Dragon PSA 9", Price: 150, URL: "https://ebay.com/6", Seller: "CardShop", AuthenticityGuarantee: true},
	},
}

// MockListingSource serves fixture listings. Unknown cards get a synthetic
// single-listing result rather than an empty one.
type MockListingSource struct{}

func NewMockListingSource() *MockListingSource {
	return &MockListingSource{}
}

func (s *MockListingSource) Search(_ context.Context, cardName string) (*models.SearchResult, error) {
	listings, ok := mockListings[strings.ToLower(cardName)]
	if !ok {
		listings = []models.Listing{
			{
				Title:                 fmt.Sprintf("%s PSA 10", cardName),
				Price:                 75,
				URL:                   "https://ebay.com/test",
				Seller:                "TestSeller",
				AuthenticityGuarantee: true,
			},
		}
	}

	return &models.SearchResult{
		Card:          cardName,
		Listings:      listings,
		TotalListings: len(listings),
		AveragePrice:  averagePrice(listings),
	}, nil
}
