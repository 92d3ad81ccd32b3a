package services

import (
	"context"
	"strings"

	"github.com/cardwatch/cardwatch/internal/models"
)

// ListingSource queries a marketplace for current listings of a card.
//
// Implementations must never fail for unknown card names: the mock returns a
// synthetic fallback listing, and live implementations translate transport
// errors into an empty-listings result. This keeps the evaluator pipeline a
// plain skip-on-empty.
type ListingSource interface {
	Search(ctx context.Context, cardName string) (*models.SearchResult, error)
}

// FilterPSA10 keeps listings whose title contains "PSA 10" or that carry an
// authenticity guarantee. This is deliberately not a strict grade filter:
// any authenticity-guaranteed listing passes regardless of stated grade.
// TotalListings and AveragePrice are preserved from the unfiltered result.
func FilterPSA10(result *models.SearchResult) *models.SearchResult {
	filtered := &models.SearchResult{
		Card:          result.Card,
		TotalListings: result.TotalListings,
		AveragePrice:  result.AveragePrice,
	}
	for _, l := range result.Listings {
		if strings.Contains(l.Title, "PSA 10") || l.AuthenticityGuarantee {
			filtered.Listings = append(filtered.Listings, l)
		}
	}
	return filtered
}

// LowestPriceListing returns the cheapest listing, or nil when there are
// none. Ties go to the earliest listing in source order.
func LowestPriceListing(result *models.SearchResult) *models.Listing {
	if len(result.Listings) == 0 {
		return nil
	}
	lowest := &result.Listings[0]
	for i := 1; i < len(result.Listings); i++ {
		if result.Listings[i].Price < lowest.Price {
			lowest = &result.Listings[i]
		}
	}
	return lowest
}

func averagePrice(listings []models.Listing) float64 {
	if len(listings) == 0 {
		return 0
	}
	var sum float64
	for _, l := range listings {
		sum += l.Price
	}
	return sum / float64(len(listings))
}
