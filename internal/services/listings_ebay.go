package services

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cardwatch/cardwatch/internal/metrics"
	"github.com/cardwatch/cardwatch/internal/models"
)

const (
	ebayBrowseBaseURL     = "https://api.ebay.com/buy/browse/v1"
	ebayDefaultTimeout    = 10 * time.Second
	ebaySearchLimit       = 50
	authenticityGuarantee = "AUTHENTICITY_GUARANTEE"
)

// EbayListingSource queries the eBay Browse API for live listings.
//
// It honors the listing source contract: unknown cards, transport errors,
// and malformed responses all come back as an empty-listings result, never
// an error. Deal evaluation absorbs empty results by skipping the entry.
type EbayListingSource struct {
	client  *resty.Client
	baseURL string
}

func NewEbayListingSource(token string, timeout time.Duration) *EbayListingSource {
	if timeout <= 0 {
		timeout = ebayDefaultTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)
	if token != "" {
		client.SetAuthToken(token)
	}
	client.SetHeader("Accept", "application/json")

	return &EbayListingSource{
		client:  client,
		baseURL: ebayBrowseBaseURL,
	}
}

type ebaySearchResponse struct {
	Total         int               `json:"total"`
	ItemSummaries []ebayItemSummary `json:"itemSummaries"`
}

type ebayItemSummary struct {
	Title             string     `json:"title"`
	Price             ebayCost   `json:"price"`
	ItemWebURL        string     `json:"itemWebUrl"`
	Seller            ebaySeller `json:"seller"`
	QualifiedPrograms []string   `json:"qualifiedPrograms"`
}

type ebaySeller struct {
	Username string `json:"username"`
}

type ebayCost struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

func (s *EbayListingSource) Search(ctx context.Context, cardName string) (*models.SearchResult, error) {
	empty := &models.SearchResult{Card: cardName, Listings: []models.Listing{}}

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     cardName,
			"limit": strconv.Itoa(ebaySearchLimit),
		}).
		Get(s.baseURL + "/item_summary/search")
	metrics.UpstreamLatency.WithLabelValues("ebay").Observe(time.Since(start).Seconds())

	if err != nil {
		log.Printf("eBay search failed for %q: %v", cardName, err)
		metrics.UpstreamErrorsTotal.WithLabelValues("ebay").Inc()
		return empty, nil
	}
	if resp.StatusCode() != 200 {
		log.Printf("eBay search for %q returned status %d", cardName, resp.StatusCode())
		metrics.UpstreamErrorsTotal.WithLabelValues("ebay").Inc()
		return empty, nil
	}

	var searchResp ebaySearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		log.Printf("eBay search for %q returned malformed JSON: %v", cardName, err)
		metrics.UpstreamErrorsTotal.WithLabelValues("ebay").Inc()
		return empty, nil
	}

	listings := make([]models.Listing, 0, len(searchResp.ItemSummaries))
	for _, item := range searchResp.ItemSummaries {
		price, err := strconv.ParseFloat(item.Price.Value, 64)
		if err != nil || price <= 0 {
			continue
		}
		listings = append(listings, models.Listing{
			Title:                 item.Title,
			Price:                 price,
			URL:                   item.ItemWebURL,
			Seller:                item.Seller.Username,
			AuthenticityGuarantee: hasProgram(item.QualifiedPrograms, authenticityGuarantee),
		})
	}

	return &models.SearchResult{
		Card:          cardName,
		Listings:      listings,
		TotalListings: len(listings),
		AveragePrice:  averagePrice(listings),
	}, nil
}

func hasProgram(programs []string, name string) bool {
	for _, p := range programs {
		if p == name {
			return true
		}
	}
	return false
}
