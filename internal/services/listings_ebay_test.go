package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const ebaySearchFixture = `{
	"total": 3,
	"itemSummaries": [
		{
			"title": "Dark Magician Girl RA03 PSA 10",
			"price": {"value": "56.00", "currency": "USD"},
			"itemWebUrl": "https://ebay.com/itm/1",
			"seller": {"username": "cardshop"},
			"qualifiedPrograms": ["AUTHENTICITY_GUARANTEE"]
		},
		{
			"title": "Dark Magician Girl raw",
			"price": {"value": "20.00", "currency": "USD"},
			"itemWebUrl": "https://ebay.com/itm/2",
			"seller": {"username": "someone"}
		},
		{
			"title": "Dark Magician Girl broken price",
			"price": {"value": "", "currency": "USD"},
			"itemWebUrl": "https://ebay.com/itm/3",
			"seller": {"username": "junk"}
		}
	]
}`

func TestEbaySearch_MapsListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/item_summary/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "Dark Magician Girl" {
			t.Errorf("unexpected query %q", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(ebaySearchFixture))
	}))
	defer server.Close()

	s := NewEbayListingSource("token", 0)
	s.baseURL = server.URL

	result, err := s.Search(context.Background(), "Dark Magician Girl")
	if err != nil {
		t.Fatal(err)
	}

	// The unparseable-price item is dropped.
	if len(result.Listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(result.Listings))
	}

	first := result.Listings[0]
	if first.Title != "Dark Magician Girl RA03 PSA 10" || first.Price != 56 {
		t.Errorf("unexpected first listing: %+v", first)
	}
	if first.Seller != "cardshop" {
		t.Errorf("expected seller cardshop, got %q", first.Seller)
	}
	if !first.AuthenticityGuarantee {
		t.Error("AUTHENTICITY_GUARANTEE program should map to the flag")
	}
	if result.Listings[1].AuthenticityGuarantee {
		t.Error("listing without the program should not carry the flag")
	}
	if result.TotalListings != 2 {
		t.Errorf("expected TotalListings 2, got %d", result.TotalListings)
	}
}

func TestEbaySearch_UpstreamErrorYieldsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewEbayListingSource("", 0)
	s.baseURL = server.URL

	result, err := s.Search(context.Background(), "Dark Magician Girl")
	if err != nil {
		t.Fatalf("upstream errors must not surface, got %v", err)
	}
	if len(result.Listings) != 0 {
		t.Errorf("expected empty listings, got %d", len(result.Listings))
	}
}

func TestEbaySearch_MalformedJSONYieldsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	s := NewEbayListingSource("", 0)
	s.baseURL = server.URL

	result, err := s.Search(context.Background(), "Dark Magician Girl")
	if err != nil {
		t.Fatalf("malformed responses must not surface, got %v", err)
	}
	if len(result.Listings) != 0 {
		t.Errorf("expected empty listings, got %d", len(result.Listings))
	}
}
