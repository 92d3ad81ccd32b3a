package models

// Listing is a single normalized marketplace listing for a card.
type Listing struct {
	Title                 string  `json:"title"`
	Price                 float64 `json:"price"`
	URL                   string  `json:"url"`
	Seller                string  `json:"seller"`
	AuthenticityGuarantee bool    `json:"authenticityGuarantee"`
}

// SearchResult is the normalized response from a listing source.
// AveragePrice is the arithmetic mean over the unfiltered listings.
type SearchResult struct {
	Card          string    `json:"card"`
	Listings      []Listing `json:"listings"`
	TotalListings int       `json:"totalListings"`
	AveragePrice  float64   `json:"averagePrice"`
}

// DealAlert is produced when a card's lowest qualifying listing is at or
// below the watchlist threshold. Derived per check, never persisted.
type DealAlert struct {
	ID           string  `json:"id"`
	Card         string  `json:"card"`
	CurrentPrice float64 `json:"current_price"`
	Threshold    float64 `json:"threshold"`
	Savings      float64 `json:"savings"`
	Listing      Listing `json:"listing"`
	IsNewLow     bool    `json:"is_new_low"`
}

// CheckResult is the outcome of evaluating one watchlist entry. A failed
// entry carries Err and never aborts the rest of the pass.
type CheckResult struct {
	Item  WatchItem  `json:"item"`
	Alert *DealAlert `json:"alert,omitempty"`
	Err   error      `json:"-"`
}
