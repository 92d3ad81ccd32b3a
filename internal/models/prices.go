package models

// MaxHistoryEntries caps each card's price history. Older entries are dropped
// from the front when a new entry would exceed the cap.
const MaxHistoryEntries = 30

// PriceEntry records one observed price for a card on a calendar day.
// Repeated checks on the same day append separate entries.
type PriceEntry struct {
	Date     string  `json:"date"` // ISO 8601 date, no time component
	Price    float64 `json:"price"`
	Listings int     `json:"listings"`
}

// CardPriceHistory holds the most recently recorded price and the bounded
// history log for a single card.
type CardPriceHistory struct {
	Current float64      `json:"current"`
	History []PriceEntry `json:"history"`
}

// PriceHistory is the on-disk shape of the price store, keyed by card name.
// Keys are case-sensitive, unlike watchlist lookups.
type PriceHistory map[string]*CardPriceHistory
