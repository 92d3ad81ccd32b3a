package models

// DefaultCheckInterval is used when the watchlist file does not specify one.
const DefaultCheckInterval = "24h"

// WatchItem is a card the user wants to buy and the most they will pay for it.
type WatchItem struct {
	Card     string  `json:"card"`
	MaxPrice float64 `json:"maxPrice"`
}

// WatchlistFile is the on-disk shape of the watchlist store. The whole file is
// rewritten on every mutation.
type WatchlistFile struct {
	Watchlist     []WatchItem `json:"watchlist"`
	CheckInterval string      `json:"checkInterval"`
}
