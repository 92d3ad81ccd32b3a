package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardwatch/cardwatch/internal/store"
)

type WatchlistHandler struct {
	store store.WatchlistStore
}

func NewWatchlistHandler(s store.WatchlistStore) *WatchlistHandler {
	return &WatchlistHandler{store: s}
}

// GetWatchlist returns the full watchlist and check interval.
func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	wf, err := h.store.Load()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrCorrupt) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wf)
}

type addItemRequest struct {
	Card     string  `json:"card" binding:"required"`
	MaxPrice float64 `json:"maxPrice" binding:"required,gt=0"`
}

// AddItem appends an entry to the watchlist.
func (h *WatchlistHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := store.AddToWatchlist(h.store, req.Card, req.MaxPrice); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"card": req.Card, "maxPrice": req.MaxPrice})
}

// RemoveItem removes the first case-insensitive match. Removing an absent
// card is not an error; the response reports whether anything was removed.
func (h *WatchlistHandler) RemoveItem(c *gin.Context) {
	card := c.Param("card")
	if card == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card is required"})
		return
	}

	removed, err := store.RemoveFromWatchlist(h.store, card)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if removed == nil {
		c.JSON(http.StatusOK, gin.H{"removed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true, "card": removed.Card})
}
