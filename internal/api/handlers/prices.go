package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cardwatch/cardwatch/internal/services"
	"github.com/cardwatch/cardwatch/internal/store"
)

type PriceHandler struct {
	store   store.PriceStore
	archive *services.SnapshotService
}

func NewPriceHandler(s store.PriceStore, archive *services.SnapshotService) *PriceHandler {
	return &PriceHandler{store: s, archive: archive}
}

// GetPrices returns the whole price history map.
func (h *PriceHandler) GetPrices(c *gin.Context) {
	ph, err := h.store.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ph)
}

// GetHistory returns a card's recent history from the JSON store, plus the
// archive depth when the archive is enabled. The ?days=N query pulls older
// entries from the archive instead of the bounded JSON window.
func (h *PriceHandler) GetHistory(c *gin.Context) {
	card := c.Param("card")
	if card == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card is required"})
		return
	}

	if daysStr := c.Query("days"); daysStr != "" && h.archive != nil {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		snapshots, err := h.archive.HistorySince(card, days)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"card": card, "snapshots": snapshots})
		return
	}

	history, err := store.PriceHistoryFor(h.store, card)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"card": card, "history": history}
	if h.archive != nil {
		if depth, err := h.archive.Depth(card); err == nil {
			resp["archive_depth"] = depth
		}
	}
	c.JSON(http.StatusOK, resp)
}
