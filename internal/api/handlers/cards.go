package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardwatch/cardwatch/internal/services"
)

type CardHandler struct {
	cardDB *services.CardDatabaseService
}

func NewCardHandler(cardDB *services.CardDatabaseService) *CardHandler {
	return &CardHandler{cardDB: cardDB}
}

// SearchCards queries the card database with prices, rarities, and set info.
func (h *CardHandler) SearchCards(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	results, err := h.cardDB.SearchWithPrices(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}
