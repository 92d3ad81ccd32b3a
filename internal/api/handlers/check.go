package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardwatch/cardwatch/internal/services"
)

type CheckHandler struct {
	checker  *services.Checker
	notifier *services.WebhookNotifier
}

func NewCheckHandler(checker *services.Checker, notifier *services.WebhookNotifier) *CheckHandler {
	return &CheckHandler{checker: checker, notifier: notifier}
}

// RunCheck runs a full check-and-alert pass and returns the outcome per
// watchlist entry. Alerts are also dispatched to the webhook.
func (h *CheckHandler) RunCheck(c *gin.Context) {
	results, err := h.checker.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	alerts := services.Alerts(results)
	h.notifier.Dispatch(c.Request.Context(), alerts)

	var failures []gin.H
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, gin.H{"card": r.Item.Card, "reason": r.Err.Error()})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"checked":  len(results),
		"alerts":   alerts,
		"failures": failures,
	})
}
