package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cardwatch/cardwatch/internal/metrics"
	"github.com/cardwatch/cardwatch/internal/models"
)

const webhookTimeout = 10 * time.Second

// FormatAlert renders a deal alert as the multi-line text used for both
// console output and webhook message bodies. Pure and deterministic.
func FormatAlert(alert models.DealAlert) string {
	savingsText := fmt.Sprintf("$%.2f under threshold", alert.Savings)
	if alert.IsNewLow {
		savingsText = fmt.Sprintf("New low! Saved $%.2f", alert.Savings)
	}

	authText := "No Authenticity Guarantee"
	if alert.Listing.AuthenticityGuarantee {
		authText = "Authenticity Guarantee"
	}

	lines := []string{
		fmt.Sprintf("**PRICE ALERT: %s**", alert.Card),
		"",
		fmt.Sprintf("**Current Price:** $%.2f", alert.CurrentPrice),
		fmt.Sprintf("**Your Threshold:** $%.2f", alert.Threshold),
		fmt.Sprintf("**Savings:** %s", savingsText),
		"",
		"**Listing:**",
		alert.Listing.Title,
		fmt.Sprintf("- Seller: %s", alert.Listing.Seller),
		fmt.Sprintf("- %s", authText),
		fmt.Sprintf("- [View listing](%s)", alert.Listing.URL),
	}
	return strings.Join(lines, "\n")
}

// WebhookNotifier posts deal alerts to an external webhook, one message per
// alert. The body is a JSON object with a single "content" text field.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier builds a notifier. An empty URL disables delivery:
// Dispatch becomes a warn-and-skip no-op.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: webhookTimeout,
		},
	}
}

type webhookMessage struct {
	Content string `json:"content"`
}

// Dispatch delivers alerts best-effort. A failed delivery is logged and the
// remaining alerts are still sent; nothing is retried.
func (n *WebhookNotifier) Dispatch(ctx context.Context, alerts []models.DealAlert) {
	if n.url == "" {
		if len(alerts) > 0 {
			log.Printf("Warning: no webhook URL configured, skipping %d alert(s)", len(alerts))
			metrics.WebhookDeliveriesTotal.WithLabelValues("skipped").Add(float64(len(alerts)))
		}
		return
	}

	for _, alert := range alerts {
		if err := n.send(ctx, alert); err != nil {
			log.Printf("Failed to deliver alert %s for %s: %v", alert.ID, alert.Card, err)
			metrics.WebhookDeliveriesTotal.WithLabelValues("failed").Inc()
			continue
		}
		log.Printf("Delivered alert %s for %s", alert.ID, alert.Card)
		metrics.WebhookDeliveriesTotal.WithLabelValues("sent").Inc()
	}
}

func (n *WebhookNotifier) send(ctx context.Context, alert models.DealAlert) error {
	body, err := json.Marshal(webhookMessage{Content: FormatAlert(alert)})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// TestConnection posts a test message to verify the webhook works.
func (n *WebhookNotifier) TestConnection(ctx context.Context) error {
	if n.url == "" {
		return fmt.Errorf("no webhook URL configured")
	}

	body, err := json.Marshal(webhookMessage{Content: "cardwatch test message"})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
