package connectest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookChecker verifies an automation webhook (n8n) by posting a synthetic
// test payload to the stored URL.
type WebhookChecker struct {
	client *http.Client
}

func NewWebhookChecker(client *http.Client) *WebhookChecker {
	return &WebhookChecker{client: client}
}

func (c *WebhookChecker) Check(ctx context.Context, creds map[string]string) (Result, error) {
	webhookURL := creds["n8n_webhook_url"]
	if webhookURL == "" {
		return Result{Message: "Missing webhook URL"}, nil
	}

	payload, _ := json.Marshal(map[string]any{
		"test":      true,
		"source":    "credential-vault",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Result{Success: true, Message: "Webhook reachable"}, nil
	}
	return Result{Message: fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))}, nil
}
