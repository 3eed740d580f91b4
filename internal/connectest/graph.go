package connectest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// graphErrorBody is the error envelope the Meta Graph API embeds in non-2xx
// responses.
type graphErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GraphChecker verifies a Facebook or Instagram access token against the
// Graph API profile endpoint.
type GraphChecker struct {
	tokenKey string
	baseURL  string
	client   *http.Client
}

// NewGraphChecker creates a checker for the given platform ("facebook" or
// "instagram"); the token is read from "<platform>_access_token".
func NewGraphChecker(platform, baseURL string, client *http.Client) *GraphChecker {
	return &GraphChecker{
		tokenKey: platform + "_access_token",
		baseURL:  baseURL,
		client:   client,
	}
}

func (c *GraphChecker) Check(ctx context.Context, creds map[string]string) (Result, error) {
	token := creds[c.tokenKey]
	if token == "" {
		return Result{Message: "Missing access token"}, nil
	}

	u := fmt.Sprintf("%s/me?access_token=%s", c.baseURL, url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("graph api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Result{Success: true, Message: "Connected successfully"}, nil
	}
	return Result{Message: graphErrorMessage(resp)}, nil
}

// graphErrorMessage extracts the provider's embedded error message, falling
// back to a generic one.
func graphErrorMessage(resp *http.Response) string {
	var body graphErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return "Invalid credentials"
}

// WhatsAppChecker verifies a WhatsApp Business token against the phone-number
// resource endpoint.
type WhatsAppChecker struct {
	baseURL string
	client  *http.Client
}

func NewWhatsAppChecker(baseURL string, client *http.Client) *WhatsAppChecker {
	return &WhatsAppChecker{baseURL: baseURL, client: client}
}

func (c *WhatsAppChecker) Check(ctx context.Context, creds map[string]string) (Result, error) {
	token := creds["whatsapp_access_token"]
	if token == "" {
		return Result{Message: "Missing access token"}, nil
	}
	phoneID := creds["whatsapp_phone_number_id"]
	if phoneID == "" {
		return Result{Message: "Missing phone number ID"}, nil
	}

	u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(phoneID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("graph api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Result{Success: true, Message: "Connected successfully"}, nil
	}
	return Result{Message: graphErrorMessage(resp)}, nil
}
