package connectest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TelegramChecker verifies a bot token against the Bot API identity endpoint.
type TelegramChecker struct {
	baseURL string
	client  *http.Client
}

func NewTelegramChecker(baseURL string, client *http.Client) *TelegramChecker {
	return &TelegramChecker{baseURL: baseURL, client: client}
}

type telegramGetMeResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		Username string `json:"username"`
	} `json:"result"`
}

func (c *TelegramChecker) Check(ctx context.Context, creds map[string]string) (Result, error) {
	token := creds["telegram_bot_token"]
	if token == "" {
		return Result{Message: "Missing bot token"}, nil
	}

	u := fmt.Sprintf("%s/bot%s/getMe", c.baseURL, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("telegram api: %w", err)
	}
	defer resp.Body.Close()

	// The Bot API reports the outcome in the body's "ok" flag, not the HTTP
	// status alone.
	var body telegramGetMeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{Message: "Invalid credentials"}, nil
	}
	if !body.OK {
		msg := body.Description
		if msg == "" {
			msg = "Invalid credentials"
		}
		return Result{Message: msg}, nil
	}
	return Result{Success: true, Message: "Connected as @" + body.Result.Username}, nil
}
