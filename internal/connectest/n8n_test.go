package connectest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookChecker_Reachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, true, payload["test"])
		assert.Equal(t, "credential-vault", payload["source"])
	}))
	defer srv.Close()

	c := NewWebhookChecker(srv.Client())
	res, err := c.Check(context.Background(), map[string]string{"n8n_webhook_url": srv.URL + "/webhook/abc"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Webhook reachable", res.Message)
}

func TestWebhookChecker_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewWebhookChecker(srv.Client())
	res, err := c.Check(context.Background(), map[string]string{"n8n_webhook_url": srv.URL})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "HTTP 404 Not Found", res.Message)
}

func TestWebhookChecker_MissingURL(t *testing.T) {
	c := NewWebhookChecker(http.DefaultClient)
	res, err := c.Check(context.Background(), map[string]string{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Missing webhook URL", res.Message)
}

func TestSMTPConfigChecker(t *testing.T) {
	c := SMTPConfigChecker{}

	res, err := c.Check(context.Background(), map[string]string{
		"smtp_host": "smtp.example.com",
		"smtp_port": "587",
		"smtp_user": "bookings@example.com",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = c.Check(context.Background(), map[string]string{
		"smtp_host": "smtp.example.com",
		"smtp_port": "587",
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Missing SMTP configuration", res.Message)
}

func TestGoogleChecker_AlwaysSucceeds(t *testing.T) {
	c := GoogleChecker{}
	res, err := c.Check(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
}
