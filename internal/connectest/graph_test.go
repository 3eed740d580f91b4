package connectest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphChecker_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "EAAG-valid", r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte(`{"id":"10111","name":"Ceyhun Tandem"}`))
	}))
	defer srv.Close()

	c := NewGraphChecker("facebook", srv.URL, srv.Client())
	res, err := c.Check(context.Background(), map[string]string{"facebook_access_token": "EAAG-valid"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Connected successfully", res.Message)
}

func TestGraphChecker_ProviderErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Error validating access token: Session has expired"}}`))
	}))
	defer srv.Close()

	c := NewGraphChecker("facebook", srv.URL, srv.Client())
	res, err := c.Check(context.Background(), map[string]string{"facebook_access_token": "expired"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Error validating access token: Session has expired", res.Message)
}

func TestGraphChecker_GenericErrorFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewGraphChecker("instagram", srv.URL, srv.Client())
	res, err := c.Check(context.Background(), map[string]string{"instagram_access_token": "bad"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid credentials", res.Message)
}

func TestGraphChecker_MissingToken_NoNetworkCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := NewGraphChecker("facebook", srv.URL, srv.Client())

	// Empty token already in the store counts as missing.
	res, err := c.Check(context.Background(), map[string]string{"facebook_access_token": ""})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Missing access token", res.Message)
	assert.Zero(t, calls)
}

func TestWhatsAppChecker_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/15551234567", r.URL.Path)
		assert.Equal(t, "Bearer wa-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"15551234567","display_phone_number":"+1 555 123 4567"}`))
	}))
	defer srv.Close()

	c := NewWhatsAppChecker(srv.URL, srv.Client())
	res, err := c.Check(context.Background(), map[string]string{
		"whatsapp_access_token":    "wa-token",
		"whatsapp_phone_number_id": "15551234567",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestWhatsAppChecker_MissingFields(t *testing.T) {
	c := NewWhatsAppChecker("http://unused.invalid", http.DefaultClient)

	res, err := c.Check(context.Background(), map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "Missing access token", res.Message)

	res, err = c.Check(context.Background(), map[string]string{"whatsapp_access_token": "t"})
	require.NoError(t, err)
	assert.Equal(t, "Missing phone number ID", res.Message)
}
