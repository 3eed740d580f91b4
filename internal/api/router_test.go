package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mrtandempilot/ceyhun-sub000/internal/api"
	"github.com/mrtandempilot/ceyhun-sub000/internal/api/middleware"
	"github.com/mrtandempilot/ceyhun-sub000/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminKey  = "vlt_admn_0123456789abcdef"
	editorKey = "vlt_edit_0123456789abcdef"
)

// stubStore serves the two fixed API keys above and nothing else.
type stubStore struct {
	keys map[string]*models.APIKey // prefix -> key
}

func newStubStore(t *testing.T) *stubStore {
	t.Helper()
	hash := func(raw string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.MinCost)
		require.NoError(t, err)
		return string(h)
	}
	return &stubStore{keys: map[string]*models.APIKey{
		adminKey[:8]: {
			ID:      uuid.New(),
			Name:    "admin@tandempilot",
			KeyHash: hash(adminKey),
			Scopes:  []string{"credentials", "admin"},
		},
		editorKey[:8]: {
			ID:      uuid.New(),
			Name:    "editor@tandempilot",
			KeyHash: hash(editorKey),
			Scopes:  []string{"credentials"},
		},
	}}
}

func (s *stubStore) Ping(_ context.Context) error { return nil }
func (s *stubStore) GetAPIKeyByPrefix(_ context.Context, prefix string) ([]*models.APIKey, error) {
	if key, ok := s.keys[prefix]; ok {
		return []*models.APIKey{key}, nil
	}
	return nil, nil
}
func (s *stubStore) UpdateAPIKeyLastUsed(_ context.Context, _ uuid.UUID) error { return nil }
func (s *stubStore) UpsertCredential(_ context.Context, _ *models.CredentialRecord) error {
	return nil
}
func (s *stubStore) GetActiveCredential(_ context.Context, _, _ string) (*models.CredentialRecord, error) {
	return nil, nil
}
func (s *stubStore) ListActiveCredentials(_ context.Context, _ string) ([]*models.CredentialRecord, error) {
	return nil, nil
}
func (s *stubStore) DeleteCredential(_ context.Context, _, _ string) error     { return nil }
func (s *stubStore) DeactivateCredential(_ context.Context, _, _ string) error { return nil }
func (s *stubStore) UpdateTestStatus(_ context.Context, _, _, _ string, _ *string) error {
	return nil
}

type stubCache struct{}

func (stubCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
func (stubCache) Get(_ context.Context, _ string) ([]byte, bool, error)            { return nil, false, nil }
func (stubCache) Delete(_ context.Context, _ string) error                         { return nil }
func (stubCache) Ping(_ context.Context) error                                     { return nil }
func (stubCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

func ok() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":"ok"}`))
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	st := newStubStore(t)
	return api.NewRouter(api.Dependencies{
		Auth:      middleware.NewAuth(st),
		RateLimit: middleware.NewRateLimit(stubCache{}, 100),

		HealthHandler:         ok(),
		SaveCredentials:       ok(),
		ListCredentials:       ok(),
		DeleteCredential:      ok(),
		TestConnectionHandler: ok(),
		TestResultHandler:     ok(),
	})
}

func TestRouter_HealthEndpoint_Public(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ProtectedEndpoints_RequireAuth(t *testing.T) {
	router := newTestRouter(t)

	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/credentials/telegram"},
		{"PUT", "/api/v1/credentials/telegram"},
		{"GET", "/api/v1/credentials/telegram/test"},
		{"DELETE", "/api/v1/credentials/telegram/telegram_bot_token"},
		{"POST", "/api/v1/credentials/test"},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			req := httptest.NewRequest(ep.method, ep.path, strings.NewReader("{}"))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_CredentialEndpoints_AcceptAnyValidKey(t *testing.T) {
	router := newTestRouter(t)

	for _, key := range []string{adminKey, editorKey} {
		req := httptest.NewRequest("GET", "/api/v1/credentials/telegram", nil)
		req.Header.Set("Authorization", "Bearer "+key)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRouter_TestResultEndpoint_NotAdminGated(t *testing.T) {
	router := newTestRouter(t)

	// Reading the cached outcome is a dashboard concern; any valid key works.
	req := httptest.NewRequest("GET", "/api/v1/credentials/telegram/test", nil)
	req.Header.Set("Authorization", "Bearer "+editorKey)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_TestEndpoint_AdminOnly(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/v1/credentials/test", strings.NewReader(`{"platform":"telegram"}`))
	req.Header.Set("Authorization", "Bearer "+editorKey)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "FORBIDDEN", errObj["code"])
	assert.Equal(t, api.AdminDeniedMessage, errObj["message"])
}

func TestRouter_TestEndpoint_AdminAllowed(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/v1/credentials/test", strings.NewReader(`{"platform":"telegram"}`))
	req.Header.Set("Authorization", "Bearer "+adminKey)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
