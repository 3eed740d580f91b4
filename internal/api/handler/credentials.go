// Package handler contains the HTTP handlers for the credential vault API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/mrtandempilot/ceyhun-sub000/internal/api/middleware"
	"github.com/mrtandempilot/ceyhun-sub000/internal/api/response"
	"github.com/mrtandempilot/ceyhun-sub000/internal/store"
	"github.com/mrtandempilot/ceyhun-sub000/internal/vault"
)

// CredentialService is the slice of the vault the credential handlers depend on.
type CredentialService interface {
	Set(ctx context.Context, p vault.SetParams) vault.SetResult
	ListMasked(ctx context.Context, platform string) ([]vault.MaskedCredential, error)
	Delete(ctx context.Context, platform, key string) error
}

// credentialField is one field saved from the settings surface. Sensitive
// fields are encrypted at rest.
type credentialField struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
	Sensitive bool   `json:"sensitive"`
}

// NewSaveCredentialsHandler returns the handler for PUT /api/v1/credentials/{platform}.
// The body carries the fields a user edited; each is upserted individually so
// one failing field does not roll back the others.
func NewSaveCredentialsHandler(svc CredentialService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := chi.URLParam(r, "platform")
		if platform == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "platform is required", nil)
			return
		}

		var req struct {
			Fields []credentialField `json:"fields"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if len(req.Fields) == 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "fields is required", nil)
			return
		}

		actor, _ := mw.GetActor(r)

		results := make(map[string]vault.SetResult, len(req.Fields))
		for _, f := range req.Fields {
			results[f.Key] = svc.Set(r.Context(), vault.SetParams{
				Platform:       platform,
				Key:            f.Key,
				Value:          f.Value,
				CredentialType: f.Type,
				Encrypt:        f.Sensitive,
				Actor:          actor,
			})
		}

		response.JSON(w, map[string]any{
			"platform": platform,
			"results":  results,
		})
	}
}

// NewListCredentialsHandler returns the handler for GET /api/v1/credentials/{platform}.
// Values are masked; plaintext is never served from this endpoint.
func NewListCredentialsHandler(svc CredentialService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := chi.URLParam(r, "platform")
		if platform == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "platform is required", nil)
			return
		}

		creds, err := svc.ListMasked(r.Context(), platform)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list credentials", nil)
			return
		}

		response.JSON(w, map[string]any{
			"platform":    platform,
			"credentials": creds,
		})
	}
}

// NewDeleteCredentialHandler returns the handler for
// DELETE /api/v1/credentials/{platform}/{key}. Removal is permanent.
func NewDeleteCredentialHandler(svc CredentialService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := chi.URLParam(r, "platform")
		key := chi.URLParam(r, "key")
		if platform == "" || key == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "platform and key are required", nil)
			return
		}

		if err := svc.Delete(r.Context(), platform, key); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Credential not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete credential", nil)
			return
		}
		response.NoContent(w)
	}
}
