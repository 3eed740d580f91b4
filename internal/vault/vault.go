// Package vault owns credential persistence semantics: every write passes
// through here so field-level encryption is applied consistently, and the read
// path never lets one corrupted credential crash a caller.
package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrtandempilot/ceyhun-sub000/internal/cache"
	"github.com/mrtandempilot/ceyhun-sub000/internal/crypto"
	"github.com/mrtandempilot/ceyhun-sub000/internal/store"
	"github.com/mrtandempilot/ceyhun-sub000/pkg/models"
)

// Vault combines the credential store with the encryption codec. The cache
// holds the per-platform connection-test result, which the vault invalidates
// whenever a test status lands.
type Vault struct {
	store store.Store
	codec *crypto.Codec
	cache cache.Cache
}

// New creates a new Vault.
func New(st store.Store, codec *crypto.Codec, ca cache.Cache) *Vault {
	return &Vault{store: st, codec: codec, cache: ca}
}

// SetParams carries one credential write. CredentialType is explicit; when
// empty it is derived from the key's trailing segment for callers that predate
// the field.
type SetParams struct {
	Platform       string
	Key            string
	Value          string
	CredentialType string
	Encrypt        bool
	Actor          string
	ExpiresAt      *time.Time
	Metadata       map[string]string
}

// SetResult reports a write outcome. Persistence failures are captured here,
// never thrown past the vault boundary.
type SetResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Set encrypts the value iff requested and upserts the record for
// (platform, key), reactivating it. The conflict target is the uniqueness
// constraint on the pair; saves overwrite in place and never touch
// test-status columns.
func (v *Vault) Set(ctx context.Context, p SetParams) SetResult {
	if p.Platform == "" || p.Key == "" {
		return SetResult{Error: "platform and key are required"}
	}

	credType := p.CredentialType
	if credType == "" {
		credType = models.DeriveCredentialType(p.Key)
	}

	value := p.Value
	if p.Encrypt {
		encrypted, err := v.codec.Encrypt(value)
		if err != nil {
			slog.Error("credential encryption failed", "platform", p.Platform, "key", p.Key, "error", err)
			return SetResult{Error: fmt.Sprintf("encrypt credential: %v", err)}
		}
		value = encrypted
	}

	rec := &models.CredentialRecord{
		Platform:       p.Platform,
		CredentialType: credType,
		CredentialKey:  p.Key,
		Value:          value,
		IsEncrypted:    p.Encrypt,
		ExpiresAt:      p.ExpiresAt,
		Metadata:       p.Metadata,
		CreatedBy:      p.Actor,
		UpdatedBy:      p.Actor,
	}
	if err := v.store.UpsertCredential(ctx, rec); err != nil {
		slog.Error("credential upsert failed", "platform", p.Platform, "key", p.Key, "error", err)
		return SetResult{Error: fmt.Sprintf("save credential: %v", err)}
	}
	return SetResult{Success: true}
}

// Get returns the decrypted value for (platform, key). Absence is ("", false),
// not an error. A decryption failure fails closed: it is logged and reported
// as absent so one bad credential cannot abort unrelated request handling.
func (v *Vault) Get(ctx context.Context, platform, key string) (string, bool) {
	rec, err := v.store.GetActiveCredential(ctx, platform, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("credential lookup failed", "platform", platform, "key", key, "error", err)
		}
		return "", false
	}
	return v.decryptRecord(rec)
}

// GetAll returns every active key for the platform as decrypted key/value
// pairs. Rows that fail to decrypt are skipped with a logged error. Returns an
// empty map when the platform has no credentials.
func (v *Vault) GetAll(ctx context.Context, platform string) map[string]string {
	out := map[string]string{}

	recs, err := v.store.ListActiveCredentials(ctx, platform)
	if err != nil {
		slog.Error("credential listing failed", "platform", platform, "error", err)
		return out
	}
	for _, rec := range recs {
		if val, ok := v.decryptRecord(rec); ok {
			out[rec.CredentialKey] = val
		}
	}
	return out
}

// MaskedCredential is the settings-surface view of a record: the value is
// redacted and safe for display, never for storage or API calls.
type MaskedCredential struct {
	Key          string     `json:"key"`
	Type         string     `json:"type"`
	Value        string     `json:"value"`
	IsEncrypted  bool       `json:"is_encrypted"`
	LastTestedAt *time.Time `json:"last_tested_at,omitempty"`
	TestStatus   *string    `json:"test_status,omitempty"`
	TestError    *string    `json:"test_error,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ListMasked returns the platform's active credentials with redacted values.
// Plaintext never leaves the vault; rows that fail to decrypt display as
// fully redacted.
func (v *Vault) ListMasked(ctx context.Context, platform string) ([]MaskedCredential, error) {
	recs, err := v.store.ListActiveCredentials(ctx, platform)
	if err != nil {
		return nil, err
	}
	out := make([]MaskedCredential, 0, len(recs))
	for _, rec := range recs {
		masked := "****"
		if val, ok := v.decryptRecord(rec); ok {
			masked = crypto.Mask(val)
		}
		out = append(out, MaskedCredential{
			Key:          rec.CredentialKey,
			Type:         rec.CredentialType,
			Value:        masked,
			IsEncrypted:  rec.IsEncrypted,
			LastTestedAt: rec.LastTestedAt,
			TestStatus:   rec.TestStatus,
			TestError:    rec.TestError,
			UpdatedAt:    rec.UpdatedAt,
		})
	}
	return out, nil
}

// Delete permanently removes the record.
func (v *Vault) Delete(ctx context.Context, platform, key string) error {
	return v.store.DeleteCredential(ctx, platform, key)
}

// Deactivate soft-deletes the record; a later Set reactivates it.
func (v *Vault) Deactivate(ctx context.Context, platform, key string) error {
	return v.store.DeactivateCredential(ctx, platform, key)
}

// UpdateTestStatus stamps the connection-test outcome onto the record and
// drops the platform's cached test result so readers never see a result older
// than the stamp. Only the connection tester calls this; the save path never
// touches these fields.
func (v *Vault) UpdateTestStatus(ctx context.Context, platform, key, status string, testErr *string) error {
	if err := v.store.UpdateTestStatus(ctx, platform, key, status, testErr); err != nil {
		return err
	}
	if err := v.cache.Delete(ctx, cache.TestResultKey(platform)); err != nil {
		slog.Warn("invalidate cached test result failed", "platform", platform, "error", err)
	}
	return nil
}

func (v *Vault) decryptRecord(rec *models.CredentialRecord) (string, bool) {
	if !rec.IsEncrypted {
		return rec.Value, true
	}
	plaintext, err := v.codec.Decrypt(rec.Value)
	if err != nil {
		slog.Error("credential decryption failed, treating as absent",
			"platform", rec.Platform, "key", rec.CredentialKey, "error", err)
		return "", false
	}
	return plaintext, true
}
