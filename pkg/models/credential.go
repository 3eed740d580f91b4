// Package models contains shared data models used across the vault codebase.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Test status values for a credential. A record that has never been tested
// carries a NULL status, surfaced as an empty string.
const (
	TestStatusSuccess = "success"
	TestStatusFailed  = "failed"
	TestStatusPending = "pending"
)

// CredentialRecord is one stored secret or configuration value, scoped to a
// platform. credential_value is opaque to the store: either plaintext or the
// base64 form of IV||authTag||ciphertext, discriminated by IsEncrypted.
// Exactly one active record exists per (platform, credential_key) pair.
type CredentialRecord struct {
	ID             uuid.UUID         `db:"id"              json:"id"`
	Platform       string            `db:"platform"        json:"platform"`
	CredentialType string            `db:"credential_type" json:"credential_type"`
	CredentialKey  string            `db:"credential_key"  json:"credential_key"`
	Value          string            `db:"credential_value" json:"-"`
	IsEncrypted    bool              `db:"is_encrypted"    json:"is_encrypted"`
	IsActive       bool              `db:"is_active"       json:"is_active"`
	ExpiresAt      *time.Time        `db:"expires_at"      json:"expires_at,omitempty"`
	LastTestedAt   *time.Time        `db:"last_tested_at"  json:"last_tested_at,omitempty"`
	TestStatus     *string           `db:"test_status"     json:"test_status,omitempty"`
	TestError      *string           `db:"test_error"      json:"test_error,omitempty"`
	Metadata       map[string]string `db:"metadata"        json:"metadata,omitempty"`
	CreatedBy      string            `db:"created_by"      json:"created_by"`
	UpdatedBy      string            `db:"updated_by"      json:"updated_by"`
	CreatedAt      time.Time         `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at"      json:"updated_at"`
}

// DeriveCredentialType guesses a credential type from the trailing segment of
// a key name ("whatsapp_access_token" -> "token"). Callers should pass the
// type explicitly; this exists for settings surfaces that predate the
// explicit-type field.
func DeriveCredentialType(key string) string {
	parts := strings.Split(key, "_")
	last := parts[len(parts)-1]
	switch last {
	case "token":
		return "token"
	case "secret":
		return "secret"
	case "key":
		return "key"
	case "url":
		return "url"
	case "id":
		return "id"
	case "password", "pass":
		return "password"
	default:
		return "config"
	}
}
