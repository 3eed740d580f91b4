package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mrtandempilot/ceyhun-sub000/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
// The credentials table is exclusively owned by this layer: encryption is the
// vault's job, so credential_value is opaque bytes from the store's point of
// view.
type Store interface {
	Ping(ctx context.Context) error

	// UpsertCredential inserts or overwrites the record for its
	// (platform, credential_key) pair and reactivates it. Test-status fields
	// are never written by the save path.
	UpsertCredential(ctx context.Context, rec *models.CredentialRecord) error
	GetActiveCredential(ctx context.Context, platform, key string) (*models.CredentialRecord, error)
	ListActiveCredentials(ctx context.Context, platform string) ([]*models.CredentialRecord, error)
	DeleteCredential(ctx context.Context, platform, key string) error
	DeactivateCredential(ctx context.Context, platform, key string) error
	UpdateTestStatus(ctx context.Context, platform, key, status string, testErr *string) error

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
}
