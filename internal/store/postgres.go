package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mrtandempilot/ceyhun-sub000/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Credentials ---

const credentialColumns = `id, platform, credential_type, credential_key, credential_value,
	is_encrypted, is_active, expires_at, last_tested_at, test_status, test_error,
	metadata, created_by, updated_by, created_at, updated_at`

func scanCredential(row pgx.Row) (*models.CredentialRecord, error) {
	var rec models.CredentialRecord
	err := row.Scan(&rec.ID, &rec.Platform, &rec.CredentialType, &rec.CredentialKey,
		&rec.Value, &rec.IsEncrypted, &rec.IsActive, &rec.ExpiresAt, &rec.LastTestedAt,
		&rec.TestStatus, &rec.TestError, &rec.Metadata, &rec.CreatedBy, &rec.UpdatedBy,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) UpsertCredential(ctx context.Context, rec *models.CredentialRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Metadata == nil {
		rec.Metadata = map[string]string{}
	}

	// Conflict target is the uniqueness constraint on (platform, credential_key).
	// Overwrite in place, never versioned; test-status columns stay untouched.
	err := s.pool.QueryRow(ctx,
		`INSERT INTO credentials (id, platform, credential_type, credential_key, credential_value,
		   is_encrypted, is_active, expires_at, metadata, created_by, updated_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8, $9, $10, NOW(), NOW())
		 ON CONFLICT (platform, credential_key) DO UPDATE SET
		   credential_type = EXCLUDED.credential_type,
		   credential_value = EXCLUDED.credential_value,
		   is_encrypted = EXCLUDED.is_encrypted,
		   is_active = TRUE,
		   expires_at = EXCLUDED.expires_at,
		   metadata = EXCLUDED.metadata,
		   updated_by = EXCLUDED.updated_by,
		   updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		rec.ID, rec.Platform, rec.CredentialType, rec.CredentialKey, rec.Value,
		rec.IsEncrypted, rec.ExpiresAt, rec.Metadata, rec.CreatedBy, rec.UpdatedBy,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetActiveCredential(ctx context.Context, platform, key string) (*models.CredentialRecord, error) {
	rec, err := scanCredential(s.pool.QueryRow(ctx,
		`SELECT `+credentialColumns+`
		 FROM credentials WHERE platform = $1 AND credential_key = $2 AND is_active`,
		platform, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListActiveCredentials(ctx context.Context, platform string) ([]*models.CredentialRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+credentialColumns+`
		 FROM credentials WHERE platform = $1 AND is_active ORDER BY credential_key`,
		platform)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var recs []*models.CredentialRecord
	for rows.Next() {
		rec, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		recs = append(recs, rec)
	}
	if recs == nil {
		recs = []*models.CredentialRecord{}
	}
	return recs, rows.Err()
}

func (s *PostgresStore) DeleteCredential(ctx context.Context, platform, key string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM credentials WHERE platform = $1 AND credential_key = $2`, platform, key)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeactivateCredential(ctx context.Context, platform, key string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE credentials SET is_active = FALSE, updated_at = NOW()
		 WHERE platform = $1 AND credential_key = $2 AND is_active`, platform, key)
	if err != nil {
		return fmt.Errorf("deactivate credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateTestStatus(ctx context.Context, platform, key, status string, testErr *string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE credentials SET test_status = $3, test_error = $4, last_tested_at = NOW(), updated_at = NOW()
		 WHERE platform = $1 AND credential_key = $2`, platform, key, status, testErr)
	if err != nil {
		return fmt.Errorf("update test status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
