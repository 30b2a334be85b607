package database

import (
	"context"
	"database/sql"
	"fmt"
)

const apiKeyColumns = `id, public_id, key_hash, name, owner, expires_at, last_used_at, is_active, created_at, updated_at, deleted_at`

// CreateAPIKey stores a new active key under the digest of its secret.
func (s *Service) CreateAPIKey(ctx context.Context, db DBorTx, name, owner, keyHash string, expiresAt sql.NullTime) (*APIKey, error) {
	publicID, err := newPublicID()
	if err != nil {
		return nil, err
	}
	now := s.Now()

	query := `INSERT INTO api_keys (public_id, key_hash, name, owner, expires_at, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?);`
	id, err := insert(ctx, db, query, publicID, keyHash, name, owner, expiresAt, now, now)
	if err != nil {
		return nil, fmt.Errorf("create api key: %w", err)
	}
	return getRow[APIKey](ctx, db, `SELECT `+apiKeyColumns+` FROM api_keys WHERE id = ?;`, id)
}

// GetAPIKeyByHash fetches a non-deleted key by the digest of its secret.
// The caller still has to check IsValid.
func (s *Service) GetAPIKeyByHash(ctx context.Context, db DBorTx, keyHash string) (*APIKey, error) {
	return s.FindAPIKeyByHash(ctx, db, keyHash, Active)
}

// FindAPIKeyByHash fetches a key by digest within scope.
func (s *Service) FindAPIKeyByHash(ctx context.Context, db DBorTx, keyHash string, scope Scope) (*APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE key_hash = ? AND ` + scope.where() + `;`
	return getRow[APIKey](ctx, db, query, keyHash)
}

// MarkAPIKeyUsed records a successful authentication.
func (s *Service) MarkAPIKeyUsed(ctx context.Context, db DBorTx, id int64) error {
	now := s.Now()
	return execOne(ctx, db, `UPDATE api_keys SET last_used_at = ?, updated_at = ? WHERE id = ?;`, now, now, id)
}

// SetAPIKeyActive switches a key on or off.
func (s *Service) SetAPIKeyActive(ctx context.Context, db DBorTx, id int64, active bool) error {
	return execOne(ctx, db, `UPDATE api_keys SET is_active = ?, updated_at = ? WHERE id = ?;`, active, s.Now(), id)
}

// CountAPIKeys returns the number of non-deleted keys.
func (s *Service) CountAPIKeys(ctx context.Context, db DBorTx) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM api_keys WHERE deleted_at IS NULL;`); err != nil {
		return 0, classify(err)
	}
	return n, nil
}
