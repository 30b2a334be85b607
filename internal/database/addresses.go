package database

import (
	"context"
	"fmt"
)

const addressColumns = `id, public_id, line1, line2, postal_code, city, state, country, created_at, updated_at, deleted_at`

// CreateAddress inserts a new address and returns it.
func (s *Service) CreateAddress(ctx context.Context, db DBorTx, f AddressFields) (*Address, error) {
	publicID, err := newPublicID()
	if err != nil {
		return nil, err
	}
	now := s.Now()

	query := `INSERT INTO addresses (public_id, line1, line2, postal_code, city, state, country, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`
	id, err := insert(ctx, db, query, publicID, f.Line1, f.Line2, f.PostalCode, f.City, f.State, f.Country, now, now)
	if err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return s.GetAddressByID(ctx, db, id)
}

// GetAddressByID fetches an address by internal key, soft-deleted or not.
// It is used to embed referenced addresses.
func (s *Service) GetAddressByID(ctx context.Context, db DBorTx, id int64) (*Address, error) {
	return getRow[Address](ctx, db, `SELECT `+addressColumns+` FROM addresses WHERE id = ?;`, id)
}

// GetAddress fetches an address by public identifier within scope.
func (s *Service) GetAddress(ctx context.Context, db DBorTx, publicID string, scope Scope) (*Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE public_id = ? AND ` + scope.where() + `;`
	return getRow[Address](ctx, db, query, publicID)
}

// ListAddresses returns every address in scope.
func (s *Service) ListAddresses(ctx context.Context, db DBorTx, scope Scope) ([]Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE ` + scope.where() + ` ORDER BY id;`
	return selectRows[Address](ctx, db, query)
}

// UpdateAddress overwrites every editable column of an address.
func (s *Service) UpdateAddress(ctx context.Context, db DBorTx, id int64, f AddressFields) (*Address, error) {
	query := `UPDATE addresses SET line1 = ?, line2 = ?, postal_code = ?, city = ?, state = ?, country = ?, updated_at = ?
		WHERE id = ?;`
	if err := execOne(ctx, db, query, f.Line1, f.Line2, f.PostalCode, f.City, f.State, f.Country, s.Now(), id); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	return s.GetAddressByID(ctx, db, id)
}

// ListOrphanedAddresses returns active addresses that no venue, athlete or
// coach refers to. Soft-deleted referrers still count as references.
func (s *Service) ListOrphanedAddresses(ctx context.Context, db DBorTx) ([]Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses a
		WHERE a.deleted_at IS NULL
		  AND NOT EXISTS (SELECT 1 FROM venues v WHERE v.address_id = a.id)
		  AND NOT EXISTS (SELECT 1 FROM athletes t WHERE t.address_id = a.id)
		  AND NOT EXISTS (SELECT 1 FROM coaches c WHERE c.address_id = a.id)
		ORDER BY a.id;`
	return selectRows[Address](ctx, db, query)
}
