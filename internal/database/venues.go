package database

import (
	"context"
	"fmt"
)

const venueColumns = `id, public_id, name, venue_type, capacity, address_id, indoor, created_at, updated_at, deleted_at`

// CreateVenue inserts a new venue and returns it.
func (s *Service) CreateVenue(ctx context.Context, db DBorTx, f VenueFields) (*Venue, error) {
	publicID, err := newPublicID()
	if err != nil {
		return nil, err
	}
	if f.VenueType == "" {
		f.VenueType = VenueField
	}
	now := s.Now()

	query := `INSERT INTO venues (public_id, name, venue_type, capacity, address_id, indoor, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);`
	id, err := insert(ctx, db, query, publicID, f.Name, f.VenueType, f.Capacity, f.AddressID, f.Indoor, now, now)
	if err != nil {
		return nil, fmt.Errorf("create venue: %w", err)
	}
	return s.GetVenueByID(ctx, db, id)
}

// GetVenueByID fetches a venue by internal key, soft-deleted or not.
func (s *Service) GetVenueByID(ctx context.Context, db DBorTx, id int64) (*Venue, error) {
	return getRow[Venue](ctx, db, `SELECT `+venueColumns+` FROM venues WHERE id = ?;`, id)
}

// GetVenue fetches a venue by public identifier within scope.
func (s *Service) GetVenue(ctx context.Context, db DBorTx, publicID string, scope Scope) (*Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE public_id = ? AND ` + scope.where() + `;`
	return getRow[Venue](ctx, db, query, publicID)
}

// ListVenues returns every venue in scope.
func (s *Service) ListVenues(ctx context.Context, db DBorTx, scope Scope) ([]Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE ` + scope.where() + ` ORDER BY id;`
	return selectRows[Venue](ctx, db, query)
}

// UpdateVenue overwrites every editable column of a venue.
func (s *Service) UpdateVenue(ctx context.Context, db DBorTx, id int64, f VenueFields) (*Venue, error) {
	if f.VenueType == "" {
		f.VenueType = VenueField
	}
	query := `UPDATE venues SET name = ?, venue_type = ?, capacity = ?, address_id = ?, indoor = ?, updated_at = ?
		WHERE id = ?;`
	if err := execOne(ctx, db, query, f.Name, f.VenueType, f.Capacity, f.AddressID, f.Indoor, s.Now(), id); err != nil {
		return nil, fmt.Errorf("update venue: %w", err)
	}
	return s.GetVenueByID(ctx, db, id)
}
