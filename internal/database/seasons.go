package database

import (
	"context"
	"fmt"
)

const seasonColumns = `id, public_id, name, start_date, end_date, created_at, updated_at, deleted_at`

// CreateSeason inserts a new season. No ordering between start and end
// date is enforced.
func (s *Service) CreateSeason(ctx context.Context, db DBorTx, f SeasonFields) (*Season, error) {
	publicID, err := newPublicID()
	if err != nil {
		return nil, err
	}
	now := s.Now()

	query := `INSERT INTO seasons (public_id, name, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?);`
	id, err := insert(ctx, db, query, publicID, f.Name, f.StartDate.UTC(), f.EndDate.UTC(), now, now)
	if err != nil {
		return nil, fmt.Errorf("create season: %w", err)
	}
	return s.GetSeasonByID(ctx, db, id)
}

// GetSeasonByID fetches a season by internal key, soft-deleted or not.
func (s *Service) GetSeasonByID(ctx context.Context, db DBorTx, id int64) (*Season, error) {
	return getRow[Season](ctx, db, `SELECT `+seasonColumns+` FROM seasons WHERE id = ?;`, id)
}

// GetSeason fetches a season by public identifier within scope.
func (s *Service) GetSeason(ctx context.Context, db DBorTx, publicID string, scope Scope) (*Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE public_id = ? AND ` + scope.where() + `;`
	return getRow[Season](ctx, db, query, publicID)
}

// ListSeasons returns every season in scope, most recent first.
func (s *Service) ListSeasons(ctx context.Context, db DBorTx, scope Scope) ([]Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE ` + scope.where() + ` ORDER BY start_date DESC, id;`
	return selectRows[Season](ctx, db, query)
}

// UpdateSeason overwrites every editable column of a season.
func (s *Service) UpdateSeason(ctx context.Context, db DBorTx, id int64, f SeasonFields) (*Season, error) {
	query := `UPDATE seasons SET name = ?, start_date = ?, end_date = ?, updated_at = ? WHERE id = ?;`
	if err := execOne(ctx, db, query, f.Name, f.StartDate.UTC(), f.EndDate.UTC(), s.Now(), id); err != nil {
		return nil, fmt.Errorf("update season: %w", err)
	}
	return s.GetSeasonByID(ctx, db, id)
}
