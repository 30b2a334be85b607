package database

import (
	"context"
	"fmt"
)

const (
	personColumns  = `id, public_id, first_name, last_name, email, phone, date_of_birth, address_id, created_at, updated_at, deleted_at`
	athleteColumns = personColumns + `, height, weight, jersey_number`
	coachColumns   = personColumns + `, certification`
)

// --- Athletes ---

// CreateAthlete inserts a new athlete. A duplicate email yields ErrConflict.
func (s *Service) CreateAthlete(ctx context.Context, db DBorTx, f AthleteFields) (*Athlete, error) {
	publicID, err := newPublicID()
	if err != nil {
		return nil, err
	}
	now := s.Now()

	query := `INSERT INTO athletes (public_id, first_name, last_name, email, phone, date_of_birth, address_id,
			height, weight, jersey_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	id, err := insert(ctx, db, query, publicID,
		f.FirstName, f.LastName, f.Email, f.Phone, f.DateOfBirth, f.AddressID,
		f.Height, f.Weight, f.JerseyNumber, now, now)
	if err != nil {
		return nil, fmt.Errorf("create athlete: %w", err)
	}
	return s.GetAthleteByID(ctx, db, id)
}

// GetAthleteByID fetches an athlete by internal key, soft-deleted or not.
func (s *Service) GetAthleteByID(ctx context.Context, db DBorTx, id int64) (*Athlete, error) {
	return getRow[Athlete](ctx, db, `SELECT `+athleteColumns+` FROM athletes WHERE id = ?;`, id)
}

// GetAthlete fetches an athlete by public identifier within scope.
func (s *Service) GetAthlete(ctx context.Context, db DBorTx, publicID string, scope Scope) (*Athlete, error) {
	query := `SELECT ` + athleteColumns + ` FROM athletes WHERE public_id = ? AND ` + scope.where() + `;`
	return getRow[Athlete](ctx, db, query, publicID)
}

// ListAthletes returns every athlete in scope.
func (s *Service) ListAthletes(ctx context.Context, db DBorTx, scope Scope) ([]Athlete, error) {
	query := `SELECT ` + athleteColumns + ` FROM athletes WHERE ` + scope.where() + ` ORDER BY id;`
	return selectRows[Athlete](ctx, db, query)
}

// UpdateAthlete overwrites every editable column of an athlete.
func (s *Service) UpdateAthlete(ctx context.Context, db DBorTx, id int64, f AthleteFields) (*Athlete, error) {
	query := `UPDATE athletes SET first_name = ?, last_name = ?, email = ?, phone = ?, date_of_birth = ?, address_id = ?,
			height = ?, weight = ?, jersey_number = ?, updated_at = ?
		WHERE id = ?;`
	err := execOne(ctx, db, query,
		f.FirstName, f.LastName, f.Email, f.Phone, f.DateOfBirth, f.AddressID,
		f.Height, f.Weight, f.JerseyNumber, s.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("update athlete: %w", err)
	}
	return s.GetAthleteByID(ctx, db, id)
}

// ResolveAthleteIDs maps public identifiers to active athletes. Unknown
// identifiers are dropped.
func (s *Service) ResolveAthleteIDs(ctx context.Context, db DBorTx, publicIDs []string) ([]int64, error) {
	return s.resolveIDs(ctx, db, Athletes, publicIDs)
}

// --- Coaches ---

// CreateCoach inserts a new coach. A duplicate email yields ErrConflict.
func (s *Service) CreateCoach(ctx context.Context, db DBorTx, f CoachFields) (*Coach, error) {
	publicID, err := newPublicID()
	if err != nil {
		return nil, err
	}
	now := s.Now()

	query := `INSERT INTO coaches (public_id, first_name, last_name, email, phone, date_of_birth, address_id,
			certification, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	id, err := insert(ctx, db, query, publicID,
		f.FirstName, f.LastName, f.Email, f.Phone, f.DateOfBirth, f.AddressID,
		f.Certification, now, now)
	if err != nil {
		return nil, fmt.Errorf("create coach: %w", err)
	}
	return s.GetCoachByID(ctx, db, id)
}

// GetCoachByID fetches a coach by internal key, soft-deleted or not.
func (s *Service) GetCoachByID(ctx context.Context, db DBorTx, id int64) (*Coach, error) {
	return getRow[Coach](ctx, db, `SELECT `+coachColumns+` FROM coaches WHERE id = ?;`, id)
}

// GetCoach fetches a coach by public identifier within scope.
func (s *Service) GetCoach(ctx context.Context, db DBorTx, publicID string, scope Scope) (*Coach, error) {
	query := `SELECT ` + coachColumns + ` FROM coaches WHERE public_id = ? AND ` + scope.where() + `;`
	return getRow[Coach](ctx, db, query, publicID)
}

// ListCoaches returns every coach in scope.
func (s *Service) ListCoaches(ctx context.Context, db DBorTx, scope Scope) ([]Coach, error) {
	query := `SELECT ` + coachColumns + ` FROM coaches WHERE ` + scope.where() + ` ORDER BY id;`
	return selectRows[Coach](ctx, db, query)
}

// UpdateCoach overwrites every editable column of a coach.
func (s *Service) UpdateCoach(ctx context.Context, db DBorTx, id int64, f CoachFields) (*Coach, error) {
	query := `UPDATE coaches SET first_name = ?, last_name = ?, email = ?, phone = ?, date_of_birth = ?, address_id = ?,
			certification = ?, updated_at = ?
		WHERE id = ?;`
	err := execOne(ctx, db, query,
		f.FirstName, f.LastName, f.Email, f.Phone, f.DateOfBirth, f.AddressID,
		f.Certification, s.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("update coach: %w", err)
	}
	return s.GetCoachByID(ctx, db, id)
}

// ResolveCoachIDs maps public identifiers to active coaches. Unknown
// identifiers are dropped.
func (s *Service) ResolveCoachIDs(ctx context.Context, db DBorTx, publicIDs []string) ([]int64, error) {
	return s.resolveIDs(ctx, db, Coaches, publicIDs)
}
