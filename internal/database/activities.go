package database

import (
	"context"
	"fmt"
)

const (
	activityColumns    = `id, public_id, name, date, venue_id, season_id, created_at, updated_at, deleted_at`
	competitionColumns = activityColumns + `, score`
	trainingColumns    = activityColumns + `, focus`
)

// Roster identifies the coach and athlete join tables of an activity kind.
type Roster struct {
	coaches  string
	athletes string
}

var (
	CompetitionRoster = Roster{coaches: "competition_coaches", athletes: "competition_athletes"}
	TrainingRoster    = Roster{coaches: "training_coaches", athletes: "training_athletes"}
)

// SetCoaches replaces the coaches of an activity with coachIDs.
func (s *Service) SetCoaches(ctx context.Context, db DBorTx, r Roster, activityID int64, coachIDs []int64) error {
	return s.setMembers(ctx, db, r.coaches, "coach_id", activityID, coachIDs)
}

// SetAthletes replaces the athletes of an activity with athleteIDs.
func (s *Service) SetAthletes(ctx context.Context, db DBorTx, r Roster, activityID int64, athleteIDs []int64) error {
	return s.setMembers(ctx, db, r.athletes, "athlete_id", activityID, athleteIDs)
}

func (s *Service) setMembers(ctx context.Context, db DBorTx, table, column string, activityID int64, ids []int64) error {
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE activity_id = ?;`, table), activityID); err != nil {
		return fmt.Errorf("clear %s: %w", table, classify(err))
	}
	query := fmt.Sprintf(`INSERT OR IGNORE INTO %s (activity_id, %s) VALUES (?, ?);`, table, column)
	for _, id := range ids {
		if _, err := db.ExecContext(ctx, query, activityID, id); err != nil {
			return fmt.Errorf("add to %s: %w", table, classify(err))
		}
	}
	return nil
}

// RosterCoaches returns the active coaches attached to an activity.
func (s *Service) RosterCoaches(ctx context.Context, db DBorTx, r Roster, activityID int64) ([]Coach, error) {
	query := fmt.Sprintf(`SELECT %s FROM coaches
		WHERE deleted_at IS NULL AND id IN (SELECT coach_id FROM %s WHERE activity_id = ?)
		ORDER BY id;`, coachColumns, r.coaches)
	return selectRows[Coach](ctx, db, query, activityID)
}

// RosterAthletes returns the active athletes attached to an activity.
func (s *Service) RosterAthletes(ctx context.Context, db DBorTx, r Roster, activityID int64) ([]Athlete, error) {
	query := fmt.Sprintf(`SELECT %s FROM athletes
		WHERE deleted_at IS NULL AND id IN (SELECT athlete_id FROM %s WHERE activity_id = ?)
		ORDER BY id;`, athleteColumns, r.athletes)
	return selectRows[Athlete](ctx, db, query, activityID)
}

// --- Competitions ---

// CreateCompetition inserts a new competition. Its roster is set separately.
func (s *Service) CreateCompetition(ctx context.Context, db DBorTx, f CompetitionFields) (*Competition, error) {
	publicID, err := newPublicID()
	if err != nil {
		return nil, err
	}
	now := s.Now()

	query := `INSERT INTO competitions (public_id, name, date, venue_id, season_id, score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);`
	id, err := insert(ctx, db, query, publicID, f.Name, f.Date.UTC(), f.VenueID, f.SeasonID, f.Score, now, now)
	if err != nil {
		return nil, fmt.Errorf("create competition: %w", err)
	}
	return s.GetCompetitionByID(ctx, db, id)
}

// GetCompetitionByID fetches a competition by internal key, soft-deleted or not.
func (s *Service) GetCompetitionByID(ctx context.Context, db DBorTx, id int64) (*Competition, error) {
	return getRow[Competition](ctx, db, `SELECT `+competitionColumns+` FROM competitions WHERE id = ?;`, id)
}

// GetCompetition fetches a competition by public identifier within scope.
func (s *Service) GetCompetition(ctx context.Context, db DBorTx, publicID string, scope Scope) (*Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE public_id = ? AND ` + scope.where() + `;`
	return getRow[Competition](ctx, db, query, publicID)
}

// ListCompetitions returns every competition in scope, latest first.
func (s *Service) ListCompetitions(ctx context.Context, db DBorTx, scope Scope) ([]Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE ` + scope.where() + ` ORDER BY date DESC, id;`
	return selectRows[Competition](ctx, db, query)
}

// UpdateCompetition overwrites every editable column of a competition.
func (s *Service) UpdateCompetition(ctx context.Context, db DBorTx, id int64, f CompetitionFields) (*Competition, error) {
	query := `UPDATE competitions SET name = ?, date = ?, venue_id = ?, season_id = ?, score = ?, updated_at = ?
		WHERE id = ?;`
	if err := execOne(ctx, db, query, f.Name, f.Date.UTC(), f.VenueID, f.SeasonID, f.Score, s.Now(), id); err != nil {
		return nil, fmt.Errorf("update competition: %w", err)
	}
	return s.GetCompetitionByID(ctx, db, id)
}

// --- Trainings ---

// CreateTraining inserts a new training session. Its roster is set separately.
func (s *Service) CreateTraining(ctx context.Context, db DBorTx, f TrainingFields) (*Training, error) {
	publicID, err := newPublicID()
	if err != nil {
		return nil, err
	}
	now := s.Now()

	query := `INSERT INTO trainings (public_id, name, date, venue_id, season_id, focus, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);`
	id, err := insert(ctx, db, query, publicID, f.Name, f.Date.UTC(), f.VenueID, f.SeasonID, f.Focus, now, now)
	if err != nil {
		return nil, fmt.Errorf("create training: %w", err)
	}
	return s.GetTrainingByID(ctx, db, id)
}

// GetTrainingByID fetches a training by internal key, soft-deleted or not.
func (s *Service) GetTrainingByID(ctx context.Context, db DBorTx, id int64) (*Training, error) {
	return getRow[Training](ctx, db, `SELECT `+trainingColumns+` FROM trainings WHERE id = ?;`, id)
}

// GetTraining fetches a training by public identifier within scope.
func (s *Service) GetTraining(ctx context.Context, db DBorTx, publicID string, scope Scope) (*Training, error) {
	query := `SELECT ` + trainingColumns + ` FROM trainings WHERE public_id = ? AND ` + scope.where() + `;`
	return getRow[Training](ctx, db, query, publicID)
}

// ListTrainings returns every training in scope, latest first.
func (s *Service) ListTrainings(ctx context.Context, db DBorTx, scope Scope) ([]Training, error) {
	query := `SELECT ` + trainingColumns + ` FROM trainings WHERE ` + scope.where() + ` ORDER BY date DESC, id;`
	return selectRows[Training](ctx, db, query)
}

// UpdateTraining overwrites every editable column of a training.
func (s *Service) UpdateTraining(ctx context.Context, db DBorTx, id int64, f TrainingFields) (*Training, error) {
	query := `UPDATE trainings SET name = ?, date = ?, venue_id = ?, season_id = ?, focus = ?, updated_at = ?
		WHERE id = ?;`
	if err := execOne(ctx, db, query, f.Name, f.Date.UTC(), f.VenueID, f.SeasonID, f.Focus, s.Now(), id); err != nil {
		return nil, fmt.Errorf("update training: %w", err)
	}
	return s.GetTrainingByID(ctx, db, id)
}
