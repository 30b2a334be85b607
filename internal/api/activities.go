package api

import (
	"context"

	"github.com/scryptocybershield/sportsclub/internal/database"
)

// ActivityPayload holds the fields competitions and trainings share.
// Coach and athlete identifiers that match no active row are dropped.
type ActivityPayload struct {
	Name             string     `json:"name" validate:"required,max=255"`
	Date             *Timestamp `json:"date" validate:"required"`
	VenuePublicID    *string    `json:"venue_public_id"`
	SeasonPublicID   string     `json:"season_public_id" validate:"required"`
	CoachPublicIDs   []string   `json:"coach_public_ids"`
	AthletePublicIDs []string   `json:"athlete_public_ids"`
}

// ActivityPatch is the shared part of PATCH bodies. A null or absent
// roster list leaves the roster unchanged.
type ActivityPatch struct {
	Name             Optional[string]    `json:"name"`
	Date             Optional[Timestamp] `json:"date"`
	VenuePublicID    Optional[string]    `json:"venue_public_id"`
	SeasonPublicID   Optional[string]    `json:"season_public_id"`
	CoachPublicIDs   Optional[[]string]  `json:"coach_public_ids"`
	AthletePublicIDs Optional[[]string]  `json:"athlete_public_ids"`
}

// activityPayloadFrom copies the scalar columns of an activity. The venue
// and roster are left to the patch.
func (s *Server) activityPayloadFrom(ctx context.Context, db database.DBorTx, f database.ActivityFields) (ActivityPayload, error) {
	season, err := s.db.GetSeasonByID(ctx, db, f.SeasonID)
	if err != nil {
		return ActivityPayload{}, err
	}
	return ActivityPayload{
		Name:           f.Name,
		Date:           &Timestamp{f.Date},
		SeasonPublicID: season.PublicID,
	}, nil
}

func (p ActivityPatch) applyTo(dst *ActivityPayload) {
	p.Name.applyTo(&dst.Name)
	p.Date.applyToPtr(&dst.Date)
	// A season cannot be cleared; null leaves it as it is.
	if p.SeasonPublicID.HasValue() {
		dst.SeasonPublicID = p.SeasonPublicID.Value
	}
}

// resolveActivity turns a validated payload into columns. The season must
// be active; a missing venue reference means none.
func (s *Server) resolveActivity(ctx context.Context, db database.DBorTx, p ActivityPayload) (database.ActivityFields, error) {
	f := database.ActivityFields{Name: p.Name, Date: p.Date.Time.UTC()}

	seasonID, err := s.db.LookupID(ctx, db, database.Seasons, p.SeasonPublicID, database.Active)
	if err != nil {
		return f, err
	}
	f.SeasonID = seasonID

	if f.VenueID, err = s.lookupRef(ctx, db, database.Venues, p.VenuePublicID); err != nil {
		return f, err
	}
	return f, nil
}

// patchActivity resolves the merged payload of a PATCH against the
// existing row. The season is only looked up again when the patch names
// one, so an activity whose season was soft-deleted can still be edited.
func (s *Server) patchActivity(ctx context.Context, db database.DBorTx, patch ActivityPatch, p ActivityPayload, existing database.ActivityFields) (database.ActivityFields, error) {
	f := database.ActivityFields{
		Name:     p.Name,
		Date:     p.Date.Time.UTC(),
		SeasonID: existing.SeasonID,
	}

	var err error
	if patch.SeasonPublicID.HasValue() {
		if f.SeasonID, err = s.db.LookupID(ctx, db, database.Seasons, p.SeasonPublicID, database.Active); err != nil {
			return f, err
		}
	}
	if f.VenueID, err = s.patchRef(ctx, db, database.Venues, patch.VenuePublicID, existing.VenueID); err != nil {
		return f, err
	}
	return f, nil
}

// replaceRoster sets both member lists of an activity. Used by POST and
// PUT, where an omitted list empties the roster.
func (s *Server) replaceRoster(ctx context.Context, db database.DBorTx, roster database.Roster, activityID int64, coachIDs, athleteIDs []string) error {
	coaches, err := s.db.ResolveCoachIDs(ctx, db, coachIDs)
	if err != nil {
		return err
	}
	if err := s.db.SetCoaches(ctx, db, roster, activityID, coaches); err != nil {
		return err
	}

	athletes, err := s.db.ResolveAthleteIDs(ctx, db, athleteIDs)
	if err != nil {
		return err
	}
	return s.db.SetAthletes(ctx, db, roster, activityID, athletes)
}

// patchRoster only touches the lists the patch carries a value for.
func (s *Server) patchRoster(ctx context.Context, db database.DBorTx, roster database.Roster, activityID int64, patch ActivityPatch) error {
	if patch.CoachPublicIDs.HasValue() {
		coaches, err := s.db.ResolveCoachIDs(ctx, db, patch.CoachPublicIDs.Value)
		if err != nil {
			return err
		}
		if err := s.db.SetCoaches(ctx, db, roster, activityID, coaches); err != nil {
			return err
		}
	}
	if patch.AthletePublicIDs.HasValue() {
		athletes, err := s.db.ResolveAthleteIDs(ctx, db, patch.AthletePublicIDs.Value)
		if err != nil {
			return err
		}
		if err := s.db.SetAthletes(ctx, db, roster, activityID, athletes); err != nil {
			return err
		}
	}
	return nil
}
