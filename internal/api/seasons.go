package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/scryptocybershield/sportsclub/internal/database"
)

// SeasonPayload is the body of POST and PUT on seasons. The dates are not
// checked against each other.
type SeasonPayload struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartDate *Date  `json:"start_date" validate:"required"`
	EndDate   *Date  `json:"end_date" validate:"required"`
}

type SeasonPatch struct {
	Name      Optional[string] `json:"name"`
	StartDate Optional[Date]   `json:"start_date"`
	EndDate   Optional[Date]   `json:"end_date"`
}

// fields must only be called on a validated payload.
func (p SeasonPayload) fields() database.SeasonFields {
	return database.SeasonFields{
		Name:      p.Name,
		StartDate: p.StartDate.Time,
		EndDate:   p.EndDate.Time,
	}
}

func seasonPayloadFrom(season *database.Season) SeasonPayload {
	start, end := NewDate(season.StartDate), NewDate(season.EndDate)
	return SeasonPayload{Name: season.Name, StartDate: &start, EndDate: &end}
}

func (p SeasonPatch) applyTo(dst *SeasonPayload) {
	p.Name.applyTo(&dst.Name)
	p.StartDate.applyToPtr(&dst.StartDate)
	p.EndDate.applyToPtr(&dst.EndDate)
}

func (s *Server) seasonResource() resource {
	return resource{
		table: database.Seasons,
		list: func(ctx context.Context, db database.DBorTx, scope database.Scope) (interface{}, error) {
			seasons, err := s.db.ListSeasons(ctx, db, scope)
			if err != nil {
				return nil, err
			}
			return toSeasonList(seasons), nil
		},
		detail: func(ctx context.Context, db database.DBorTx, publicID string, scope database.Scope) (interface{}, error) {
			season, err := s.db.GetSeason(ctx, db, publicID, scope)
			if err != nil {
				return nil, err
			}
			return toSeasonResponse(season), nil
		},
	}
}

func (s *Server) handleCreateSeason(w http.ResponseWriter, r *http.Request) {
	var payload SeasonPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(payload); err != nil {
		s.handleError(w, r, err)
		return
	}

	var created *database.Season
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		created, err = s.db.CreateSeason(r.Context(), tx, payload.fields())
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Seasons, "create", created.PublicID)
	s.writeJSON(w, http.StatusCreated, toSeasonResponse(created))
}

func (s *Server) handleReplaceSeason(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var payload SeasonPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(payload); err != nil {
		s.handleError(w, r, err)
		return
	}

	var updated *database.Season
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		id, err := s.db.LookupID(r.Context(), tx, database.Seasons, publicID, database.Active)
		if err != nil {
			return err
		}
		updated, err = s.db.UpdateSeason(r.Context(), tx, id, payload.fields())
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Seasons, "update", publicID)
	s.writeJSON(w, http.StatusOK, toSeasonResponse(updated))
}

func (s *Server) handlePatchSeason(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var patch SeasonPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.handleError(w, r, err)
		return
	}

	var updated *database.Season
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		existing, err := s.db.GetSeason(r.Context(), tx, publicID, database.Active)
		if err != nil {
			return err
		}
		payload := seasonPayloadFrom(existing)
		patch.applyTo(&payload)
		if err := s.validate(payload); err != nil {
			return err
		}
		updated, err = s.db.UpdateSeason(r.Context(), tx, existing.ID, payload.fields())
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Seasons, "patch", publicID)
	s.writeJSON(w, http.StatusOK, toSeasonResponse(updated))
}
