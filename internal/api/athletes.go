package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/scryptocybershield/sportsclub/internal/database"
)

// AthletePayload is the body of POST and PUT on athletes. Height is in
// centimetres and weight in kilograms; both must be positive when given.
type AthletePayload struct {
	PersonPayload
	Height       *float64 `json:"height" validate:"omitnil,gt=0"`
	Weight       *float64 `json:"weight" validate:"omitnil,gt=0"`
	JerseyNumber *int64   `json:"jersey_number"`
}

type AthletePatch struct {
	PersonPatch
	Height       Optional[float64] `json:"height"`
	Weight       Optional[float64] `json:"weight"`
	JerseyNumber Optional[int64]   `json:"jersey_number"`
}

func (p AthletePayload) fields() database.AthleteFields {
	return database.AthleteFields{
		PersonFields: p.PersonPayload.fields(),
		Height:       nullFloat64(p.Height),
		Weight:       nullFloat64(p.Weight),
		JerseyNumber: nullInt64(p.JerseyNumber),
	}
}

func athletePayloadFrom(a *database.Athlete) AthletePayload {
	return AthletePayload{
		PersonPayload: personPayloadFrom(a.PersonFields),
		Height:        float64Ptr(a.Height),
		Weight:        float64Ptr(a.Weight),
		JerseyNumber:  int64Ptr(a.JerseyNumber),
	}
}

func (p AthletePatch) applyTo(dst *AthletePayload) {
	p.PersonPatch.applyTo(&dst.PersonPayload)
	p.Height.applyToPtr(&dst.Height)
	p.Weight.applyToPtr(&dst.Weight)
	p.JerseyNumber.applyToPtr(&dst.JerseyNumber)
}

func (s *Server) athleteResource() resource {
	return resource{
		table: database.Athletes,
		list: func(ctx context.Context, db database.DBorTx, scope database.Scope) (interface{}, error) {
			athletes, err := s.db.ListAthletes(ctx, db, scope)
			if err != nil {
				return nil, err
			}
			return toAthleteList(athletes), nil
		},
		detail: func(ctx context.Context, db database.DBorTx, publicID string, scope database.Scope) (interface{}, error) {
			athlete, err := s.db.GetAthlete(ctx, db, publicID, scope)
			if err != nil {
				return nil, err
			}
			return s.toAthleteResponse(ctx, db, athlete)
		},
	}
}

// handleCreateAthlete creates an athlete. A duplicate email is a 409.
func (s *Server) handleCreateAthlete(w http.ResponseWriter, r *http.Request) {
	var payload AthletePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(payload); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *AthleteResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		fields := payload.fields()
		var err error
		if fields.AddressID, err = s.lookupRef(r.Context(), tx, database.Addresses, payload.AddressPublicID); err != nil {
			return err
		}
		created, err := s.db.CreateAthlete(r.Context(), tx, fields)
		if err != nil {
			return err
		}
		resp, err = s.toAthleteResponse(r.Context(), tx, created)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Athletes, "create", resp.PublicID)
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleReplaceAthlete(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var payload AthletePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(payload); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *AthleteResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		id, err := s.db.LookupID(r.Context(), tx, database.Athletes, publicID, database.Active)
		if err != nil {
			return err
		}
		fields := payload.fields()
		if fields.AddressID, err = s.lookupRef(r.Context(), tx, database.Addresses, payload.AddressPublicID); err != nil {
			return err
		}
		updated, err := s.db.UpdateAthlete(r.Context(), tx, id, fields)
		if err != nil {
			return err
		}
		resp, err = s.toAthleteResponse(r.Context(), tx, updated)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Athletes, "update", publicID)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePatchAthlete(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var patch AthletePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *AthleteResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		existing, err := s.db.GetAthlete(r.Context(), tx, publicID, database.Active)
		if err != nil {
			return err
		}
		payload := athletePayloadFrom(existing)
		patch.applyTo(&payload)
		if err := s.validate(payload); err != nil {
			return err
		}

		fields := payload.fields()
		if fields.AddressID, err = s.patchRef(r.Context(), tx, database.Addresses, patch.AddressPublicID, existing.AddressID); err != nil {
			return err
		}
		updated, err := s.db.UpdateAthlete(r.Context(), tx, existing.ID, fields)
		if err != nil {
			return err
		}
		resp, err = s.toAthleteResponse(r.Context(), tx, updated)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Athletes, "patch", publicID)
	s.writeJSON(w, http.StatusOK, resp)
}
