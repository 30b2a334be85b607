package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/scryptocybershield/sportsclub/internal/database"
)

type CoachPayload struct {
	PersonPayload
	Certification *database.Certification `json:"certification" validate:"omitnil,certification"`
}

type CoachPatch struct {
	PersonPatch
	Certification Optional[database.Certification] `json:"certification"`
}

func (p CoachPayload) fields() database.CoachFields {
	f := database.CoachFields{PersonFields: p.PersonPayload.fields()}
	if p.Certification != nil {
		f.Certification = sql.NullString{String: string(*p.Certification), Valid: true}
	}
	return f
}

func coachPayloadFrom(c *database.Coach) CoachPayload {
	p := CoachPayload{PersonPayload: personPayloadFrom(c.PersonFields)}
	if c.Certification.Valid {
		cert := database.Certification(c.Certification.String)
		p.Certification = &cert
	}
	return p
}

func (p CoachPatch) applyTo(dst *CoachPayload) {
	p.PersonPatch.applyTo(&dst.PersonPayload)
	p.Certification.applyToPtr(&dst.Certification)
}

func (s *Server) coachResource() resource {
	return resource{
		table: database.Coaches,
		list: func(ctx context.Context, db database.DBorTx, scope database.Scope) (interface{}, error) {
			coaches, err := s.db.ListCoaches(ctx, db, scope)
			if err != nil {
				return nil, err
			}
			return toCoachList(coaches), nil
		},
		detail: func(ctx context.Context, db database.DBorTx, publicID string, scope database.Scope) (interface{}, error) {
			coach, err := s.db.GetCoach(ctx, db, publicID, scope)
			if err != nil {
				return nil, err
			}
			return s.toCoachResponse(ctx, db, coach)
		},
	}
}

func (s *Server) handleCreateCoach(w http.ResponseWriter, r *http.Request) {
	var payload CoachPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(payload); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *CoachResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		fields := payload.fields()
		var err error
		if fields.AddressID, err = s.lookupRef(r.Context(), tx, database.Addresses, payload.AddressPublicID); err != nil {
			return err
		}
		created, err := s.db.CreateCoach(r.Context(), tx, fields)
		if err != nil {
			return err
		}
		resp, err = s.toCoachResponse(r.Context(), tx, created)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Coaches, "create", resp.PublicID)
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleReplaceCoach(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var payload CoachPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(payload); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *CoachResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		id, err := s.db.LookupID(r.Context(), tx, database.Coaches, publicID, database.Active)
		if err != nil {
			return err
		}
		fields := payload.fields()
		if fields.AddressID, err = s.lookupRef(r.Context(), tx, database.Addresses, payload.AddressPublicID); err != nil {
			return err
		}
		updated, err := s.db.UpdateCoach(r.Context(), tx, id, fields)
		if err != nil {
			return err
		}
		resp, err = s.toCoachResponse(r.Context(), tx, updated)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Coaches, "update", publicID)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePatchCoach(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var patch CoachPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *CoachResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		existing, err := s.db.GetCoach(r.Context(), tx, publicID, database.Active)
		if err != nil {
			return err
		}
		payload := coachPayloadFrom(existing)
		patch.applyTo(&payload)
		if err := s.validate(payload); err != nil {
			return err
		}

		fields := payload.fields()
		if fields.AddressID, err = s.patchRef(r.Context(), tx, database.Addresses, patch.AddressPublicID, existing.AddressID); err != nil {
			return err
		}
		updated, err := s.db.UpdateCoach(r.Context(), tx, existing.ID, fields)
		if err != nil {
			return err
		}
		resp, err = s.toCoachResponse(r.Context(), tx, updated)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Coaches, "patch", publicID)
	s.writeJSON(w, http.StatusOK, resp)
}
