package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/scryptocybershield/sportsclub/internal/database"
)

type TrainingPayload struct {
	ActivityPayload
	Focus string `json:"focus" validate:"max=255"`
}

type TrainingPatch struct {
	ActivityPatch
	Focus Optional[string] `json:"focus"`
}

func (s *Server) trainingResource() resource {
	return resource{
		table: database.Trainings,
		list: func(ctx context.Context, db database.DBorTx, scope database.Scope) (interface{}, error) {
			trainings, err := s.db.ListTrainings(ctx, db, scope)
			if err != nil {
				return nil, err
			}
			return s.toTrainingList(ctx, db, trainings)
		},
		detail: func(ctx context.Context, db database.DBorTx, publicID string, scope database.Scope) (interface{}, error) {
			training, err := s.db.GetTraining(ctx, db, publicID, scope)
			if err != nil {
				return nil, err
			}
			return s.toTrainingResponse(ctx, db, training)
		},
	}
}

func (s *Server) handleCreateTraining(w http.ResponseWriter, r *http.Request) {
	var payload TrainingPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(payload); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *TrainingResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		activity, err := s.resolveActivity(r.Context(), tx, payload.ActivityPayload)
		if err != nil {
			return err
		}
		created, err := s.db.CreateTraining(r.Context(), tx, database.TrainingFields{ActivityFields: activity, Focus: payload.Focus})
		if err != nil {
			return err
		}
		err = s.replaceRoster(r.Context(), tx, database.TrainingRoster, created.ID, payload.CoachPublicIDs, payload.AthletePublicIDs)
		if err != nil {
			return err
		}
		resp, err = s.toTrainingResponse(r.Context(), tx, created)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Trainings, "create", resp.PublicID)
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleReplaceTraining(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var payload TrainingPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(payload); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *TrainingResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		id, err := s.db.LookupID(r.Context(), tx, database.Trainings, publicID, database.Active)
		if err != nil {
			return err
		}
		activity, err := s.resolveActivity(r.Context(), tx, payload.ActivityPayload)
		if err != nil {
			return err
		}
		updated, err := s.db.UpdateTraining(r.Context(), tx, id, database.TrainingFields{ActivityFields: activity, Focus: payload.Focus})
		if err != nil {
			return err
		}
		err = s.replaceRoster(r.Context(), tx, database.TrainingRoster, id, payload.CoachPublicIDs, payload.AthletePublicIDs)
		if err != nil {
			return err
		}
		resp, err = s.toTrainingResponse(r.Context(), tx, updated)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Trainings, "update", publicID)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePatchTraining(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var patch TrainingPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *TrainingResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		existing, err := s.db.GetTraining(r.Context(), tx, publicID, database.Active)
		if err != nil {
			return err
		}
		activity, err := s.activityPayloadFrom(r.Context(), tx, existing.ActivityFields)
		if err != nil {
			return err
		}
		payload := TrainingPayload{ActivityPayload: activity, Focus: existing.Focus}
		patch.ActivityPatch.applyTo(&payload.ActivityPayload)
		patch.Focus.applyTo(&payload.Focus)
		if err := s.validate(payload); err != nil {
			return err
		}

		fields, err := s.patchActivity(r.Context(), tx, patch.ActivityPatch, payload.ActivityPayload, existing.ActivityFields)
		if err != nil {
			return err
		}
		updated, err := s.db.UpdateTraining(r.Context(), tx, existing.ID, database.TrainingFields{ActivityFields: fields, Focus: payload.Focus})
		if err != nil {
			return err
		}
		if err := s.patchRoster(r.Context(), tx, database.TrainingRoster, existing.ID, patch.ActivityPatch); err != nil {
			return err
		}
		resp, err = s.toTrainingResponse(r.Context(), tx, updated)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Trainings, "patch", publicID)
	s.writeJSON(w, http.StatusOK, resp)
}
