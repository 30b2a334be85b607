package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/scryptocybershield/sportsclub/internal/database"
	"github.com/scryptocybershield/sportsclub/internal/scoring"
)

// CompetitionPayload is the body of POST and PUT on competitions. Score is
// a medal table document such as
// {"results": {"sprints": {"gold": 2, "silver": 1, "bronze": 0}}}.
type CompetitionPayload struct {
	ActivityPayload
	Score json.RawMessage `json:"score"`
}

type CompetitionPatch struct {
	ActivityPatch
	Score Optional[json.RawMessage] `json:"score"`
}

// validateCompetition validates the payload and its score together and
// returns the canonical score document to store.
func (s *Server) validateCompetition(p CompetitionPayload) (sql.NullString, error) {
	verr := &ValidationError{}
	if err := s.validate(p); err != nil {
		if !errors.As(err, &verr) {
			return sql.NullString{}, err
		}
	}

	score, err := normalizeScore(p.Score)
	if err != nil {
		var scoreErr *scoring.Error
		if !errors.As(err, &scoreErr) {
			return sql.NullString{}, err
		}
		for path, msgs := range scoreErr.Problems {
			field := "score"
			if path != "" {
				field += "." + path
			}
			for _, msg := range msgs {
				verr.Add(field, msg)
			}
		}
	}

	if err := verr.orNil(); err != nil {
		return sql.NullString{}, err
	}
	return score, nil
}

func normalizeScore(raw json.RawMessage) (sql.NullString, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return sql.NullString{}, nil
	}
	canonical, err := scoring.Normalize(trimmed)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(canonical), Valid: true}, nil
}

func (s *Server) competitionResource() resource {
	return resource{
		table: database.Competitions,
		list: func(ctx context.Context, db database.DBorTx, scope database.Scope) (interface{}, error) {
			competitions, err := s.db.ListCompetitions(ctx, db, scope)
			if err != nil {
				return nil, err
			}
			return s.toCompetitionList(ctx, db, competitions)
		},
		detail: func(ctx context.Context, db database.DBorTx, publicID string, scope database.Scope) (interface{}, error) {
			competition, err := s.db.GetCompetition(ctx, db, publicID, scope)
			if err != nil {
				return nil, err
			}
			return s.toCompetitionResponse(ctx, db, competition)
		},
	}
}

// handleCreateCompetition creates a competition and its roster in one
// transaction.
func (s *Server) handleCreateCompetition(w http.ResponseWriter, r *http.Request) {
	var payload CompetitionPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	score, err := s.validateCompetition(payload)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *CompetitionResponse
	err = s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		activity, err := s.resolveActivity(r.Context(), tx, payload.ActivityPayload)
		if err != nil {
			return err
		}
		created, err := s.db.CreateCompetition(r.Context(), tx, database.CompetitionFields{ActivityFields: activity, Score: score})
		if err != nil {
			return err
		}
		err = s.replaceRoster(r.Context(), tx, database.CompetitionRoster, created.ID, payload.CoachPublicIDs, payload.AthletePublicIDs)
		if err != nil {
			return err
		}
		resp, err = s.toCompetitionResponse(r.Context(), tx, created)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Competitions, "create", resp.PublicID)
	s.writeJSON(w, http.StatusCreated, resp)
}

// handleReplaceCompetition overwrites a competition. Omitted venue, score
// and roster lists are cleared.
func (s *Server) handleReplaceCompetition(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var payload CompetitionPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	score, err := s.validateCompetition(payload)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *CompetitionResponse
	err = s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		id, err := s.db.LookupID(r.Context(), tx, database.Competitions, publicID, database.Active)
		if err != nil {
			return err
		}
		activity, err := s.resolveActivity(r.Context(), tx, payload.ActivityPayload)
		if err != nil {
			return err
		}
		updated, err := s.db.UpdateCompetition(r.Context(), tx, id, database.CompetitionFields{ActivityFields: activity, Score: score})
		if err != nil {
			return err
		}
		err = s.replaceRoster(r.Context(), tx, database.CompetitionRoster, id, payload.CoachPublicIDs, payload.AthletePublicIDs)
		if err != nil {
			return err
		}
		resp, err = s.toCompetitionResponse(r.Context(), tx, updated)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Competitions, "update", publicID)
	s.writeJSON(w, http.StatusOK, resp)
}

// handlePatchCompetition merges the supplied fields into a competition.
// Roster lists that are absent or null are left alone.
func (s *Server) handlePatchCompetition(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var patch CompetitionPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *CompetitionResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		existing, err := s.db.GetCompetition(r.Context(), tx, publicID, database.Active)
		if err != nil {
			return err
		}
		activity, err := s.activityPayloadFrom(r.Context(), tx, existing.ActivityFields)
		if err != nil {
			return err
		}
		payload := CompetitionPayload{ActivityPayload: activity}
		if existing.Score.Valid {
			payload.Score = json.RawMessage(existing.Score.String)
		}
		patch.ActivityPatch.applyTo(&payload.ActivityPayload)
		patch.Score.applyTo(&payload.Score)

		score, err := s.validateCompetition(payload)
		if err != nil {
			return err
		}
		fields, err := s.patchActivity(r.Context(), tx, patch.ActivityPatch, payload.ActivityPayload, existing.ActivityFields)
		if err != nil {
			return err
		}
		updated, err := s.db.UpdateCompetition(r.Context(), tx, existing.ID, database.CompetitionFields{ActivityFields: fields, Score: score})
		if err != nil {
			return err
		}
		if err := s.patchRoster(r.Context(), tx, database.CompetitionRoster, existing.ID, patch.ActivityPatch); err != nil {
			return err
		}
		resp, err = s.toCompetitionResponse(r.Context(), tx, updated)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Competitions, "patch", publicID)
	s.writeJSON(w, http.StatusOK, resp)
}
