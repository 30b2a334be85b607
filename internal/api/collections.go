package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/hlog"

	"github.com/scryptocybershield/sportsclub/internal/database"
)

// resource binds a collection's table to its read views. list renders the
// reduced shape of every row in scope; detail renders the full shape of a
// single row.
type resource struct {
	table  database.Table
	list   func(ctx context.Context, db database.DBorTx, scope database.Scope) (interface{}, error)
	detail func(ctx context.Context, db database.DBorTx, publicID string, scope database.Scope) (interface{}, error)
}

// listScope reads ?include_deleted=true.
func listScope(r *http.Request) (database.Scope, error) {
	raw := r.URL.Query().Get("include_deleted")
	if raw == "" {
		return database.Active, nil
	}
	include, err := strconv.ParseBool(raw)
	if err != nil {
		verr := &ValidationError{}
		verr.Add("include_deleted", "value could not be parsed to a boolean")
		return database.Active, verr
	}
	if include {
		return database.All, nil
	}
	return database.Active, nil
}

func (s *Server) handleList(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := listScope(r)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		list, err := res.list(r.Context(), s.db.DB(), scope)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) handleListDeleted(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := res.list(r.Context(), s.db.DB(), database.Deleted)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) handleGet(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := res.detail(r.Context(), s.db.DB(), chi.URLParam(r, "publicID"), database.Active)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, resp)
	}
}

// handleDelete permanently removes an active row. References to it are
// cleared or cascaded by the table's delete policy.
func (s *Server) handleDelete(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		publicID := chi.URLParam(r, "publicID")

		var result *database.DeleteResult
		err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
			var err error
			result, err = s.db.Delete(r.Context(), tx, res.table, publicID)
			return err
		})
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		event := hlog.FromRequest(r).Info().
			Str("table", string(res.table)).
			Str("public_id", publicID).
			Str("actor", actor(r)).
			Str("policy", string(result.Policy))
		for table, n := range result.Dependents {
			event = event.Int64(string(table), n)
		}
		event.Msg("record deleted")
		s.metrics.RecordWrite(string(res.table), "delete")

		w.WriteHeader(http.StatusNoContent)
	}
}

// handleSoftDelete marks a row deleted and returns its full view, which now
// carries deleted_at.
func (s *Server) handleSoftDelete(res resource) http.HandlerFunc {
	return s.auditTransition(res, "soft_delete", s.db.SoftDelete)
}

// handleRestore clears the soft-delete marker of a row.
func (s *Server) handleRestore(res resource) http.HandlerFunc {
	return s.auditTransition(res, "restore", s.db.Restore)
}

type auditFunc func(ctx context.Context, db database.DBorTx, t database.Table, publicID string) error

func (s *Server) auditTransition(res resource, op string, apply auditFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		publicID := chi.URLParam(r, "publicID")

		var resp interface{}
		err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
			if err := apply(r.Context(), tx, res.table, publicID); err != nil {
				return err
			}
			var err error
			resp, err = res.detail(r.Context(), tx, publicID, database.All)
			return err
		})
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		s.logWrite(r, res.table, op, publicID)
		s.writeJSON(w, http.StatusOK, resp)
	}
}

// logWrite records a committed write in the access log and the metrics.
func (s *Server) logWrite(r *http.Request, table database.Table, op, publicID string) {
	hlog.FromRequest(r).Info().
		Str("table", string(table)).
		Str("op", op).
		Str("public_id", publicID).
		Str("actor", actor(r)).
		Msg("record written")
	s.metrics.RecordWrite(string(table), op)
}

// actor names the owner of the API key behind the request.
func actor(r *http.Request) string {
	if key, ok := apiKeyFromContext(r.Context()); ok {
		return key.Owner
	}
	return "anonymous"
}
