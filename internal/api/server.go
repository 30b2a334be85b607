package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"

	"github.com/scryptocybershield/sportsclub/internal/config"
	"github.com/scryptocybershield/sportsclub/internal/database"
	"github.com/scryptocybershield/sportsclub/internal/metrics"
)

// Server is the main struct for the API. It holds all dependencies required
// by the HTTP handlers: the configuration, the database service, the
// metrics collectors and the payload validator.
type Server struct {
	config    *config.Config
	db        *database.Service
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewServer creates a Server wired to its dependencies.
func NewServer(cfg *config.Config, db *database.Service, m *metrics.Metrics) *Server {
	return &Server{
		config:    cfg,
		db:        db,
		metrics:   m,
		validator: newValidator(),
	}
}

// envelope is used for small ad-hoc JSON bodies such as errors.
type envelope map[string]interface{}

// writeJSON marshals data and writes it with the given status code and
// optional extra headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}, headers ...http.Header) {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		http.Error(w, "Internal Server Error: Failed to marshal JSON", http.StatusInternalServerError)
		return
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
}

// errorJSON sends `{"detail": "message"}` with the given status code
// (500 when none is given).
func (s *Server) errorJSON(w http.ResponseWriter, err error, status ...int) {
	statusCode := http.StatusInternalServerError
	if len(status) > 0 {
		statusCode = status[0]
	}
	s.writeJSON(w, statusCode, envelope{"detail": err.Error()})
}

// handleHealth reports whether the database answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("health check failed")
		s.writeJSON(w, http.StatusServiceUnavailable, envelope{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"status": "ok"})
}

// handleError maps an error from decoding, validation or the database onto
// the API's status codes. Unexpected errors are logged and hidden.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	var badReq *badRequestError
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusUnprocessableEntity, envelope{"detail": verr.Fields})
	case errors.As(err, &badReq):
		s.errorJSON(w, badReq, http.StatusBadRequest)
	case errors.Is(err, database.ErrNotFound):
		s.errorJSON(w, errors.New("Resource not found"), http.StatusNotFound)
	case errors.Is(err, database.ErrConflict):
		hlog.FromRequest(r).Info().Err(err).Msg("write rejected by uniqueness constraint")
		s.errorJSON(w, errors.New("A record with this data already exists."), http.StatusConflict)
	default:
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.errorJSON(w, errors.New("Internal server error"), http.StatusInternalServerError)
	}
}
