package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/scryptocybershield/sportsclub/internal/auth"
)

// RegisterRoutes sets up all the API endpoints and middleware for the application.
func (s *Server) RegisterRoutes(r *chi.Mux) {
	// --- Global Middleware (Applied to ALL routes) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.RequestIDHandler("request_id", "X-Request-Id"))
	r.Use(accessLog)
	r.Use(middleware.Recoverer) // Recovers from panics and returns a 500 error
	r.Use(s.metricsMiddleware)

	// --- Operational endpoints, never authenticated ---
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	// --- REST API Group with CORS ---
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", auth.HeaderName},
			AllowCredentials: true,
			MaxAge:           300, // How long the browser can cache preflight results
		}))
		if s.config.RateLimitRPS > 0 {
			r.Use(s.rateLimitMiddleware)
		}

		// Every collection requires a valid API key.
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Route("/core", func(r chi.Router) {
				s.mountCollection(r, "/addresses", s.addressResource(),
					s.handleCreateAddress, s.handleReplaceAddress, s.handlePatchAddress,
					func(r chi.Router) {
						r.Get("/orphaned", s.handleListOrphanedAddresses)
					})
			})

			r.Route("/inventory", func(r chi.Router) {
				s.mountCollection(r, "/venues", s.venueResource(),
					s.handleCreateVenue, s.handleReplaceVenue, s.handlePatchVenue, nil)
			})

			r.Route("/people", func(r chi.Router) {
				s.mountCollection(r, "/athletes", s.athleteResource(),
					s.handleCreateAthlete, s.handleReplaceAthlete, s.handlePatchAthlete, nil)
				s.mountCollection(r, "/coaches", s.coachResource(),
					s.handleCreateCoach, s.handleReplaceCoach, s.handlePatchCoach, nil)
			})

			r.Route("/scheduling", func(r chi.Router) {
				s.mountCollection(r, "/seasons", s.seasonResource(),
					s.handleCreateSeason, s.handleReplaceSeason, s.handlePatchSeason, nil)
				s.mountCollection(r, "/competitions", s.competitionResource(),
					s.handleCreateCompetition, s.handleReplaceCompetition, s.handlePatchCompetition, nil)
				s.mountCollection(r, "/trainings", s.trainingResource(),
					s.handleCreateTraining, s.handleReplaceTraining, s.handlePatchTraining, nil)
			})
		})
	})
}

// mountCollection registers the uniform CRUD surface of one collection.
// extra, when given, adds collection-specific routes.
func (s *Server) mountCollection(r chi.Router, path string, res resource,
	create, replace, patch http.HandlerFunc, extra func(chi.Router)) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", s.handleList(res))
		r.Post("/", create)
		r.Get("/deleted", s.handleListDeleted(res))
		if extra != nil {
			extra(r)
		}

		r.Route("/{publicID}", func(r chi.Router) {
			r.Get("/", s.handleGet(res))
			r.Put("/", replace)
			r.Patch("/", patch)
			r.Delete("/", s.handleDelete(res))
			r.Post("/soft-delete", s.handleSoftDelete(res))
			r.Post("/restore", s.handleRestore(res))
		})
	})
}
