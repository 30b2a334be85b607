package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/time/rate"

	"github.com/scryptocybershield/sportsclub/internal/auth"
	"github.com/scryptocybershield/sportsclub/internal/database"
)

// contextKey is a custom type used for keys in context.Context. Using a custom
// type prevents collisions between context keys defined in different packages.
type contextKey string

// apiKeyContextKey stores the *database.APIKey that authenticated the request.
const apiKeyContextKey = contextKey("apiKey")

// authMiddleware protects the API with the keys stored in 'api_keys'.
// The key is read from the X-API-Key header or an "Authorization: Bearer"
// header. A key that is unknown, inactive, expired or soft-deleted is
// rejected with 401. On success the key's last-used time is recorded and
// the key is injected into the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.config.AuthEnabled {
			next.ServeHTTP(w, r)
			return
		}

		secret, err := auth.KeyFromRequest(r)
		if err != nil {
			s.errorJSON(w, err, http.StatusUnauthorized)
			return
		}

		key, err := s.db.GetAPIKeyByHash(r.Context(), s.db.DB(), auth.HashKey(secret))
		if err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				hlog.FromRequest(r).Error().Err(err).Msg("api key lookup failed")
			}
			s.errorJSON(w, errors.New("invalid api key"), http.StatusUnauthorized)
			return
		}
		if !key.IsValid(s.db.Now()) {
			hlog.FromRequest(r).Warn().Str("key", key.PublicID).Str("owner", key.Owner).Msg("rejected inactive or expired api key")
			s.errorJSON(w, errors.New("invalid api key"), http.StatusUnauthorized)
			return
		}

		// Bookkeeping only; a failure here does not fail the request.
		err = s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
			return s.db.MarkAPIKeyUsed(r.Context(), tx, key.ID)
		})
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("key", key.PublicID).Msg("could not record api key use")
		}

		ctx := context.WithValue(r.Context(), apiKeyContextKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// apiKeyFromContext returns the key that authenticated the request, if any.
func apiKeyFromContext(ctx context.Context) (*database.APIKey, bool) {
	key, ok := ctx.Value(apiKeyContextKey).(*database.APIKey)
	return key, ok
}

// maxTrackedClients bounds the limiter table; it is reset when exceeded.
const maxTrackedClients = 10000

// clientLimiter hands out one token bucket per client address.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (cl *clientLimiter) get(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	limiter, ok := cl.limiters[client]
	if !ok {
		if len(cl.limiters) >= maxTrackedClients {
			cl.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(cl.rate, cl.burst)
		cl.limiters[client] = limiter
	}
	return limiter
}

// rateLimitMiddleware rejects clients that exceed the configured request
// rate with 429. Clients are identified by their remote address, so it
// must run after middleware.RealIP.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	limiter := newClientLimiter(s.config.RateLimitRPS, s.config.RateLimitBurst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := r.RemoteAddr
		if host, _, err := net.SplitHostPort(client); err == nil {
			client = host
		}

		if !limiter.get(client).Allow() {
			hlog.FromRequest(r).Warn().Str("client", client).Str("path", r.URL.Path).Msg("rate limit exceeded")
			s.errorJSON(w, errors.New("Request was throttled."), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one line per request through the request-scoped logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
})

// metricsMiddleware records every request against its chi route pattern,
// which keeps the label cardinality bounded.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		s.metrics.ObserveRequest(r.Method, route, status, time.Since(start))
	})
}
