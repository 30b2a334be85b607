package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite" // The pure Go SQLite driver
)

// Service is the central struct for managing all database interactions.
// Reads go straight to the pool; writes are serialised through WriteTx so
// SQLite only ever sees one writer at a time.
type Service struct {
	db      *sqlx.DB
	clock   clockwork.Clock
	writeMu sync.Mutex
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for audit timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// NewService opens the SQLite database described by dsn and verifies the
// connection. Foreign key enforcement is switched on for every connection.
func NewService(dsn string, opts ...Option) (*Service, error) {
	db, err := sqlx.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	// A single connection keeps in-memory databases alive and matches
	// SQLite's single-writer model.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	return newService(db, opts...), nil
}

func newService(db *sqlx.DB, opts ...Option) *Service {
	s := &Service{
		db:    db,
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// WriteTx executes writeFunc inside a transaction, protected by a mutex to
// ensure serial access. The transaction is rolled back if writeFunc fails.
func (s *Service) WriteTx(ctx context.Context, writeFunc func(tx *sqlx.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := writeFunc(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DB provides the connection pool for read-only queries.
func (s *Service) DB() *sqlx.DB {
	return s.db
}

// Ping checks that the database is still reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Now returns the current time as seen by the service clock, in UTC.
func (s *Service) Now() time.Time {
	return s.clock.Now().UTC()
}

// Close closes the underlying connection pool.
func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database")
		return
	}
	log.Info().Msg("database connection closed")
}
