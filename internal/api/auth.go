package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/scryptocybershield/sportsclub/internal/auth"
	"github.com/scryptocybershield/sportsclub/internal/database"
)

const (
	bootstrapKeyName  = "bootstrap"
	bootstrapKeyOwner = "admin"
)

// EnsureBootstrapKey makes the configured BOOTSTRAP_API_KEY usable: it is
// stored when unknown, restored when soft-deleted and reactivated when it
// was switched off. Without a bootstrap key and with authentication on, an
// empty key store gets a generated key whose secret is logged once.
func (s *Server) EnsureBootstrapKey(ctx context.Context) error {
	secret := s.config.BootstrapAPIKey
	if secret == "" {
		if !s.config.AuthEnabled {
			return nil
		}
		return s.generateBootstrapKey(ctx)
	}

	return s.db.WriteTx(ctx, func(tx *sqlx.Tx) error {
		key, err := s.db.FindAPIKeyByHash(ctx, tx, auth.HashKey(secret), database.All)
		if errors.Is(err, database.ErrNotFound) {
			created, err := s.db.CreateAPIKey(ctx, tx, bootstrapKeyName, bootstrapKeyOwner, auth.HashKey(secret), sql.NullTime{})
			if err != nil {
				return err
			}
			log.Info().Str("key", created.PublicID).Msg("bootstrap api key created")
			return nil
		}
		if err != nil {
			return err
		}

		if key.IsSoftDeleted() {
			if err := s.db.Restore(ctx, tx, database.APIKeys, key.PublicID); err != nil {
				return err
			}
			log.Info().Str("key", key.PublicID).Msg("bootstrap api key restored")
		}
		if !key.IsActive {
			if err := s.db.SetAPIKeyActive(ctx, tx, key.ID, true); err != nil {
				return err
			}
			log.Info().Str("key", key.PublicID).Msg("bootstrap api key reactivated")
		}
		return nil
	})
}

func (s *Server) generateBootstrapKey(ctx context.Context) error {
	return s.db.WriteTx(ctx, func(tx *sqlx.Tx) error {
		n, err := s.db.CountAPIKeys(ctx, tx)
		if err != nil {
			return fmt.Errorf("count api keys: %w", err)
		}
		if n > 0 {
			return nil
		}

		secret, err := auth.GenerateKey()
		if err != nil {
			return fmt.Errorf("generate api key: %w", err)
		}
		created, err := s.db.CreateAPIKey(ctx, tx, bootstrapKeyName, bootstrapKeyOwner, auth.HashKey(secret), sql.NullTime{})
		if err != nil {
			return err
		}
		// The secret cannot be recovered after this point.
		log.Warn().Str("key", created.PublicID).Str("secret", secret).
			Msg("no API keys configured; generated a bootstrap key")
		return nil
	})
}
