package api

import (
	"context"
	"database/sql"

	"github.com/scryptocybershield/sportsclub/internal/database"
)

// lookupRef resolves an optional public identifier to the key of an active
// row of t. A nil identifier means no reference; an unknown one is
// ErrNotFound.
func (s *Server) lookupRef(ctx context.Context, db database.DBorTx, t database.Table, publicID *string) (sql.NullInt64, error) {
	if publicID == nil {
		return sql.NullInt64{}, nil
	}
	id, err := s.db.LookupID(ctx, db, t, *publicID, database.Active)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: id, Valid: true}, nil
}

// patchRef applies a three-state reference field: absent keeps current,
// null clears it and a value must name an active row of t.
func (s *Server) patchRef(ctx context.Context, db database.DBorTx, t database.Table, patch Optional[string], current sql.NullInt64) (sql.NullInt64, error) {
	switch {
	case !patch.Set:
		return current, nil
	case patch.Null:
		return sql.NullInt64{}, nil
	default:
		return s.lookupRef(ctx, db, t, &patch.Value)
	}
}
