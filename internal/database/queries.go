package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DBorTx is an interface that allows functions to accept either a `*sqlx.DB`
// for single queries or a `*sqlx.Tx` for operations within a transaction.
type DBorTx interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Scope selects which rows of an entity table a query may see.
type Scope int

const (
	// Active rows only (deleted_at IS NULL). The default view.
	Active Scope = iota
	// All rows, soft-deleted included.
	All
	// Deleted rows only.
	Deleted
)

func (sc Scope) where() string {
	switch sc {
	case All:
		return "1 = 1"
	case Deleted:
		return "deleted_at IS NOT NULL"
	default:
		return "deleted_at IS NULL"
	}
}

// newPublicID returns a fresh opaque public identifier.
var newPublicID = func() (string, error) {
	return gonanoid.New()
}

func getRow[T any](ctx context.Context, db DBorTx, query string, args ...interface{}) (*T, error) {
	var row T
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, classify(err)
	}
	return &row, nil
}

func selectRows[T any](ctx context.Context, db DBorTx, query string, args ...interface{}) ([]T, error) {
	rows := []T{}
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// insert runs an INSERT and returns the new row id.
func insert(ctx context.Context, db DBorTx, query string, args ...interface{}) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}

// execOne runs a statement that must touch at least one row.
func execOne(ctx context.Context, db DBorTx, query string, args ...interface{}) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// LookupID resolves a public identifier to the internal key within scope.
func (s *Service) LookupID(ctx context.Context, db DBorTx, t Table, publicID string, scope Scope) (int64, error) {
	var id int64
	query := fmt.Sprintf(`SELECT id FROM %s WHERE public_id = ? AND %s;`, t, scope.where())
	if err := db.GetContext(ctx, &id, query, publicID); err != nil {
		return 0, fmt.Errorf("%s %q: %w", t.singular(), publicID, classify(err))
	}
	return id, nil
}

// resolveIDs maps public identifiers to internal keys among active rows.
// Identifiers that match nothing are dropped.
func (s *Service) resolveIDs(ctx context.Context, db DBorTx, t Table, publicIDs []string) ([]int64, error) {
	ids := []int64{}
	if len(publicIDs) == 0 {
		return ids, nil
	}

	query, args, err := sqlx.In(
		fmt.Sprintf(`SELECT id FROM %s WHERE public_id IN (?) AND deleted_at IS NULL ORDER BY id;`, t),
		publicIDs,
	)
	if err != nil {
		return nil, err
	}
	if err := db.SelectContext(ctx, &ids, db.Rebind(query), args...); err != nil {
		return nil, classify(err)
	}
	return ids, nil
}
