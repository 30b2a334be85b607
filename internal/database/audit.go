package database

import (
	"context"
	"fmt"
	"strings"
)

// Table names an entity table carrying the audit columns.
type Table string

const (
	Addresses    Table = "addresses"
	Venues       Table = "venues"
	Athletes     Table = "athletes"
	Coaches      Table = "coaches"
	Seasons      Table = "seasons"
	Competitions Table = "competitions"
	Trainings    Table = "trainings"
	APIKeys      Table = "api_keys"
)

func (t Table) singular() string {
	switch t {
	case Addresses:
		return "address"
	case Coaches:
		return "coach"
	default:
		return strings.TrimSuffix(string(t), "s")
	}
}

// DeletePolicy describes what a hard delete of a row does to the rows that
// reference it. Soft deletion never touches dependents.
type DeletePolicy string

const (
	// NoDependents means nothing references the table.
	NoDependents DeletePolicy = "none"
	// ClearReferences nulls the referencing column; dependents survive.
	ClearReferences DeletePolicy = "set_null"
	// CascadeDependents permanently deletes every dependent row.
	CascadeDependents DeletePolicy = "cascade"
)

type dependent struct {
	table  Table
	column string
}

type deleteRule struct {
	policy     DeletePolicy
	dependents []dependent
}

// deleteRules mirrors the ON DELETE clauses of the schema.
var deleteRules = map[Table]deleteRule{
	Addresses: {ClearReferences, []dependent{
		{Venues, "address_id"},
		{Athletes, "address_id"},
		{Coaches, "address_id"},
	}},
	Venues: {ClearReferences, []dependent{
		{Competitions, "venue_id"},
		{Trainings, "venue_id"},
	}},
	Seasons: {CascadeDependents, []dependent{
		{Competitions, "season_id"},
		{Trainings, "season_id"},
	}},
}

// DeletePolicy returns the hard-delete policy for dependents of t.
func (t Table) DeletePolicy() DeletePolicy {
	if rule, ok := deleteRules[t]; ok {
		return rule.policy
	}
	return NoDependents
}

// DeleteResult reports the effect of a hard delete.
type DeleteResult struct {
	Policy DeletePolicy
	// Dependents counts rows (soft-deleted included) whose reference was
	// cleared or which were cascaded away, keyed by table.
	Dependents map[Table]int64
}

// Delete permanently removes the active row identified by publicID. Rows
// that reference it are handled by the table's DeletePolicy.
func (s *Service) Delete(ctx context.Context, db DBorTx, t Table, publicID string) (*DeleteResult, error) {
	id, err := s.LookupID(ctx, db, t, publicID, Active)
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{Policy: t.DeletePolicy(), Dependents: map[Table]int64{}}
	for _, dep := range deleteRules[t].dependents {
		var n int64
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?;`, dep.table, dep.column)
		if err := db.GetContext(ctx, &n, query, id); err != nil {
			return nil, classify(err)
		}
		if n > 0 {
			result.Dependents[dep.table] = n
		}
	}

	if err := execOne(ctx, db, fmt.Sprintf(`DELETE FROM %s WHERE id = ?;`, t), id); err != nil {
		return nil, err
	}
	return result, nil
}

// SoftDelete marks the row as deleted without removing it. It looks in the
// all-records view, so soft-deleting twice refreshes the deletion time.
func (s *Service) SoftDelete(ctx context.Context, db DBorTx, t Table, publicID string) error {
	now := s.Now()
	query := fmt.Sprintf(`UPDATE %s SET deleted_at = ?, updated_at = ? WHERE public_id = ?;`, t)
	if err := execOne(ctx, db, query, now, now, publicID); err != nil {
		return fmt.Errorf("%s %q: %w", t.singular(), publicID, err)
	}
	return nil
}

// Restore clears the soft-delete marker of the row.
func (s *Service) Restore(ctx context.Context, db DBorTx, t Table, publicID string) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted_at = NULL, updated_at = ? WHERE public_id = ?;`, t)
	if err := execOne(ctx, db, query, s.Now(), publicID); err != nil {
		return fmt.Errorf("%s %q: %w", t.singular(), publicID, err)
	}
	return nil
}
