package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddressFormatted(t *testing.T) {
	cases := []struct {
		name string
		in   AddressFields
		want string
	}{
		{
			name: "all components",
			in:   AddressFields{Line1: "A", Line2: "B", PostalCode: "07012", City: "Palma", State: "IB", Country: "Spain"},
			want: "A, B, 07012 Palma, IB, Spain",
		},
		{
			name: "line1 only",
			in:   AddressFields{Line1: "Carrer de Sant Miquel, 30"},
			want: "Carrer de Sant Miquel, 30",
		},
		{
			name: "city without postal code",
			in:   AddressFields{Line1: "A", City: "Palma", Country: "Spain"},
			want: "A, Palma, Spain",
		},
		{
			name: "postal code without city",
			in:   AddressFields{Line1: "A", PostalCode: "07012"},
			want: "A, 07012",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Formatted())
		})
	}
}

func TestDisplayName(t *testing.T) {
	p := PersonFields{FirstName: "Maria", LastName: "Vicens"}
	assert.Equal(t, "Maria Vicens", p.DisplayName())
}

func TestAPIKeyValidity(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	key := APIKey{IsActive: true}
	assert.True(t, key.IsValid(now), "no expiry")

	key.ExpiresAt = sql.NullTime{Time: now, Valid: true}
	assert.True(t, key.IsExpired(now), "expiry is inclusive")
	assert.False(t, key.IsValid(now))

	key.ExpiresAt.Time = now.Add(time.Second)
	assert.True(t, key.IsValid(now))

	key.IsActive = false
	assert.False(t, key.IsValid(now))

	key.IsActive = true
	key.DeletedAt = sql.NullTime{Time: now, Valid: true}
	assert.False(t, key.IsValid(now))
}

func TestTableDeletePolicy(t *testing.T) {
	assert.Equal(t, ClearReferences, Addresses.DeletePolicy())
	assert.Equal(t, ClearReferences, Venues.DeletePolicy())
	assert.Equal(t, CascadeDependents, Seasons.DeletePolicy())
	assert.Equal(t, NoDependents, Athletes.DeletePolicy())
	assert.Equal(t, "address", Addresses.singular())
	assert.Equal(t, "coach", Coaches.singular())
	assert.Equal(t, "season", Seasons.singular())
}
