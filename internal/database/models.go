package database

import (
	"database/sql"
	"strings"
	"time"
)

// Audit holds the timestamps shared by every entity table. A row is active
// while DeletedAt is NULL.
type Audit struct {
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at"`
}

// IsSoftDeleted reports whether the row has been soft-deleted.
func (a Audit) IsSoftDeleted() bool {
	return a.DeletedAt.Valid
}

// AddressFields are the editable columns of the 'addresses' table.
type AddressFields struct {
	Line1      string `db:"line1"`
	Line2      string `db:"line2"`
	PostalCode string `db:"postal_code"`
	City       string `db:"city"`
	State      string `db:"state"`
	Country    string `db:"country"`
}

// Formatted renders the address in Google Maps style, e.g.
// "Av. de Jaume III, 15, Centre, 07012 Palma, Illes Balears, Spain".
// Empty components are skipped.
func (a AddressFields) Formatted() string {
	parts := []string{a.Line1}
	if a.Line2 != "" {
		parts = append(parts, a.Line2)
	}

	var cityPart []string
	if a.PostalCode != "" {
		cityPart = append(cityPart, a.PostalCode)
	}
	if a.City != "" {
		cityPart = append(cityPart, a.City)
	}
	if len(cityPart) > 0 {
		parts = append(parts, strings.Join(cityPart, " "))
	}

	if a.State != "" {
		parts = append(parts, a.State)
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	return strings.Join(parts, ", ")
}

// Address represents a record in the 'addresses' table.
type Address struct {
	ID       int64  `db:"id"`
	PublicID string `db:"public_id"`
	AddressFields
	Audit
}

// VenueType classifies a venue.
type VenueType string

const (
	VenueStadium   VenueType = "stadium"
	VenueGymnasium VenueType = "gymnasium"
	VenueTrack     VenueType = "track"
	VenueField     VenueType = "field"
)

// VenueTypes lists every accepted venue type.
var VenueTypes = []VenueType{VenueStadium, VenueGymnasium, VenueTrack, VenueField}

// VenueFields are the editable columns of the 'venues' table.
type VenueFields struct {
	Name      string        `db:"name"`
	VenueType VenueType     `db:"venue_type"`
	Capacity  sql.NullInt64 `db:"capacity"`
	AddressID sql.NullInt64 `db:"address_id"`
	Indoor    bool          `db:"indoor"`
}

// Venue represents a record in the 'venues' table.
type Venue struct {
	ID       int64  `db:"id"`
	PublicID string `db:"public_id"`
	VenueFields
	Audit
}

// PersonFields are the identity and contact columns shared by athletes and coaches.
type PersonFields struct {
	FirstName   string        `db:"first_name"`
	LastName    string        `db:"last_name"`
	Email       string        `db:"email"`
	Phone       string        `db:"phone"`
	DateOfBirth sql.NullTime  `db:"date_of_birth"`
	AddressID   sql.NullInt64 `db:"address_id"`
}

// DisplayName is "first_name last_name".
func (p PersonFields) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

// AthleteFields are the editable columns of the 'athletes' table.
type AthleteFields struct {
	PersonFields
	Height       sql.NullFloat64 `db:"height"` // centimetres
	Weight       sql.NullFloat64 `db:"weight"` // kilograms
	JerseyNumber sql.NullInt64   `db:"jersey_number"`
}

// Athlete represents a record in the 'athletes' table.
type Athlete struct {
	ID       int64  `db:"id"`
	PublicID string `db:"public_id"`
	AthleteFields
	Audit
}

// Certification is a coaching certification in athletics in Spain.
type Certification string

const (
	CertTecnicoGradoMedio    Certification = "tecnico_deportivo_grado_medio"
	CertTecnicoGradoSuperior Certification = "tecnico_deportivo_grado_superior"
	CertEntrenadorNacional   Certification = "entrenador_nacional"
	CertEntrenadorClub       Certification = "entrenador_club"
	CertNSCACPT              Certification = "nsca_cpt"
)

// Certifications lists every accepted certification code.
var Certifications = []Certification{
	CertTecnicoGradoMedio,
	CertTecnicoGradoSuperior,
	CertEntrenadorNacional,
	CertEntrenadorClub,
	CertNSCACPT,
}

// CoachFields are the editable columns of the 'coaches' table.
type CoachFields struct {
	PersonFields
	Certification sql.NullString `db:"certification"`
}

// Coach represents a record in the 'coaches' table.
type Coach struct {
	ID       int64  `db:"id"`
	PublicID string `db:"public_id"`
	CoachFields
	Audit
}

// SeasonFields are the editable columns of the 'seasons' table. Dates are
// stored at midnight UTC.
type SeasonFields struct {
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

// Season represents a record in the 'seasons' table.
type Season struct {
	ID       int64  `db:"id"`
	PublicID string `db:"public_id"`
	SeasonFields
	Audit
}

// ActivityFields are the columns shared by competitions and trainings.
type ActivityFields struct {
	Name     string        `db:"name"`
	Date     time.Time     `db:"date"`
	VenueID  sql.NullInt64 `db:"venue_id"`
	SeasonID int64         `db:"season_id"`
}

// CompetitionFields are the editable columns of the 'competitions' table.
// Score holds the canonical JSON score document, if any.
type CompetitionFields struct {
	ActivityFields
	Score sql.NullString `db:"score"`
}

// Competition represents a record in the 'competitions' table.
type Competition struct {
	ID       int64  `db:"id"`
	PublicID string `db:"public_id"`
	CompetitionFields
	Audit
}

// TrainingFields are the editable columns of the 'trainings' table.
type TrainingFields struct {
	ActivityFields
	Focus string `db:"focus"`
}

// Training represents a record in the 'trainings' table.
type Training struct {
	ID       int64  `db:"id"`
	PublicID string `db:"public_id"`
	TrainingFields
	Audit
}

// APIKey represents a record in the 'api_keys' table. Only the digest of
// the secret is stored.
type APIKey struct {
	ID         int64        `db:"id"`
	PublicID   string       `db:"public_id"`
	KeyHash    string       `db:"key_hash"`
	Name       string       `db:"name"`
	Owner      string       `db:"owner"`
	ExpiresAt  sql.NullTime `db:"expires_at"`
	LastUsedAt sql.NullTime `db:"last_used_at"`
	IsActive   bool         `db:"is_active"`
	Audit
}

// IsExpired reports whether the key has an expiry at or before now.
func (k APIKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt.Valid && !now.Before(k.ExpiresAt.Time)
}

// IsValid reports whether the key may be used to authenticate at now.
func (k APIKey) IsValid(now time.Time) bool {
	return k.IsActive && !k.IsExpired(now) && !k.IsSoftDeleted()
}
