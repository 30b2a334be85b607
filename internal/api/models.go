package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/scryptocybershield/sportsclub/internal/database"
)

// AuditResponse exposes the audit columns shared by every entity. A record
// is soft-deleted when DeletedAt is non-null.
type AuditResponse struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

func toAuditResponse(a database.Audit) AuditResponse {
	return AuditResponse{
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
		DeletedAt: timePtr(a.DeletedAt),
	}
}

// --- Addresses ---

// AddressResponse is the full view of an address, also embedded by venues
// and people.
type AddressResponse struct {
	PublicID         string `json:"public_id"`
	Line1            string `json:"line1"`
	Line2            string `json:"line2"`
	PostalCode       string `json:"postal_code"`
	City             string `json:"city"`
	State            string `json:"state"`
	Country          string `json:"country"`
	FormattedAddress string `json:"formatted_address"`
	AuditResponse
}

// AddressListItem is the reduced view used in lists.
type AddressListItem struct {
	PublicID         string `json:"public_id"`
	FormattedAddress string `json:"formatted_address"`
}

func toAddressResponse(a *database.Address) AddressResponse {
	return AddressResponse{
		PublicID:         a.PublicID,
		Line1:            a.Line1,
		Line2:            a.Line2,
		PostalCode:       a.PostalCode,
		City:             a.City,
		State:            a.State,
		Country:          a.Country,
		FormattedAddress: a.Formatted(),
		AuditResponse:    toAuditResponse(a.Audit),
	}
}

func toAddressList(addresses []database.Address) []AddressListItem {
	list := make([]AddressListItem, len(addresses))
	for i, a := range addresses {
		list[i] = AddressListItem{PublicID: a.PublicID, FormattedAddress: a.Formatted()}
	}
	return list
}

// embedAddress loads the address a row points at, or nil when it has none.
func (s *Server) embedAddress(ctx context.Context, db database.DBorTx, id sql.NullInt64) (*AddressResponse, error) {
	if !id.Valid {
		return nil, nil
	}
	addr, err := s.db.GetAddressByID(ctx, db, id.Int64)
	if err != nil {
		return nil, err
	}
	resp := toAddressResponse(addr)
	return &resp, nil
}

// --- Venues ---

type VenueResponse struct {
	PublicID  string             `json:"public_id"`
	Name      string             `json:"name"`
	VenueType database.VenueType `json:"venue_type"`
	Capacity  *int64             `json:"capacity"`
	Address   *AddressResponse   `json:"address"`
	Indoor    bool               `json:"indoor"`
	AuditResponse
}

type VenueListItem struct {
	PublicID  string             `json:"public_id"`
	Name      string             `json:"name"`
	VenueType database.VenueType `json:"venue_type"`
	Indoor    bool               `json:"indoor"`
}

// VenueRef is how an activity refers to its venue.
type VenueRef struct {
	PublicID string `json:"public_id"`
	Name     string `json:"name"`
}

func (s *Server) toVenueResponse(ctx context.Context, db database.DBorTx, v *database.Venue) (*VenueResponse, error) {
	addr, err := s.embedAddress(ctx, db, v.AddressID)
	if err != nil {
		return nil, err
	}
	return &VenueResponse{
		PublicID:      v.PublicID,
		Name:          v.Name,
		VenueType:     v.VenueType,
		Capacity:      int64Ptr(v.Capacity),
		Address:       addr,
		Indoor:        v.Indoor,
		AuditResponse: toAuditResponse(v.Audit),
	}, nil
}

func toVenueList(venues []database.Venue) []VenueListItem {
	list := make([]VenueListItem, len(venues))
	for i, v := range venues {
		list[i] = VenueListItem{PublicID: v.PublicID, Name: v.Name, VenueType: v.VenueType, Indoor: v.Indoor}
	}
	return list
}

// --- People ---

// PersonResponse holds the fields athletes and coaches share.
type PersonResponse struct {
	PublicID    string           `json:"public_id"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	DateOfBirth *Date            `json:"date_of_birth"`
	Address     *AddressResponse `json:"address"`
}

func (s *Server) toPersonResponse(ctx context.Context, db database.DBorTx, publicID string, p database.PersonFields) (PersonResponse, error) {
	addr, err := s.embedAddress(ctx, db, p.AddressID)
	if err != nil {
		return PersonResponse{}, err
	}
	return PersonResponse{
		PublicID:    publicID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: datePtr(p.DateOfBirth),
		Address:     addr,
	}, nil
}

type AthleteResponse struct {
	PersonResponse
	Height       *float64 `json:"height"`
	Weight       *float64 `json:"weight"`
	JerseyNumber *int64   `json:"jersey_number"`
	AuditResponse
}

type AthleteListItem struct {
	PublicID     string `json:"public_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	JerseyNumber *int64 `json:"jersey_number"`
}

// AthleteRef is how an activity lists its athletes.
type AthleteRef struct {
	PublicID     string `json:"public_id"`
	DisplayName  string `json:"display_name"`
	JerseyNumber *int64 `json:"jersey_number"`
}

func (s *Server) toAthleteResponse(ctx context.Context, db database.DBorTx, a *database.Athlete) (*AthleteResponse, error) {
	person, err := s.toPersonResponse(ctx, db, a.PublicID, a.PersonFields)
	if err != nil {
		return nil, err
	}
	return &AthleteResponse{
		PersonResponse: person,
		Height:         float64Ptr(a.Height),
		Weight:         float64Ptr(a.Weight),
		JerseyNumber:   int64Ptr(a.JerseyNumber),
		AuditResponse:  toAuditResponse(a.Audit),
	}, nil
}

func toAthleteList(athletes []database.Athlete) []AthleteListItem {
	list := make([]AthleteListItem, len(athletes))
	for i, a := range athletes {
		list[i] = AthleteListItem{
			PublicID:     a.PublicID,
			FirstName:    a.FirstName,
			LastName:     a.LastName,
			JerseyNumber: int64Ptr(a.JerseyNumber),
		}
	}
	return list
}

func toAthleteRefs(athletes []database.Athlete) []AthleteRef {
	refs := make([]AthleteRef, len(athletes))
	for i, a := range athletes {
		refs[i] = AthleteRef{PublicID: a.PublicID, DisplayName: a.DisplayName(), JerseyNumber: int64Ptr(a.JerseyNumber)}
	}
	return refs
}

type CoachResponse struct {
	PersonResponse
	Certification *string `json:"certification"`
	AuditResponse
}

type CoachListItem struct {
	PublicID      string  `json:"public_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Certification *string `json:"certification"`
}

// CoachRef is how an activity lists its coaches.
type CoachRef struct {
	PublicID    string `json:"public_id"`
	DisplayName string `json:"display_name"`
}

func (s *Server) toCoachResponse(ctx context.Context, db database.DBorTx, c *database.Coach) (*CoachResponse, error) {
	person, err := s.toPersonResponse(ctx, db, c.PublicID, c.PersonFields)
	if err != nil {
		return nil, err
	}
	return &CoachResponse{
		PersonResponse: person,
		Certification:  stringPtr(c.Certification),
		AuditResponse:  toAuditResponse(c.Audit),
	}, nil
}

func toCoachList(coaches []database.Coach) []CoachListItem {
	list := make([]CoachListItem, len(coaches))
	for i, c := range coaches {
		list[i] = CoachListItem{
			PublicID:      c.PublicID,
			FirstName:     c.FirstName,
			LastName:      c.LastName,
			Certification: stringPtr(c.Certification),
		}
	}
	return list
}

func toCoachRefs(coaches []database.Coach) []CoachRef {
	refs := make([]CoachRef, len(coaches))
	for i, c := range coaches {
		refs[i] = CoachRef{PublicID: c.PublicID, DisplayName: c.DisplayName()}
	}
	return refs
}

// --- Seasons ---

type SeasonResponse struct {
	PublicID  string `json:"public_id"`
	Name      string `json:"name"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
	AuditResponse
}

type SeasonListItem struct {
	PublicID  string `json:"public_id"`
	Name      string `json:"name"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
}

// SeasonRef is how an activity refers to its season.
type SeasonRef struct {
	PublicID string `json:"public_id"`
	Name     string `json:"name"`
}

func toSeasonResponse(season *database.Season) SeasonResponse {
	return SeasonResponse{
		PublicID:      season.PublicID,
		Name:          season.Name,
		StartDate:     NewDate(season.StartDate),
		EndDate:       NewDate(season.EndDate),
		AuditResponse: toAuditResponse(season.Audit),
	}
}

func toSeasonList(seasons []database.Season) []SeasonListItem {
	list := make([]SeasonListItem, len(seasons))
	for i, season := range seasons {
		list[i] = SeasonListItem{
			PublicID:  season.PublicID,
			Name:      season.Name,
			StartDate: NewDate(season.StartDate),
			EndDate:   NewDate(season.EndDate),
		}
	}
	return list
}

// --- Activities ---

type CompetitionResponse struct {
	PublicID string          `json:"public_id"`
	Name     string          `json:"name"`
	Date     Timestamp       `json:"date"`
	Venue    *VenueRef       `json:"venue"`
	Season   SeasonRef       `json:"season"`
	Coaches  []CoachRef      `json:"coaches"`
	Athletes []AthleteRef    `json:"athletes"`
	Score    json.RawMessage `json:"score"`
	AuditResponse
}

type CompetitionListItem struct {
	PublicID string    `json:"public_id"`
	Name     string    `json:"name"`
	Date     Timestamp `json:"date"`
	Season   SeasonRef `json:"season"`
}

type TrainingResponse struct {
	PublicID string       `json:"public_id"`
	Name     string       `json:"name"`
	Date     Timestamp    `json:"date"`
	Venue    *VenueRef    `json:"venue"`
	Season   SeasonRef    `json:"season"`
	Coaches  []CoachRef   `json:"coaches"`
	Athletes []AthleteRef `json:"athletes"`
	Focus    string       `json:"focus"`
	AuditResponse
}

type TrainingListItem struct {
	PublicID string    `json:"public_id"`
	Name     string    `json:"name"`
	Date     Timestamp `json:"date"`
	Season   SeasonRef `json:"season"`
	Focus    string    `json:"focus"`
}

// activityLinks are the embedded references of a competition or training.
type activityLinks struct {
	venue    *VenueRef
	season   SeasonRef
	coaches  []CoachRef
	athletes []AthleteRef
}

func (s *Server) loadActivityLinks(ctx context.Context, db database.DBorTx, roster database.Roster, id int64, f database.ActivityFields) (*activityLinks, error) {
	links := &activityLinks{}

	if f.VenueID.Valid {
		venue, err := s.db.GetVenueByID(ctx, db, f.VenueID.Int64)
		if err != nil {
			return nil, err
		}
		links.venue = &VenueRef{PublicID: venue.PublicID, Name: venue.Name}
	}

	season, err := s.db.GetSeasonByID(ctx, db, f.SeasonID)
	if err != nil {
		return nil, err
	}
	links.season = SeasonRef{PublicID: season.PublicID, Name: season.Name}

	coaches, err := s.db.RosterCoaches(ctx, db, roster, id)
	if err != nil {
		return nil, err
	}
	links.coaches = toCoachRefs(coaches)

	athletes, err := s.db.RosterAthletes(ctx, db, roster, id)
	if err != nil {
		return nil, err
	}
	links.athletes = toAthleteRefs(athletes)

	return links, nil
}

func (s *Server) toCompetitionResponse(ctx context.Context, db database.DBorTx, c *database.Competition) (*CompetitionResponse, error) {
	links, err := s.loadActivityLinks(ctx, db, database.CompetitionRoster, c.ID, c.ActivityFields)
	if err != nil {
		return nil, err
	}
	var score json.RawMessage
	if c.Score.Valid {
		score = json.RawMessage(c.Score.String)
	}
	return &CompetitionResponse{
		PublicID:      c.PublicID,
		Name:          c.Name,
		Date:          Timestamp{c.Date},
		Venue:         links.venue,
		Season:        links.season,
		Coaches:       links.coaches,
		Athletes:      links.athletes,
		Score:         score,
		AuditResponse: toAuditResponse(c.Audit),
	}, nil
}

func (s *Server) toTrainingResponse(ctx context.Context, db database.DBorTx, t *database.Training) (*TrainingResponse, error) {
	links, err := s.loadActivityLinks(ctx, db, database.TrainingRoster, t.ID, t.ActivityFields)
	if err != nil {
		return nil, err
	}
	return &TrainingResponse{
		PublicID:      t.PublicID,
		Name:          t.Name,
		Date:          Timestamp{t.Date},
		Venue:         links.venue,
		Season:        links.season,
		Coaches:       links.coaches,
		Athletes:      links.athletes,
		Focus:         t.Focus,
		AuditResponse: toAuditResponse(t.Audit),
	}, nil
}

// seasonRefs memoises season lookups while building a list.
type seasonRefs struct {
	s    *Server
	db   database.DBorTx
	refs map[int64]SeasonRef
}

func (s *Server) newSeasonRefs(db database.DBorTx) *seasonRefs {
	return &seasonRefs{s: s, db: db, refs: map[int64]SeasonRef{}}
}

func (sr *seasonRefs) get(ctx context.Context, id int64) (SeasonRef, error) {
	if ref, ok := sr.refs[id]; ok {
		return ref, nil
	}
	season, err := sr.s.db.GetSeasonByID(ctx, sr.db, id)
	if err != nil {
		return SeasonRef{}, err
	}
	ref := SeasonRef{PublicID: season.PublicID, Name: season.Name}
	sr.refs[id] = ref
	return ref, nil
}

func (s *Server) toCompetitionList(ctx context.Context, db database.DBorTx, competitions []database.Competition) ([]CompetitionListItem, error) {
	seasons := s.newSeasonRefs(db)
	list := make([]CompetitionListItem, len(competitions))
	for i, c := range competitions {
		season, err := seasons.get(ctx, c.SeasonID)
		if err != nil {
			return nil, err
		}
		list[i] = CompetitionListItem{PublicID: c.PublicID, Name: c.Name, Date: Timestamp{c.Date}, Season: season}
	}
	return list, nil
}

func (s *Server) toTrainingList(ctx context.Context, db database.DBorTx, trainings []database.Training) ([]TrainingListItem, error) {
	seasons := s.newSeasonRefs(db)
	list := make([]TrainingListItem, len(trainings))
	for i, t := range trainings {
		season, err := seasons.get(ctx, t.SeasonID)
		if err != nil {
			return nil, err
		}
		list[i] = TrainingListItem{PublicID: t.PublicID, Name: t.Name, Date: Timestamp{t.Date}, Season: season, Focus: t.Focus}
	}
	return list, nil
}

// --- Nullable column helpers ---

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

func float64Ptr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func nullFloat64(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
