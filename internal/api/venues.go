package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/scryptocybershield/sportsclub/internal/database"
)

// VenuePayload is the body of POST and PUT on venues. An empty venue_type
// defaults to "field".
type VenuePayload struct {
	Name            string             `json:"name" validate:"required,max=200"`
	VenueType       database.VenueType `json:"venue_type" validate:"omitempty,venue_type"`
	Capacity        *int64             `json:"capacity" validate:"omitnil,gte=0"`
	AddressPublicID *string            `json:"address_public_id"`
	Indoor          bool               `json:"indoor"`
}

type VenuePatch struct {
	Name            Optional[string]             `json:"name"`
	VenueType       Optional[database.VenueType] `json:"venue_type"`
	Capacity        Optional[int64]              `json:"capacity"`
	AddressPublicID Optional[string]             `json:"address_public_id"`
	Indoor          Optional[bool]               `json:"indoor"`
}

func (p VenuePayload) fields() database.VenueFields {
	return database.VenueFields{
		Name:      p.Name,
		VenueType: p.VenueType,
		Capacity:  nullInt64(p.Capacity),
		Indoor:    p.Indoor,
	}
}

// venuePayloadFrom copies the scalar columns of v. The address reference is
// handled separately by PATCH.
func venuePayloadFrom(v *database.Venue) VenuePayload {
	return VenuePayload{
		Name:      v.Name,
		VenueType: v.VenueType,
		Capacity:  int64Ptr(v.Capacity),
		Indoor:    v.Indoor,
	}
}

func (p VenuePatch) applyTo(dst *VenuePayload) {
	p.Name.applyTo(&dst.Name)
	p.VenueType.applyTo(&dst.VenueType)
	p.Capacity.applyToPtr(&dst.Capacity)
	p.Indoor.applyTo(&dst.Indoor)
}

func (s *Server) venueResource() resource {
	return resource{
		table: database.Venues,
		list: func(ctx context.Context, db database.DBorTx, scope database.Scope) (interface{}, error) {
			venues, err := s.db.ListVenues(ctx, db, scope)
			if err != nil {
				return nil, err
			}
			return toVenueList(venues), nil
		},
		detail: func(ctx context.Context, db database.DBorTx, publicID string, scope database.Scope) (interface{}, error) {
			venue, err := s.db.GetVenue(ctx, db, publicID, scope)
			if err != nil {
				return nil, err
			}
			return s.toVenueResponse(ctx, db, venue)
		},
	}
}

func (s *Server) handleCreateVenue(w http.ResponseWriter, r *http.Request) {
	var payload VenuePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(payload); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *VenueResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		fields := payload.fields()
		var err error
		if fields.AddressID, err = s.lookupRef(r.Context(), tx, database.Addresses, payload.AddressPublicID); err != nil {
			return err
		}
		created, err := s.db.CreateVenue(r.Context(), tx, fields)
		if err != nil {
			return err
		}
		resp, err = s.toVenueResponse(r.Context(), tx, created)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Venues, "create", resp.PublicID)
	s.writeJSON(w, http.StatusCreated, resp)
}

// handleReplaceVenue overwrites a venue. An omitted address_public_id
// clears the address.
func (s *Server) handleReplaceVenue(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var payload VenuePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validate(payload); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *VenueResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		id, err := s.db.LookupID(r.Context(), tx, database.Venues, publicID, database.Active)
		if err != nil {
			return err
		}
		fields := payload.fields()
		if fields.AddressID, err = s.lookupRef(r.Context(), tx, database.Addresses, payload.AddressPublicID); err != nil {
			return err
		}
		updated, err := s.db.UpdateVenue(r.Context(), tx, id, fields)
		if err != nil {
			return err
		}
		resp, err = s.toVenueResponse(r.Context(), tx, updated)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Venues, "update", publicID)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePatchVenue(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var patch VenuePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.handleError(w, r, err)
		return
	}

	var resp *VenueResponse
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		existing, err := s.db.GetVenue(r.Context(), tx, publicID, database.Active)
		if err != nil {
			return err
		}
		payload := venuePayloadFrom(existing)
		patch.applyTo(&payload)
		if err := s.validate(payload); err != nil {
			return err
		}

		fields := payload.fields()
		if fields.AddressID, err = s.patchRef(r.Context(), tx, database.Addresses, patch.AddressPublicID, existing.AddressID); err != nil {
			return err
		}
		updated, err := s.db.UpdateVenue(r.Context(), tx, existing.ID, fields)
		if err != nil {
			return err
		}
		resp, err = s.toVenueResponse(r.Context(), tx, updated)
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Venues, "patch", publicID)
	s.writeJSON(w, http.StatusOK, resp)
}
