package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/scryptocybershield/sportsclub/internal/database"
)

// AddressPayload is the body of POST and PUT on addresses.
type AddressPayload struct {
	Line1      string `json:"line1" validate:"required,max=255"`
	Line2      string `json:"line2" validate:"max=255"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	City       string `json:"city" validate:"max=100"`
	State      string `json:"state" validate:"max=100"`
	Country    string `json:"country" validate:"max=100"`
}

// AddressPatch is the body of PATCH on addresses.
type AddressPatch struct {
	Line1      Optional[string] `json:"line1"`
	Line2      Optional[string] `json:"line2"`
	PostalCode Optional[string] `json:"postal_code"`
	City       Optional[string] `json:"city"`
	State      Optional[string] `json:"state"`
	Country    Optional[string] `json:"country"`
}

func (p *AddressPayload) normalize() {
	p.PostalCode = strings.TrimSpace(p.PostalCode)
}

func (p AddressPayload) fields() database.AddressFields {
	return database.AddressFields{
		Line1:      p.Line1,
		Line2:      p.Line2,
		PostalCode: p.PostalCode,
		City:       p.City,
		State:      p.State,
		Country:    p.Country,
	}
}

func addressPayloadFrom(a *database.Address) AddressPayload {
	return AddressPayload{
		Line1:      a.Line1,
		Line2:      a.Line2,
		PostalCode: a.PostalCode,
		City:       a.City,
		State:      a.State,
		Country:    a.Country,
	}
}

func (p AddressPatch) applyTo(dst *AddressPayload) {
	p.Line1.applyTo(&dst.Line1)
	p.Line2.applyTo(&dst.Line2)
	p.PostalCode.applyTo(&dst.PostalCode)
	p.City.applyTo(&dst.City)
	p.State.applyTo(&dst.State)
	p.Country.applyTo(&dst.Country)
}

func (s *Server) addressResource() resource {
	return resource{
		table: database.Addresses,
		list: func(ctx context.Context, db database.DBorTx, scope database.Scope) (interface{}, error) {
			addresses, err := s.db.ListAddresses(ctx, db, scope)
			if err != nil {
				return nil, err
			}
			return toAddressList(addresses), nil
		},
		detail: func(ctx context.Context, db database.DBorTx, publicID string, scope database.Scope) (interface{}, error) {
			addr, err := s.db.GetAddress(ctx, db, publicID, scope)
			if err != nil {
				return nil, err
			}
			return toAddressResponse(addr), nil
		},
	}
}

func (s *Server) handleCreateAddress(w http.ResponseWriter, r *http.Request) {
	var payload AddressPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	payload.normalize()
	if err := s.validate(payload); err != nil {
		s.handleError(w, r, err)
		return
	}

	var created *database.Address
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		created, err = s.db.CreateAddress(r.Context(), tx, payload.fields())
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Addresses, "create", created.PublicID)
	s.writeJSON(w, http.StatusCreated, toAddressResponse(created))
}

func (s *Server) handleReplaceAddress(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var payload AddressPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	payload.normalize()
	if err := s.validate(payload); err != nil {
		s.handleError(w, r, err)
		return
	}

	var updated *database.Address
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		id, err := s.db.LookupID(r.Context(), tx, database.Addresses, publicID, database.Active)
		if err != nil {
			return err
		}
		updated, err = s.db.UpdateAddress(r.Context(), tx, id, payload.fields())
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Addresses, "update", publicID)
	s.writeJSON(w, http.StatusOK, toAddressResponse(updated))
}

func (s *Server) handlePatchAddress(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var patch AddressPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.handleError(w, r, err)
		return
	}

	var updated *database.Address
	err := s.db.WriteTx(r.Context(), func(tx *sqlx.Tx) error {
		existing, err := s.db.GetAddress(r.Context(), tx, publicID, database.Active)
		if err != nil {
			return err
		}
		payload := addressPayloadFrom(existing)
		patch.applyTo(&payload)
		payload.normalize()
		if err := s.validate(payload); err != nil {
			return err
		}
		updated, err = s.db.UpdateAddress(r.Context(), tx, existing.ID, payload.fields())
		return err
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logWrite(r, database.Addresses, "patch", publicID)
	s.writeJSON(w, http.StatusOK, toAddressResponse(updated))
}

// handleListOrphanedAddresses lists active addresses nothing refers to.
func (s *Server) handleListOrphanedAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := s.db.ListOrphanedAddresses(r.Context(), s.db.DB())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAddressList(addresses))
}
