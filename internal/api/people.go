package api

import (
	"github.com/scryptocybershield/sportsclub/internal/database"
)

// PersonPayload holds the fields athletes and coaches share.
type PersonPayload struct {
	FirstName       string  `json:"first_name" validate:"required,max=100"`
	LastName        string  `json:"last_name" validate:"required,max=100"`
	Email           string  `json:"email" validate:"required,email,max=254"`
	Phone           string  `json:"phone" validate:"max=20"`
	DateOfBirth     *Date   `json:"date_of_birth"`
	AddressPublicID *string `json:"address_public_id"`
}

type PersonPatch struct {
	FirstName       Optional[string] `json:"first_name"`
	LastName        Optional[string] `json:"last_name"`
	Email           Optional[string] `json:"email"`
	Phone           Optional[string] `json:"phone"`
	DateOfBirth     Optional[Date]   `json:"date_of_birth"`
	AddressPublicID Optional[string] `json:"address_public_id"`
}

// fields converts the payload without the address, which the handlers
// resolve inside their transaction.
func (p PersonPayload) fields() database.PersonFields {
	return database.PersonFields{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: nullDate(p.DateOfBirth),
	}
}

func personPayloadFrom(p database.PersonFields) PersonPayload {
	return PersonPayload{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: datePtr(p.DateOfBirth),
	}
}

func (p PersonPatch) applyTo(dst *PersonPayload) {
	p.FirstName.applyTo(&dst.FirstName)
	p.LastName.applyTo(&dst.LastName)
	p.Email.applyTo(&dst.Email)
	p.Phone.applyTo(&dst.Phone)
	p.DateOfBirth.applyToPtr(&dst.DateOfBirth)
}
