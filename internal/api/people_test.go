package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	athletesPath = "/api/v1/people/athletes"
	coachesPath  = "/api/v1/people/coaches"
)

func TestAthleteCreateAndRead(t *testing.T) {
	api := newTestAPI(t)

	id := api.create(athletesPath, `{
		"first_name": "Ana", "last_name": "Peleteiro", "email": "ana@example.com",
		"phone": "+34 600 000 000", "date_of_birth": "1995-12-02",
		"height": 171.5, "weight": 58, "jersey_number": 7
	}`)

	got := api.get(athletesPath + "/" + id)
	assert.Equal(t, "1995-12-02", got["date_of_birth"])
	assert.Equal(t, 171.5, got["height"])
	assert.Equal(t, float64(58), got["weight"])
	assert.Equal(t, float64(7), got["jersey_number"])
	assert.Nil(t, got["address"])

	rr := api.request(http.MethodGet, athletesPath, "")
	list := decode[[]map[string]interface{}](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, map[string]interface{}{
		"public_id":     id,
		"first_name":    "Ana",
		"last_name":     "Peleteiro",
		"jersey_number": float64(7),
	}, list[0])
}

func TestAthletePhysicalAttributesMustBePositive(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name  string
		extra string
		field string
	}{
		{"zero height", `"height": 0`, "height"},
		{"negative height", `"height": -170`, "height"},
		{"zero weight", `"weight": 0`, "weight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := api.request(http.MethodPost, athletesPath,
				`{"first_name": "A", "last_name": "B", "email": "ab@example.com", `+tt.extra+`}`)
			assert.Contains(t, fieldErrors(t, rr), tt.field)
		})
	}

	id := api.create(athletesPath, `{"first_name": "A", "last_name": "B", "email": "ab@example.com", "height": 0.5}`)
	rr := api.request(http.MethodPatch, athletesPath+"/"+id, `{"weight": 0}`)
	assert.Contains(t, fieldErrors(t, rr), "weight")
}

func TestPersonValidation(t *testing.T) {
	api := newTestAPI(t)

	rr := api.request(http.MethodPost, athletesPath, `{"first_name": "A", "email": "not-an-email"}`)
	errs := fieldErrors(t, rr)
	assert.Contains(t, errs, "last_name")
	assert.Contains(t, errs, "email")

	rr = api.request(http.MethodPost, coachesPath, `{"first_name": "A", "last_name": "B", "email": "c@example.com", "phone": "+34 600 000 000 000 000"}`)
	assert.Contains(t, fieldErrors(t, rr), "phone")
}

func TestDuplicateEmailIsConflict(t *testing.T) {
	api := newTestAPI(t)

	api.create(athletesPath, `{"first_name": "Ana", "last_name": "P", "email": "ana@example.com"}`)
	rr := api.request(http.MethodPost, athletesPath, `{"first_name": "Ana", "last_name": "Q", "email": "ana@example.com"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "A record with this data already exists.", detailMessage(t, rr))

	// Coaches keep their own email namespace.
	api.create(coachesPath, `{"first_name": "Ana", "last_name": "P", "email": "ana@example.com"}`)

	other := api.create(athletesPath, `{"first_name": "Bea", "last_name": "R", "email": "bea@example.com"}`)
	rr = api.request(http.MethodPatch, athletesPath+"/"+other, `{"email": "ana@example.com"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestPersonAddressStates(t *testing.T) {
	api := newTestAPI(t)

	addressID := api.create(addressesPath, `{"line1": "Carrer Major, 1", "city": "Inca"}`)

	rr := api.request(http.MethodPost, coachesPath, `{"first_name": "J", "last_name": "M", "email": "j@example.com", "address_public_id": "missing"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	id := api.create(coachesPath, `{"first_name": "J", "last_name": "M", "email": "j@example.com", "address_public_id": "`+addressID+`"}`)
	coach := api.get(coachesPath + "/" + id)
	addr := coach["address"].(map[string]interface{})
	assert.Equal(t, "Carrer Major, 1, Inca", addr["formatted_address"])

	rr = api.request(http.MethodPatch, coachesPath+"/"+id, `{"phone": "971000000"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotNil(t, decode[map[string]interface{}](t, rr)["address"])

	rr = api.request(http.MethodPatch, coachesPath+"/"+id, `{"address_public_id": null}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[map[string]interface{}](t, rr)["address"])
}

func TestCoachCertification(t *testing.T) {
	api := newTestAPI(t)

	rr := api.request(http.MethodPost, coachesPath, `{"first_name": "J", "last_name": "M", "email": "j@example.com", "certification": "black_belt"}`)
	assert.Contains(t, fieldErrors(t, rr), "certification")

	id := api.create(coachesPath, `{"first_name": "J", "last_name": "M", "email": "j@example.com", "certification": "entrenador_nacional"}`)
	coach := api.get(coachesPath + "/" + id)
	assert.Equal(t, "entrenador_nacional", coach["certification"])

	rr = api.request(http.MethodGet, coachesPath, "")
	list := decode[[]map[string]interface{}](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, "entrenador_nacional", list[0]["certification"])

	rr = api.request(http.MethodPatch, coachesPath+"/"+id, `{"certification": null}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[map[string]interface{}](t, rr)["certification"])
}
