package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addressesPath = "/api/v1/core/addresses"

func TestAddressLifecycle(t *testing.T) {
	api := newTestAPI(t)

	id := api.create(addressesPath, `{
		"line1": "A", "line2": "B", "postal_code": "07012",
		"city": "Palma", "state": "IB", "country": "Spain"
	}`)

	got := api.get(addressesPath + "/" + id)
	assert.Equal(t, "A, B, 07012 Palma, IB, Spain", got["formatted_address"])
	assert.Nil(t, got["deleted_at"])
	assert.NotEmpty(t, got["created_at"])

	rr := api.request(http.MethodGet, addressesPath, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]map[string]interface{}](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, map[string]interface{}{"public_id": id, "formatted_address": "A, B, 07012 Palma, IB, Spain"}, list[0])

	// PUT replaces every field; omitted ones fall back to empty.
	rr = api.request(http.MethodPut, addressesPath+"/"+id, `{"line1": "C", "city": "Palma", "country": "Spain"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	replaced := decode[map[string]interface{}](t, rr)
	assert.Equal(t, "C, Palma, Spain", replaced["formatted_address"])
	assert.Equal(t, "", replaced["line2"])
	assert.Equal(t, id, replaced["public_id"])

	// PATCH only changes what it names.
	rr = api.request(http.MethodPatch, addressesPath+"/"+id, `{"line2": "Centre"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	patched := decode[map[string]interface{}](t, rr)
	assert.Equal(t, "C, Centre, Palma, Spain", patched["formatted_address"])

	rr = api.request(http.MethodDelete, addressesPath+"/"+id, "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = api.request(http.MethodGet, addressesPath+"/"+id, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Resource not found", detailMessage(t, rr))

	rr = api.request(http.MethodDelete, addressesPath+"/"+id, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAddressValidation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing line1", `{"city": "Palma"}`, "line1"},
		{"empty line1", `{"line1": ""}`, "line1"},
		{"line1 too long", `{"line1": "` + strings.Repeat("x", 256) + `"}`, "line1"},
		{"postal code too long", `{"line1": "A", "postal_code": "` + strings.Repeat("9", 21) + `"}`, "postal_code"},
		{"city too long", `{"line1": "A", "city": "` + strings.Repeat("x", 101) + `"}`, "city"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := api.request(http.MethodPost, addressesPath, tt.body)
			assert.Contains(t, fieldErrors(t, rr), tt.field)
		})
	}
}

func TestAddressPostalCodeIsTrimmed(t *testing.T) {
	api := newTestAPI(t)

	id := api.create(addressesPath, `{"line1": "A", "postal_code": "  07012 ", "city": "Palma"}`)
	got := api.get(addressesPath + "/" + id)
	assert.Equal(t, "07012", got["postal_code"])
	assert.Equal(t, "A, 07012 Palma", got["formatted_address"])
}

func TestAddressPatchNullOnRequiredField(t *testing.T) {
	api := newTestAPI(t)
	id := api.create(addressesPath, `{"line1": "A"}`)

	rr := api.request(http.MethodPatch, addressesPath+"/"+id, `{"line1": null}`)
	assert.Contains(t, fieldErrors(t, rr), "line1")

	got := api.get(addressesPath + "/" + id)
	assert.Equal(t, "A", got["line1"])
}

func TestAddressDeleteClearsReferences(t *testing.T) {
	api := newTestAPI(t)

	addressID := api.create(addressesPath, `{"line1": "Camí dels Reis", "city": "Palma"}`)
	venueID := api.create(venuesPath, `{"name": "Son Moix", "address_public_id": "`+addressID+`"}`)
	athleteID := api.create(athletesPath, `{
		"first_name": "Ana", "last_name": "Peleteiro", "email": "ana@example.com",
		"address_public_id": "`+addressID+`"
	}`)

	venue := api.get(venuesPath + "/" + venueID)
	require.NotNil(t, venue["address"])

	rr := api.request(http.MethodDelete, addressesPath+"/"+addressID, "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	venue = api.get(venuesPath + "/" + venueID)
	assert.Nil(t, venue["address"])
	assert.Equal(t, "Son Moix", venue["name"])

	athlete := api.get(athletesPath + "/" + athleteID)
	assert.Nil(t, athlete["address"])
}

func TestOrphanedAddresses(t *testing.T) {
	api := newTestAPI(t)

	used := api.create(addressesPath, `{"line1": "Used"}`)
	orphan := api.create(addressesPath, `{"line1": "Orphan"}`)
	api.create(venuesPath, `{"name": "Velòdrom", "address_public_id": "`+used+`"}`)

	rr := api.request(http.MethodGet, addressesPath+"/orphaned", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]map[string]interface{}](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, orphan, list[0]["public_id"])
}
