package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const venuesPath = "/api/v1/inventory/venues"

func TestVenueDefaultsAndCapacity(t *testing.T) {
	api := newTestAPI(t)

	id := api.create(venuesPath, `{"name": "Pista Municipal", "capacity": 0}`)
	got := api.get(venuesPath + "/" + id)
	assert.Equal(t, "field", got["venue_type"])
	assert.Equal(t, float64(0), got["capacity"])
	assert.Equal(t, false, got["indoor"])
	assert.Nil(t, got["address"])

	rr := api.request(http.MethodPost, venuesPath, `{"name": "Pista", "capacity": -1}`)
	assert.Contains(t, fieldErrors(t, rr), "capacity")

	rr = api.request(http.MethodPost, venuesPath, `{"name": "Pista", "venue_type": "velodrome"}`)
	assert.Contains(t, fieldErrors(t, rr), "venue_type")

	rr = api.request(http.MethodPost, venuesPath, `{"venue_type": "track"}`)
	assert.Contains(t, fieldErrors(t, rr), "name")
}

func TestVenueUnknownAddressIsNotFound(t *testing.T) {
	api := newTestAPI(t)

	rr := api.request(http.MethodPost, venuesPath, `{"name": "Son Moix", "address_public_id": "missing"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.request(http.MethodGet, venuesPath, "")
	assert.Empty(t, decode[[]map[string]interface{}](t, rr))
}

func TestVenuePutClearsOmittedAddress(t *testing.T) {
	api := newTestAPI(t)

	addressID := api.create(addressesPath, `{"line1": "Carrer de Cotlliure"}`)
	id := api.create(venuesPath, `{"name": "Príncipes de España", "venue_type": "stadium", "address_public_id": "`+addressID+`"}`)

	rr := api.request(http.MethodPatch, venuesPath+"/"+id, `{"indoor": true}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	patched := decode[map[string]interface{}](t, rr)
	assert.Equal(t, true, patched["indoor"])
	assert.Equal(t, "stadium", patched["venue_type"])
	require.NotNil(t, patched["address"])

	rr = api.request(http.MethodPut, venuesPath+"/"+id, `{"name": "Príncipes de España", "venue_type": "stadium"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	replaced := decode[map[string]interface{}](t, rr)
	assert.Nil(t, replaced["address"])
	assert.Equal(t, false, replaced["indoor"])
}

func TestVenuePatchAddressStates(t *testing.T) {
	api := newTestAPI(t)

	first := api.create(addressesPath, `{"line1": "First"}`)
	second := api.create(addressesPath, `{"line1": "Second"}`)
	id := api.create(venuesPath, `{"name": "Gimnàs", "venue_type": "gymnasium", "address_public_id": "`+first+`"}`)

	addressOf := func(body map[string]interface{}) interface{} {
		addr, ok := body["address"].(map[string]interface{})
		if !ok {
			return nil
		}
		return addr["public_id"]
	}

	rr := api.request(http.MethodPatch, venuesPath+"/"+id, `{"capacity": 300}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, first, addressOf(decode[map[string]interface{}](t, rr)))

	rr = api.request(http.MethodPatch, venuesPath+"/"+id, `{"address_public_id": "`+second+`"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, second, addressOf(decode[map[string]interface{}](t, rr)))

	rr = api.request(http.MethodPatch, venuesPath+"/"+id, `{"address_public_id": "nope"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.request(http.MethodPatch, venuesPath+"/"+id, `{"address_public_id": null}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, addressOf(decode[map[string]interface{}](t, rr)))

	rr = api.request(http.MethodPatch, venuesPath+"/"+id, `{"capacity": null}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[map[string]interface{}](t, rr)["capacity"])
}
