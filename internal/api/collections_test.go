package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTime(t *testing.T, v interface{}) time.Time {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "expected a timestamp, got %v", v)
	ts, err := time.Parse(time.RFC3339Nano, s)
	require.NoError(t, err)
	return ts
}

func TestSoftDeleteAndRestore(t *testing.T) {
	api := newTestAPI(t)
	id := api.create(seasonsPath, `{"name": "2025", "start_date": "2025-01-01", "end_date": "2025-12-31"}`)
	before := api.get(seasonsPath + "/" + id)

	api.clock.Advance(time.Minute)
	rr := api.request(http.MethodPost, seasonsPath+"/"+id+"/soft-delete", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	deleted := decode[map[string]interface{}](t, rr)
	assert.True(t, parseTime(t, deleted["deleted_at"]).Equal(testEpoch.Add(time.Minute)))

	// Hidden from the default views.
	assert.Equal(t, http.StatusNotFound, api.request(http.MethodGet, seasonsPath+"/"+id, "").Code)
	assert.Empty(t, decode[[]map[string]interface{}](t, api.request(http.MethodGet, seasonsPath, "")))

	// Visible in the all-records and deleted views.
	all := decode[[]map[string]interface{}](t, api.request(http.MethodGet, seasonsPath+"?include_deleted=true", ""))
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0]["public_id"])
	gone := decode[[]map[string]interface{}](t, api.request(http.MethodGet, seasonsPath+"/deleted", ""))
	require.Len(t, gone, 1)

	// Soft-deleting again refreshes the marker.
	api.clock.Advance(time.Minute)
	rr = api.request(http.MethodPost, seasonsPath+"/"+id+"/soft-delete", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, parseTime(t, decode[map[string]interface{}](t, rr)["deleted_at"]).Equal(testEpoch.Add(2*time.Minute)))

	api.clock.Advance(time.Minute)
	rr = api.request(http.MethodPost, seasonsPath+"/"+id+"/restore", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	restored := decode[map[string]interface{}](t, rr)
	assert.Nil(t, restored["deleted_at"])
	assert.True(t, parseTime(t, restored["updated_at"]).After(parseTime(t, before["updated_at"])))
	for _, field := range []string{"public_id", "name", "start_date", "end_date", "created_at"} {
		assert.Equal(t, before[field], restored[field], field)
	}

	api.get(seasonsPath + "/" + id)
	assert.Empty(t, decode[[]map[string]interface{}](t, api.request(http.MethodGet, seasonsPath+"/deleted", "")))
}

func TestSoftDeletedRowsRejectWrites(t *testing.T) {
	api := newTestAPI(t)
	id := api.create(addressesPath, `{"line1": "A"}`)
	require.Equal(t, http.StatusOK, api.request(http.MethodPost, addressesPath+"/"+id+"/soft-delete", "").Code)

	assert.Equal(t, http.StatusNotFound, api.request(http.MethodPut, addressesPath+"/"+id, `{"line1": "B"}`).Code)
	assert.Equal(t, http.StatusNotFound, api.request(http.MethodPatch, addressesPath+"/"+id, `{"line1": "B"}`).Code)
	assert.Equal(t, http.StatusNotFound, api.request(http.MethodDelete, addressesPath+"/"+id, "").Code)

	// A soft-deleted address cannot be referenced either.
	rr := api.request(http.MethodPost, venuesPath, `{"name": "Pista", "address_public_id": "`+id+`"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSoftDeleteUnknownRecord(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{addressesPath, venuesPath, athletesPath, coachesPath, seasonsPath, competitionsPath, trainingsPath} {
		assert.Equal(t, http.StatusNotFound, api.request(http.MethodPost, path+"/missing/soft-delete", "").Code, path)
		assert.Equal(t, http.StatusNotFound, api.request(http.MethodPost, path+"/missing/restore", "").Code, path)
		assert.Equal(t, http.StatusNotFound, api.request(http.MethodGet, path+"/missing", "").Code, path)
	}
}

func TestIncludeDeletedMustBeBoolean(t *testing.T) {
	api := newTestAPI(t)

	rr := api.request(http.MethodGet, venuesPath+"?include_deleted=maybe", "")
	assert.Contains(t, fieldErrors(t, rr), "include_deleted")

	rr = api.request(http.MethodGet, venuesPath+"?include_deleted=false", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreatedRecordsHaveDistinctPublicIDs(t *testing.T) {
	api := newTestAPI(t)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		id := api.create(addressesPath, `{"line1": "Carrer Major"}`)
		assert.False(t, seen[id], "duplicate public id %s", id)
		seen[id] = true
	}
}
