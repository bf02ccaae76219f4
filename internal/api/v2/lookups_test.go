// internal/api/v2/lookups_test.go
package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacube/mosaic-go/internal/datastore"
)

func TestListSatellites(t *testing.T) {
	_, e := newTestController(t)

	rec := doRequest(e, http.MethodGet, "/api/v2/mosaic/satellites", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	satellites := decodeJSON[[]datastore.Satellite](t, rec)
	require.Len(t, satellites, 2)
	assert.Equal(t, "LS7", satellites[0].SatelliteID)
	assert.Equal(t, "ls7_ledaps_", satellites[0].ProductPrefix)
}

func TestListAreas(t *testing.T) {
	_, e := newTestController(t)

	rec := doRequest(e, http.MethodGet, "/api/v2/mosaic/areas", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	areas := decodeJSON[[]datastore.Area](t, rec)
	require.Len(t, areas, 1)
	assert.Equal(t, "NT", areas[0].AreaID)
	assert.InDelta(t, -20.0, areas[0].LatitudeMin, 1e-9)
}

func TestListCompositors(t *testing.T) {
	_, e := newTestController(t)

	rec := doRequest(e, http.MethodGet, "/api/v2/mosaic/compositors", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	compositors := decodeJSON[[]datastore.Compositor](t, rec)
	require.Len(t, compositors, 1)
	assert.Equal(t, "most_recent", compositors[0].CompositorID)
}

func TestListAnimationTypes(t *testing.T) {
	_, e := newTestController(t)

	rec := doRequest(e, http.MethodGet, "/api/v2/mosaic/animation-types", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	animationTypes := decodeJSON[[]datastore.AnimationType](t, rec)
	assert.Empty(t, animationTypes)
}

func TestListResultTypes(t *testing.T) {
	_, e := newTestController(t)

	rec := doRequest(e, http.MethodGet, "/api/v2/mosaic/result-types", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resultTypes := decodeJSON[[]datastore.ResultType](t, rec)
	require.Len(t, resultTypes, 1)
	assert.Equal(t, "true_color", resultTypes[0].ResultID)
	assert.Equal(t, "red", resultTypes[0].Red)
}
