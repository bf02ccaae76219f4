// internal/api/v2/api_test.go
package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacube/mosaic-go/internal/conf"
	"github.com/datacube/mosaic-go/internal/datastore"
	"github.com/datacube/mosaic-go/internal/mosaic"
)

// newTestController builds a controller backed by a seeded in-memory SQLite
// datastore with all routes registered.
func newTestController(t *testing.T) (*Controller, *echo.Echo) {
	t.Helper()

	settings := &conf.Settings{}
	settings.WebServer.Port = "8042"
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = ":memory:"

	store := datastore.New(settings)
	require.NotNil(t, store)
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })

	fixtures := &datastore.LookupFixtures{
		Satellites: []datastore.Satellite{
			{SatelliteID: "LS7", Name: "Landsat 7", ProductPrefix: "ls7_ledaps_"},
			{SatelliteID: "LS8", Name: "Landsat 8", ProductPrefix: "ls8_lasrc_"},
		},
		Areas: []datastore.Area{
			{AreaID: "NT", Name: "Northern Territory", LatitudeMin: -20, LatitudeMax: -10, LongitudeMin: 129, LongitudeMax: 138},
		},
		Compositors: []datastore.Compositor{
			{CompositorID: "most_recent", Name: "Most Recent Pixel"},
		},
		ResultTypes: []datastore.ResultType{
			{ResultID: "true_color", Name: "True Color", Red: "red", Green: "green", Blue: "blue"},
		},
	}
	require.NoError(t, store.SeedLookups(context.Background(), fixtures))

	resolver := mosaic.NewResolver(store, time.Minute, nil)
	e := echo.New()
	logger := log.New(io.Discard, "", 0)

	controller, err := New(e, store, settings, resolver, logger, nil)
	require.NoError(t, err)
	t.Cleanup(controller.Shutdown)

	return controller, e
}

// doRequest performs a request against the echo instance and returns the recorder.
func doRequest(e *echo.Echo, method, target, contentType, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNewRequiresDependencies(t *testing.T) {
	e := echo.New()
	settings := &conf.Settings{}

	_, err := New(e, nil, settings, nil, nil, nil)
	assert.Error(t, err)
}

func TestHealthCheckReportsDatabaseStatus(t *testing.T) {
	_, e := newTestController(t)

	rec := doRequest(e, http.MethodGet, "/api/v2/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database_status"])
}

func TestErrorResponseCarriesCorrelationID(t *testing.T) {
	_, e := newTestController(t)

	// Unknown platform produces a structured error payload
	rec := doRequest(e, http.MethodPost, "/api/v2/mosaic/queries",
		echo.MIMEApplicationForm, "platform=SENTINEL&area_id=NT")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeJSON[ErrorResponse](t, rec)
	assert.Len(t, body.CorrelationID, 8)
	assert.NotEmpty(t, body.Error)
	assert.Equal(t, http.StatusNotFound, body.Code)
}
