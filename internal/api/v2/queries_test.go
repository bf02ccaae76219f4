// internal/api/v2/queries_test.go
package api

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitQueryCreatesTask(t *testing.T) {
	_, e := newTestController(t)

	rec := doRequest(e, http.MethodPost, "/api/v2/mosaic/queries",
		echo.MIMEApplicationForm,
		"platform=LS7&area_id=NT&time_start=2015-01-01&time_end=2015-06-30"+
			"&latitude_min=-14.5&latitude_max=-12.0&longitude_min=130.0&longitude_max=132.5"+
			"&query_type=true_color&compositor=most_recent")
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	body := decodeJSON[SubmitQueryResponse](t, rec)
	assert.True(t, body.Created)
	assert.Equal(t, "ls7_ledaps_NT", body.Product)
	assert.Equal(t, "Custom Mosaic Query", body.Title)
	assert.Equal(t, "None", body.Description)
	assert.NotEmpty(t, body.QueryID)
	assert.Equal(t, "WAIT", body.Status)
}

func TestSubmitQueryReturnsExistingTask(t *testing.T) {
	_, e := newTestController(t)

	form := "platform=LS7&area_id=NT&title=Repeat"
	first := doRequest(e, http.MethodPost, "/api/v2/mosaic/queries",
		echo.MIMEApplicationForm, form)
	require.Equal(t, http.StatusCreated, first.Code)
	firstBody := decodeJSON[SubmitQueryResponse](t, first)

	second := doRequest(e, http.MethodPost, "/api/v2/mosaic/queries",
		echo.MIMEApplicationForm, form)
	require.Equal(t, http.StatusOK, second.Code)
	secondBody := decodeJSON[SubmitQueryResponse](t, second)

	assert.False(t, secondBody.Created)
	assert.Equal(t, firstBody.QueryID, secondBody.QueryID)
}

func TestSubmitQueryAcceptsJSON(t *testing.T) {
	_, e := newTestController(t)

	rec := doRequest(e, http.MethodPost, "/api/v2/mosaic/queries",
		echo.MIMEApplicationJSON,
		`{"platform": "LS8", "area_id": "NT", "title": "JSON Submission"}`)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	body := decodeJSON[SubmitQueryResponse](t, rec)
	assert.Equal(t, "ls8_lasrc_NT", body.Product)
	assert.Equal(t, "JSON Submission", body.Title)
}

func TestSubmitQueryRejectsMalformedJSON(t *testing.T) {
	_, e := newTestController(t)

	rec := doRequest(e, http.MethodPost, "/api/v2/mosaic/queries",
		echo.MIMEApplicationJSON, `{"platform": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitQueryValidationFailures(t *testing.T) {
	_, e := newTestController(t)

	tests := []struct {
		name string
		form string
		code int
	}{
		{"missing platform", "area_id=NT", http.StatusBadRequest},
		{"missing area", "platform=LS7", http.StatusBadRequest},
		{"unknown platform", "platform=LS9&area_id=NT", http.StatusNotFound},
		{"unknown area", "platform=LS7&area_id=XX", http.StatusNotFound},
		{"bad latitude", "platform=LS7&area_id=NT&latitude_min=south", http.StatusBadRequest},
		{"bad date", "platform=LS7&area_id=NT&time_start=whenever", http.StatusBadRequest},
		{"unknown result type", "platform=LS7&area_id=NT&query_type=nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodPost, "/api/v2/mosaic/queries",
				echo.MIMEApplicationForm, tt.form)
			assert.Equal(t, tt.code, rec.Code, "body: %s", rec.Body.String())
		})
	}
}

func TestGetQuery(t *testing.T) {
	_, e := newTestController(t)

	created := doRequest(e, http.MethodPost, "/api/v2/mosaic/queries",
		echo.MIMEApplicationForm, "platform=LS7&area_id=NT")
	require.Equal(t, http.StatusCreated, created.Code)
	createdBody := decodeJSON[SubmitQueryResponse](t, created)

	rec := doRequest(e, http.MethodGet, "/api/v2/mosaic/queries/"+createdBody.QueryID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON[QueryResponse](t, rec)
	assert.Equal(t, createdBody.QueryID, body.QueryID)
	assert.Equal(t, "ls7_ledaps_NT", body.Product)
}

func TestGetQueryNotFound(t *testing.T) {
	_, e := newTestController(t)

	rec := doRequest(e, http.MethodGet, "/api/v2/mosaic/queries/no-such-query", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListQueries(t *testing.T) {
	_, e := newTestController(t)

	forms := []string{
		"platform=LS7&area_id=NT&user_id=alice&title=First",
		"platform=LS7&area_id=NT&user_id=alice&title=Second",
		"platform=LS7&area_id=NT&user_id=bob&title=Third",
	}
	for _, form := range forms {
		rec := doRequest(e, http.MethodPost, "/api/v2/mosaic/queries",
			echo.MIMEApplicationForm, form)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(e, http.MethodGet, "/api/v2/mosaic/queries", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeJSON[QueryListResponse](t, rec)
	assert.EqualValues(t, 3, all.Total)
	assert.Len(t, all.Queries, 3)

	rec = doRequest(e, http.MethodGet, "/api/v2/mosaic/queries?user_id=alice", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	filtered := decodeJSON[QueryListResponse](t, rec)
	assert.EqualValues(t, 2, filtered.Total)
	for _, q := range filtered.Queries {
		assert.Equal(t, "alice", q.UserID)
	}

	rec = doRequest(e, http.MethodGet, "/api/v2/mosaic/queries?limit=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	limited := decodeJSON[QueryListResponse](t, rec)
	assert.EqualValues(t, 3, limited.Total)
	assert.Len(t, limited.Queries, 2)
	assert.Equal(t, 2, limited.Limit)
}

func TestListQueriesInvalidPagination(t *testing.T) {
	_, e := newTestController(t)

	for _, target := range []string{
		"/api/v2/mosaic/queries?limit=zero",
		"/api/v2/mosaic/queries?limit=-1",
		"/api/v2/mosaic/queries?offset=-5",
	} {
		rec := doRequest(e, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target: %s", target)
	}
}
