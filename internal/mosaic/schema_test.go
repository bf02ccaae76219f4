package mosaic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noRefs is a reference resolver for tests that never expect reference fields.
func noRefs(kind ReferenceKind, externalID string) (uint, error) {
	panic("unexpected reference resolution: " + string(kind) + "/" + externalID)
}

func TestFilterFieldsDropsUndeclaredKeys(t *testing.T) {
	t.Parallel()

	form := FormData{
		"platform":      "LS7",
		"area_id":       "NT",
		"csrf_token":    "abc123",
		"submit_button": "Submit",
	}

	fields, err := FilterFields(form, noRefs)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"platform": "LS7",
		"area_id":  "NT",
	}, fields)
}

func TestFilterFieldsSkipsAbsentFields(t *testing.T) {
	t.Parallel()

	fields, err := FilterFields(FormData{"title": "My Query"}, noRefs)
	require.NoError(t, err)

	assert.Len(t, fields, 1)
	assert.NotContains(t, fields, "time_start")
	assert.NotContains(t, fields, "latitude_min")
}

func TestFilterFieldsParsesValues(t *testing.T) {
	t.Parallel()

	form := FormData{
		"latitude_min":  "-14.5",
		"latitude_max":  "-10.0",
		"longitude_min": "130.25",
		"longitude_max": "135",
		"time_start":    "2015-01-01",
		"time_end":      "12/31/2015",
	}

	fields, err := FilterFields(form, noRefs)
	require.NoError(t, err)

	assert.InDelta(t, -14.5, fields["latitude_min"], 1e-9)
	assert.InDelta(t, 135.0, fields["longitude_max"], 1e-9)
	assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), fields["time_start"])
	assert.Equal(t, time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC), fields["time_end"])
}

func TestFilterFieldsRejectsMalformedValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		form FormData
	}{
		{"bad float", FormData{"latitude_min": "south"}},
		{"bad date", FormData{"time_start": "yesterday"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := FilterFields(tt.form, noRefs)
			assert.Error(t, err)
		})
	}
}

func TestFilterFieldsResolvesReferences(t *testing.T) {
	t.Parallel()

	resolved := map[ReferenceKind]string{}
	resolver := func(kind ReferenceKind, externalID string) (uint, error) {
		resolved[kind] = externalID
		return 42, nil
	}

	form := FormData{
		"query_type":       "true_color",
		"animated_product": "scene",
		"compositor":       "most_recent",
	}

	fields, err := FilterFields(form, resolver)
	require.NoError(t, err)

	assert.Equal(t, uint(42), fields["query_type_id"])
	assert.Equal(t, uint(42), fields["animated_product_id"])
	assert.Equal(t, uint(42), fields["compositor_id"])
	assert.Equal(t, map[ReferenceKind]string{
		RefResultType:    "true_color",
		RefAnimationType: "scene",
		RefCompositor:    "most_recent",
	}, resolved)
}
