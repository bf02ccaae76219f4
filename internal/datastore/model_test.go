package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataAcquisitionRows(t *testing.T) {
	t.Parallel()

	m := &Metadata{
		AcquisitionList:                     "2015-01-08,2015-01-24,2015-02-09",
		CleanPixelsPerAcquisition:           "10432,9876,11020",
		CleanPixelPercentagesPerAcquisition: "87.2,82.5,92.1",
		SatelliteList:                       "LANDSAT_7,LANDSAT_7,LANDSAT_7",
	}

	rows := m.AcquisitionRows()
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"2015-01-08", "10432", "87.2", "LANDSAT_7"}, rows[0])
	assert.Equal(t, []string{"2015-02-09", "11020", "92.1", "LANDSAT_7"}, rows[2])
}

func TestMetadataAcquisitionRowsPadsShortSequences(t *testing.T) {
	t.Parallel()

	m := &Metadata{
		AcquisitionList:           "2015-01-08,2015-01-24",
		CleanPixelsPerAcquisition: "10432",
	}

	rows := m.AcquisitionRows()
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"2015-01-24", "", "", ""}, rows[1])
}

func TestMetadataAcquisitionRowsEmpty(t *testing.T) {
	t.Parallel()

	m := &Metadata{}
	assert.Empty(t, m.AcquisitionRows())
}

func TestResultProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   Result
		expected float64
	}{
		{"no scenes", Result{}, 0},
		{"halfway", Result{ScenesProcessed: 5, TotalScenes: 10}, 0.5},
		{"complete", Result{ScenesProcessed: 10, TotalScenes: 10}, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expected, tt.result.Progress(), 1e-9)
		})
	}
}
