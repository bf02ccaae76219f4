package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacube/mosaic-go/internal/errors"
)

func seedFixtures() *LookupFixtures {
	return &LookupFixtures{
		Satellites: []Satellite{
			{SatelliteID: "LS7", Name: "Landsat 7", ProductPrefix: "ls7_ledaps_"},
			{SatelliteID: "LS8", Name: "Landsat 8", ProductPrefix: "ls8_lasrc_"},
		},
		Areas: []Area{
			{AreaID: "NT", Name: "Northern Territory", LatitudeMin: -20, LatitudeMax: -10, LongitudeMin: 129, LongitudeMax: 138},
		},
		Compositors: []Compositor{
			{CompositorID: "most_recent", Name: "Most Recent Pixel"},
			{CompositorID: "least_cloudy", Name: "Least Cloudy"},
		},
		AnimationTypes: []AnimationType{
			{TypeID: "scene", Name: "Scene by Scene", DataVariable: "None"},
		},
		ResultTypes: []ResultType{
			{ResultID: "true_color", Name: "True Color", Red: "red", Green: "green", Blue: "blue"},
		},
	}
}

func TestSeedLookupsAndGetters(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedLookups(ctx, seedFixtures()))

	satellite, err := store.GetSatellite(ctx, "LS7")
	require.NoError(t, err)
	assert.Equal(t, "ls7_ledaps_", satellite.ProductPrefix)

	area, err := store.GetArea(ctx, "NT")
	require.NoError(t, err)
	assert.Equal(t, "Northern Territory", area.Name)

	compositor, err := store.GetCompositor(ctx, "least_cloudy")
	require.NoError(t, err)
	assert.Equal(t, "Least Cloudy", compositor.Name)

	animationType, err := store.GetAnimationType(ctx, "scene")
	require.NoError(t, err)
	assert.Equal(t, "None", animationType.DataVariable)

	resultType, err := store.GetResultType(ctx, "true_color")
	require.NoError(t, err)
	assert.Equal(t, "blue", resultType.Blue)
	assert.Equal(t, "red", resultType.Fill, "fill should take the column default")
}

func TestSeedLookupsIsIdempotent(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedLookups(ctx, seedFixtures()))

	// Re-seeding with an updated name must update in place, not duplicate.
	updated := seedFixtures()
	updated.Satellites[0].Name = "Landsat 7 ETM+"
	require.NoError(t, store.SeedLookups(ctx, updated))

	satellites, err := store.GetAllSatellites(ctx)
	require.NoError(t, err)
	require.Len(t, satellites, 2)
	assert.Equal(t, "Landsat 7 ETM+", satellites[0].Name)
}

func TestSeedLookupsNilFixtures(t *testing.T) {
	store := createTestStore(t)

	err := store.SeedLookups(context.Background(), nil)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestLookupGettersNotFound(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	_, err := store.GetSatellite(ctx, "SENTINEL2")
	assert.True(t, errors.IsNotFound(err))

	_, err = store.GetArea(ctx, "XX")
	assert.True(t, errors.IsNotFound(err))

	_, err = store.GetResultType(ctx, "nope")
	assert.True(t, errors.IsNotFound(err))
}

func TestGetAllListersOrder(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedLookups(ctx, seedFixtures()))

	satellites, err := store.GetAllSatellites(ctx)
	require.NoError(t, err)
	require.Len(t, satellites, 2)
	assert.Equal(t, "LS7", satellites[0].SatelliteID)
	assert.Equal(t, "LS8", satellites[1].SatelliteID)

	compositors, err := store.GetAllCompositors(ctx)
	require.NoError(t, err)
	require.Len(t, compositors, 2)
	assert.Equal(t, "least_cloudy", compositors[0].CompositorID)
}
