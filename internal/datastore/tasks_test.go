package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacube/mosaic-go/internal/conf"
	"github.com/datacube/mosaic-go/internal/errors"
)

// createTestStore opens an in-memory SQLite datastore with migrations applied.
func createTestStore(t *testing.T) Interface {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = ":memory:"

	store := New(settings)
	require.NotNil(t, store)
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// newTask builds a task with the given dedup tuple values and a fresh query id.
func newTask(queryID, title string, latMin float64) *CustomMosaicTask {
	task := &CustomMosaicTask{}
	task.Query = Query{
		QueryID:      queryID,
		UserID:       "tester",
		Title:        title,
		Description:  "None",
		Platform:     "LS7",
		Product:      "ls7_ledaps_NT",
		AreaID:       "NT",
		TimeStart:    time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		TimeEnd:      time.Date(2015, 6, 30, 0, 0, 0, 0, time.UTC),
		LatitudeMin:  latMin,
		LatitudeMax:  -10,
		LongitudeMin: 129,
		LongitudeMax: 138,
	}
	return task
}

// matchFor builds the match map corresponding to newTask's field values.
func matchFor(task *CustomMosaicTask) map[string]any {
	return map[string]any{
		"user_id":       task.Query.UserID,
		"title":         task.Query.Title,
		"description":   task.Query.Description,
		"platform":      task.Query.Platform,
		"product":       task.Query.Product,
		"area_id":       task.Query.AreaID,
		"time_start":    task.Query.TimeStart,
		"time_end":      task.Query.TimeEnd,
		"latitude_min":  task.Query.LatitudeMin,
		"latitude_max":  task.Query.LatitudeMax,
		"longitude_min": task.Query.LongitudeMin,
		"longitude_max": task.Query.LongitudeMax,
	}
}

func TestGetOrCreateTask(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	task := newTask("query-1", "First", -14.5)
	created, err := store.GetOrCreateTask(ctx, task, matchFor(task))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, task.ID)

	// An identical submission with a different candidate query id must
	// return the stored task untouched.
	duplicate := newTask("query-2", "First", -14.5)
	created, err = store.GetOrCreateTask(ctx, duplicate, matchFor(duplicate))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "query-1", duplicate.Query.QueryID)
	assert.Equal(t, task.ID, duplicate.ID)

	// A differing field value creates a new row.
	other := newTask("query-3", "First", -13.0)
	created, err = store.GetOrCreateTask(ctx, other, matchFor(other))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, task.ID, other.ID)
}

func TestGetOrCreateTaskUniqueIndexConflict(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	winner := newTask("query-1", "First", -14.5)
	_, err := store.GetOrCreateTask(ctx, winner, matchFor(winner))
	require.NoError(t, err)

	// A submission that matches on a different user but collides on the
	// dedup tuple (user_id is not part of the index) finds no existing row
	// and must surface the insert's unique index violation as a conflict.
	rival := newTask("query-2", "First", -14.5)
	rival.Query.UserID = "someone-else"
	_, err = store.GetOrCreateTask(ctx, rival, matchFor(rival))

	require.Error(t, err)
	assert.True(t, errors.IsConflict(err), "expected a conflict error, got: %v", err)
}

func TestGetOrCreateTaskValidation(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	_, err := store.GetOrCreateTask(ctx, nil, map[string]any{"title": "x"})
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	task := newTask("query-1", "First", -14.5)
	_, err = store.GetOrCreateTask(ctx, task, nil)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestGetTask(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	task := newTask("query-1", "First", -14.5)
	_, err := store.GetOrCreateTask(ctx, task, matchFor(task))
	require.NoError(t, err)

	found, err := store.GetTask(ctx, "query-1")
	require.NoError(t, err)
	assert.Equal(t, task.ID, found.ID)
	assert.Equal(t, "ls7_ledaps_NT", found.Query.Product)
	assert.Equal(t, StatusWait, found.Result.Status)
}

func TestGetTaskNotFound(t *testing.T) {
	store := createTestStore(t)

	_, err := store.GetTask(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestGetAllTasksPagination(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	for i, title := range []string{"A", "B", "C"} {
		task := newTask(string(rune('a'+i)), title, -14.5)
		_, err := store.GetOrCreateTask(ctx, task, matchFor(task))
		require.NoError(t, err)
	}

	tasks, total, err := store.GetAllTasks(ctx, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, tasks, 2)

	tasks, total, err = store.GetAllTasks(ctx, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, tasks, 1)
}

func TestGetTasksByUser(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	alice := newTask("query-1", "Alice Task", -14.5)
	alice.Query.UserID = "alice"
	_, err := store.GetOrCreateTask(ctx, alice, matchFor(alice))
	require.NoError(t, err)

	bob := newTask("query-2", "Bob Task", -14.5)
	bob.Query.UserID = "bob"
	_, err = store.GetOrCreateTask(ctx, bob, matchFor(bob))
	require.NoError(t, err)

	tasks, total, err := store.GetTasksByUser(ctx, "alice", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "alice", tasks[0].Query.UserID)
}

func TestUpdateTaskMetadata(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	task := newTask("query-1", "First", -14.5)
	_, err := store.GetOrCreateTask(ctx, task, matchFor(task))
	require.NoError(t, err)

	metadata := &Metadata{
		AcquisitionList:                     "2015-01-08,2015-01-24",
		CleanPixelsPerAcquisition:           "10432,9876",
		CleanPixelPercentagesPerAcquisition: "87.2,82.5",
		SatelliteList:                       "LANDSAT_7,LANDSAT_7",
		CleanPixelCount:                     20308,
		PixelCount:                          23500,
	}
	require.NoError(t, store.UpdateTaskMetadata(ctx, "query-1", metadata))

	found, err := store.GetTask(ctx, "query-1")
	require.NoError(t, err)
	assert.Equal(t, 20308, found.Metadata.CleanPixelCount)
	assert.Len(t, found.Metadata.AcquisitionRows(), 2)

	err = store.UpdateTaskMetadata(ctx, "missing", metadata)
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateTaskResultAndComplete(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	task := newTask("query-1", "First", -14.5)
	_, err := store.GetOrCreateTask(ctx, task, matchFor(task))
	require.NoError(t, err)

	result := &Result{
		Status:          StatusRun,
		ScenesProcessed: 3,
		TotalScenes:     12,
		ResultPath:      "/data/results/query-1.png",
		AnimationPath:   "None",
	}
	require.NoError(t, store.UpdateTaskResult(ctx, "query-1", result))

	found, err := store.GetTask(ctx, "query-1")
	require.NoError(t, err)
	assert.Equal(t, StatusRun, found.Result.Status)
	assert.InDelta(t, 0.25, found.Result.Progress(), 1e-9)

	end := time.Date(2015, 7, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.CompleteTask(ctx, "query-1", end))

	found, err = store.GetTask(ctx, "query-1")
	require.NoError(t, err)
	assert.True(t, found.Query.Complete)
	assert.Equal(t, StatusOK, found.Result.Status)

	err = store.CompleteTask(ctx, "missing", end)
	assert.True(t, errors.IsNotFound(err))
}

func TestIsConstraintViolation(t *testing.T) {
	t.Parallel()

	assert.False(t, isConstraintViolation(nil))
	assert.True(t, isConstraintViolation(errors.NewStd("UNIQUE constraint failed: custom_mosaic_tasks.title")))
	assert.True(t, isConstraintViolation(errors.NewStd("Error 1062: Duplicate entry")))
	assert.False(t, isConstraintViolation(errors.NewStd("connection refused")))
}
