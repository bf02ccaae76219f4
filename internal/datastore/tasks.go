// tasks.go: persistence operations for custom mosaic tasks
package datastore

import (
	"context"
	"strings"
	"time"

	"github.com/datacube/mosaic-go/internal/errors"
	"gorm.io/gorm"
)

// GetOrCreateTask atomically fetches the task matching the given field set or
// persists the provided task when no match exists. The match map keys are
// column names of the task uniqueness tuple; lookup and insert run inside one
// transaction so a concurrent identical submission surfaces as a constraint
// violation instead of a silent duplicate.
func (ds *DataStore) GetOrCreateTask(ctx context.Context, task *CustomMosaicTask, match map[string]any) (bool, error) {
	if task == nil {
		return false, validationError("task must not be nil", "task", nil)
	}
	if len(match) == 0 {
		return false, validationError("match fields must not be empty", "match", match)
	}

	created := false
	start := time.Now()

	err := ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var matches []CustomMosaicTask
		// Limit 2 is enough to detect ambiguity without scanning further
		if err := tx.Where(match).Limit(2).Find(&matches).Error; err != nil {
			return dbError(err, "get_or_create_task", errors.PriorityHigh)
		}

		switch len(matches) {
		case 0:
			if err := tx.Create(task).Error; err != nil {
				if isConstraintViolation(err) {
					// A concurrent identical submission won the insert race
					return conflictError(err, "get_or_create_task", "unique_task_tuple",
						"query_id", task.Query.QueryID)
				}
				return dbError(err, "get_or_create_task", errors.PriorityHigh)
			}
			created = true
			return nil
		case 1:
			*task = matches[0]
			return nil
		default:
			// The uniqueness index should make this unreachable
			return conflictError(errors.NewStd("multiple tasks match the full field set"),
				"get_or_create_task", "ambiguous_match", "match_count", len(matches))
		}
	})
	recordOperation("get_or_create_task", err, start)
	if err != nil {
		return false, err
	}

	getLogger().Debug("task resolved",
		"query_id", task.Query.QueryID,
		"created", created,
		"duration_ms", time.Since(start).Milliseconds())

	return created, nil
}

// GetTask retrieves a task by its public query UUID.
func (ds *DataStore) GetTask(ctx context.Context, queryID string) (CustomMosaicTask, error) {
	var task CustomMosaicTask
	if err := ds.DB.WithContext(ctx).Where("query_id = ?", queryID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return task, notFoundError("task", queryID)
		}
		return task, dbError(err, "get_task", "", "query_id", queryID)
	}
	return task, nil
}

// GetAllTasks retrieves tasks ordered by most recent first, with pagination.
func (ds *DataStore) GetAllTasks(ctx context.Context, limit, offset int) ([]CustomMosaicTask, int64, error) {
	var tasks []CustomMosaicTask
	var total int64

	if err := ds.DB.WithContext(ctx).Model(&CustomMosaicTask{}).Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "count_tasks", "")
	}
	recordTaskCount(total)

	err := ds.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, dbError(err, "get_all_tasks", "")
	}

	return tasks, total, nil
}

// GetTasksByUser retrieves a user's tasks ordered by most recent first.
func (ds *DataStore) GetTasksByUser(ctx context.Context, userID string, limit, offset int) ([]CustomMosaicTask, int64, error) {
	var tasks []CustomMosaicTask
	var total int64

	if err := ds.DB.WithContext(ctx).Model(&CustomMosaicTask{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "count_user_tasks", "", "user_id", userID)
	}

	err := ds.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, dbError(err, "get_user_tasks", "", "user_id", userID)
	}

	return tasks, total, nil
}

// UpdateTaskMetadata stores processing-derived metadata on an existing task.
func (ds *DataStore) UpdateTaskMetadata(ctx context.Context, queryID string, metadata *Metadata) error {
	if metadata == nil {
		return validationError("metadata must not be nil", "metadata", nil)
	}

	result := ds.DB.WithContext(ctx).Model(&CustomMosaicTask{}).
		Where("query_id = ?", queryID).
		Updates(map[string]any{
			"acquisition_list":                        metadata.AcquisitionList,
			"clean_pixels_per_acquisition":            metadata.CleanPixelsPerAcquisition,
			"clean_pixel_percentages_per_acquisition": metadata.CleanPixelPercentagesPerAcquisition,
			"satellite_list":                          metadata.SatelliteList,
			"clean_pixel_count":                       metadata.CleanPixelCount,
			"pixel_count":                             metadata.PixelCount,
		})
	if result.Error != nil {
		return dbError(result.Error, "update_task_metadata", "", "query_id", queryID)
	}
	if result.RowsAffected == 0 {
		return notFoundError("task", queryID)
	}
	return nil
}

// UpdateTaskResult stores output artifact locations and processing status on an existing task.
func (ds *DataStore) UpdateTaskResult(ctx context.Context, queryID string, taskResult *Result) error {
	if taskResult == nil {
		return validationError("result must not be nil", "result", nil)
	}

	result := ds.DB.WithContext(ctx).Model(&CustomMosaicTask{}).
		Where("query_id = ?", queryID).
		Updates(map[string]any{
			"status":             taskResult.Status,
			"scenes_processed":   taskResult.ScenesProcessed,
			"total_scenes":       taskResult.TotalScenes,
			"result_path":        taskResult.ResultPath,
			"result_filled_path": taskResult.ResultFilledPath,
			"animation_path":     taskResult.AnimationPath,
			"data_path":          taskResult.DataPath,
			"data_netcdf_path":   taskResult.DataNetcdfPath,
		})
	if result.Error != nil {
		return dbError(result.Error, "update_task_result", "", "query_id", queryID)
	}
	if result.RowsAffected == 0 {
		return notFoundError("task", queryID)
	}
	return nil
}

// CompleteTask marks a task's processing as finished.
func (ds *DataStore) CompleteTask(ctx context.Context, queryID string, executionEnd time.Time) error {
	result := ds.DB.WithContext(ctx).Model(&CustomMosaicTask{}).
		Where("query_id = ?", queryID).
		Updates(map[string]any{
			"complete":      true,
			"execution_end": executionEnd,
			"status":        StatusOK,
		})
	if result.Error != nil {
		return dbError(result.Error, "complete_task", "", "query_id", queryID)
	}
	if result.RowsAffected == 0 {
		return notFoundError("task", queryID)
	}
	return nil
}

// isConstraintViolation checks if an error indicates a uniqueness constraint failure.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "unique constraint") ||
		strings.Contains(errStr, "constraint failed") ||
		strings.Contains(errStr, "duplicate entry")
}
