// internal/api/v2/queries.go
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/datacube/mosaic-go/internal/datastore"
	"github.com/datacube/mosaic-go/internal/errors"
	"github.com/datacube/mosaic-go/internal/mosaic"
)

// Pagination bounds for query listing.
const (
	defaultQueryLimit = 100
	maxQueryLimit     = 1000
)

// QueryResponse is the JSON representation of a mosaic task.
type QueryResponse struct {
	QueryID     string `json:"query_id"`
	UserID      string `json:"user_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`

	Platform string `json:"platform"`
	Product  string `json:"product"`
	AreaID   string `json:"area_id"`

	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end"`

	LatitudeMin  float64 `json:"latitude_min"`
	LatitudeMax  float64 `json:"latitude_max"`
	LongitudeMin float64 `json:"longitude_min"`
	LongitudeMax float64 `json:"longitude_max"`

	QueryTypeID       uint `json:"query_type_id,omitempty"`
	AnimatedProductID uint `json:"animated_product_id,omitempty"`
	CompositorID      uint `json:"compositor_id,omitempty"`

	Complete        bool    `json:"complete"`
	Status          string  `json:"status"`
	Progress        float64 `json:"progress"`
	ScenesProcessed int     `json:"scenes_processed"`
	TotalScenes     int     `json:"total_scenes"`

	CreatedAt time.Time `json:"created_at"`
}

// SubmitQueryResponse extends QueryResponse with the resolution outcome.
type SubmitQueryResponse struct {
	QueryResponse
	Created bool `json:"created"`
}

// QueryListResponse is a paginated list of mosaic tasks.
type QueryListResponse struct {
	Queries []QueryResponse `json:"queries"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// initQueryRoutes registers the mosaic query endpoints.
func (c *Controller) initQueryRoutes() {
	c.Group.POST("/mosaic/queries", c.SubmitQuery)
	c.Group.GET("/mosaic/queries", c.ListQueries)
	c.Group.GET("/mosaic/queries/:id", c.GetQuery)
}

// SubmitQuery resolves submitted form data into a mosaic task. It responds
// with 201 when a new task was created and 200 when an identical submission
// already existed.
func (c *Controller) SubmitQuery(ctx echo.Context) error {
	form, err := parseFormData(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	task, created, err := c.Resolver.Resolve(ctx.Request().Context(), form)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to resolve mosaic query", errorStatus(err))
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Mosaic query resolved",
		"query_id", task.Query.QueryID,
		"created", created,
	)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	return ctx.JSON(status, SubmitQueryResponse{
		QueryResponse: queryResponseFromTask(task),
		Created:       created,
	})
}

// GetQuery retrieves a single mosaic task by its public query UUID.
func (c *Controller) GetQuery(ctx echo.Context) error {
	queryID := ctx.Param("id")
	if queryID == "" {
		return c.HandleError(ctx, nil, "Query ID is required", http.StatusBadRequest)
	}

	task, err := c.DS.GetTask(ctx.Request().Context(), queryID)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get mosaic query", errorStatus(err))
	}

	return ctx.JSON(http.StatusOK, queryResponseFromTask(&task))
}

// ListQueries retrieves mosaic tasks, most recent first. An optional user_id
// parameter restricts the listing to one submitter.
func (c *Controller) ListQueries(ctx echo.Context) error {
	limit, offset, err := parsePagination(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid pagination parameters", http.StatusBadRequest)
	}

	var tasks []datastore.CustomMosaicTask
	var total int64

	if userID := ctx.QueryParam("user_id"); userID != "" {
		tasks, total, err = c.DS.GetTasksByUser(ctx.Request().Context(), userID, limit, offset)
	} else {
		tasks, total, err = c.DS.GetAllTasks(ctx.Request().Context(), limit, offset)
	}
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list mosaic queries", errorStatus(err))
	}

	queries := make([]QueryResponse, 0, len(tasks))
	for i := range tasks {
		queries = append(queries, queryResponseFromTask(&tasks[i]))
	}

	return ctx.JSON(http.StatusOK, QueryListResponse{
		Queries: queries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

// parseFormData extracts submitted fields from either a JSON object of string
// values or an HTML form body.
func parseFormData(ctx echo.Context) (mosaic.FormData, error) {
	contentType := ctx.Request().Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		form := mosaic.FormData{}
		if err := json.NewDecoder(ctx.Request().Body).Decode(&form); err != nil {
			return nil, fmt.Errorf("malformed JSON body: %w", err)
		}
		return form, nil
	}

	params, err := ctx.FormParams()
	if err != nil {
		return nil, fmt.Errorf("malformed form body: %w", err)
	}

	form := make(mosaic.FormData, len(params))
	for key := range params {
		form[key] = params.Get(key)
	}
	return form, nil
}

// parsePagination reads and bounds the limit and offset query parameters.
func parsePagination(ctx echo.Context) (limit, offset int, err error) {
	limit = defaultQueryLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("invalid limit: %q", raw)
		}
		if limit > maxQueryLimit {
			limit = maxQueryLimit
		}
	}

	if raw := ctx.QueryParam("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset: %q", raw)
		}
	}

	return limit, offset, nil
}

// errorStatus maps resolution and persistence errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsCategory(err, errors.CategoryValidation):
		return http.StatusBadRequest
	case errors.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// queryResponseFromTask converts a persisted task to its JSON representation.
func queryResponseFromTask(task *datastore.CustomMosaicTask) QueryResponse {
	return QueryResponse{
		QueryID:     task.Query.QueryID,
		UserID:      task.Query.UserID,
		Title:       task.Query.Title,
		Description: task.Query.Description,

		Platform: task.Query.Platform,
		Product:  task.Query.Product,
		AreaID:   task.Query.AreaID,

		TimeStart: task.Query.TimeStart,
		TimeEnd:   task.Query.TimeEnd,

		LatitudeMin:  task.Query.LatitudeMin,
		LatitudeMax:  task.Query.LatitudeMax,
		LongitudeMin: task.Query.LongitudeMin,
		LongitudeMax: task.Query.LongitudeMax,

		QueryTypeID:       task.Query.QueryTypeID,
		AnimatedProductID: task.Query.AnimatedProductID,
		CompositorID:      task.Query.CompositorID,

		Complete:        task.Query.Complete,
		Status:          task.Result.Status,
		Progress:        task.Result.Progress(),
		ScenesProcessed: task.Result.ScenesProcessed,
		TotalScenes:     task.Result.TotalScenes,

		CreatedAt: task.CreatedAt,
	}
}
