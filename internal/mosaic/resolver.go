package mosaic

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/datacube/mosaic-go/internal/datastore"
	"github.com/datacube/mosaic-go/internal/errors"
	"github.com/datacube/mosaic-go/internal/logging"
	"github.com/datacube/mosaic-go/internal/observability/metrics"
)

// Defaults applied to omitted or empty form fields.
const (
	DefaultTitle       = "Custom Mosaic Query"
	DefaultDescription = "None"
)

// Resolver turns submitted form data into persisted mosaic tasks. Lookup
// entities referenced during resolution are cached briefly to keep repeated
// submissions from hammering the lookup tables.
type Resolver struct {
	ds      datastore.Interface
	cache   *gocache.Cache
	metrics *metrics.MosaicMetrics
	logger  *slog.Logger
}

// NewResolver creates a resolver backed by the given datastore. cacheTTL
// bounds how long resolved lookup entities are reused; zero or negative
// disables caching so every resolution hits the lookup tables. metrics may
// be nil.
func NewResolver(ds datastore.Interface, cacheTTL time.Duration, m *metrics.MosaicMetrics) *Resolver {
	logger := logging.ForService("mosaic")
	if logger == nil {
		logger = slog.Default()
	}
	var cache *gocache.Cache
	if cacheTTL > 0 {
		cache = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return &Resolver{
		ds:      ds,
		cache:   cache,
		metrics: m,
		logger:  logger.With("component", "resolver"),
	}
}

// Resolve normalizes the submitted form data and returns the matching task,
// creating it when no identical submission exists. The boolean reports
// whether a new task row was created by this call.
//
// Normalization mirrors what the rest of the pipeline expects: the product
// name is derived from the satellite's product prefix and the area
// identifier, title and description receive defaults when blank, and any
// submitted key outside the declared task fields is discarded.
func (r *Resolver) Resolve(ctx context.Context, form FormData) (*datastore.CustomMosaicTask, bool, error) {
	start := time.Now()

	platform := form["platform"]
	areaID := form["area_id"]
	if platform == "" || areaID == "" {
		return nil, false, errors.Newf("platform and area_id are required").
			Component("mosaic").
			Category(errors.CategoryValidation).
			Context("platform", platform).
			Context("area_id", areaID).
			Build()
	}

	satellite, err := r.satellite(ctx, platform)
	if err != nil {
		return nil, false, err
	}
	area, err := r.area(ctx, areaID)
	if err != nil {
		return nil, false, err
	}

	working := maps.Clone(form)
	working["product"] = satellite.ProductPrefix + area.AreaID
	if working["title"] == "" {
		working["title"] = DefaultTitle
	}
	if working["description"] == "" {
		working["description"] = DefaultDescription
	}

	match, err := FilterFields(working, r.resolveReference(ctx))
	if err != nil {
		return nil, false, err
	}

	task := taskFromFields(match)
	task.Query.QueryID = uuid.New().String()

	created, err := r.ds.GetOrCreateTask(ctx, task, match)
	if err != nil {
		return nil, false, err
	}

	r.logger.Debug("resolved mosaic query",
		"query_id", task.Query.QueryID,
		"product", task.Query.Product,
		"created", created)
	if r.metrics != nil {
		r.metrics.RecordResolve(created, time.Since(start))
	}

	return task, created, nil
}

// satellite fetches a satellite by platform identifier, via the cache.
func (r *Resolver) satellite(ctx context.Context, platform string) (datastore.Satellite, error) {
	key := "satellite:" + platform
	if cached, ok := r.cacheGet(key); ok {
		return cached.(datastore.Satellite), nil
	}
	satellite, err := r.ds.GetSatellite(ctx, platform)
	if err != nil {
		return datastore.Satellite{}, err
	}
	r.cacheSet(key, satellite)
	return satellite, nil
}

// area fetches an area by identifier, via the cache.
func (r *Resolver) area(ctx context.Context, areaID string) (datastore.Area, error) {
	key := "area:" + areaID
	if cached, ok := r.cacheGet(key); ok {
		return cached.(datastore.Area), nil
	}
	area, err := r.ds.GetArea(ctx, areaID)
	if err != nil {
		return datastore.Area{}, err
	}
	r.cacheSet(key, area)
	return area, nil
}

// resolveReference returns a ReferenceResolver that maps external lookup
// identifiers to primary keys, consulting the cache first.
func (r *Resolver) resolveReference(ctx context.Context) ReferenceResolver {
	return func(kind ReferenceKind, externalID string) (uint, error) {
		key := fmt.Sprintf("%s:%s", kind, externalID)
		if cached, ok := r.cacheGet(key); ok {
			return cached.(uint), nil
		}

		var id uint
		switch kind {
		case RefResultType:
			resultType, err := r.ds.GetResultType(ctx, externalID)
			if err != nil {
				return 0, err
			}
			id = resultType.ID
		case RefAnimationType:
			animationType, err := r.ds.GetAnimationType(ctx, externalID)
			if err != nil {
				return 0, err
			}
			id = animationType.ID
		case RefCompositor:
			compositor, err := r.ds.GetCompositor(ctx, externalID)
			if err != nil {
				return 0, err
			}
			id = compositor.ID
		default:
			return 0, errors.Newf("unknown reference kind: %s", kind).
				Component("mosaic").
				Category(errors.CategoryValidation).
				Build()
		}

		r.cacheSet(key, id)
		return id, nil
	}
}

// cacheGet reads the lookup cache and records hit/miss metrics. A disabled
// cache always misses without touching the metrics.
func (r *Resolver) cacheGet(key string) (any, bool) {
	if r.cache == nil {
		return nil, false
	}
	value, ok := r.cache.Get(key)
	if r.metrics != nil {
		r.metrics.RecordLookupCache(ok)
	}
	return value, ok
}

// cacheSet stores a lookup entity unless caching is disabled.
func (r *Resolver) cacheSet(key string, value any) {
	if r.cache == nil {
		return
	}
	r.cache.SetDefault(key, value)
}

// taskFromFields builds a task from filtered field values. Only submitted
// fields are populated; everything else keeps its zero value and relies on
// column defaults at insert time.
func taskFromFields(fields map[string]any) *datastore.CustomMosaicTask {
	task := &datastore.CustomMosaicTask{}
	query := &task.Query
	for column, value := range fields {
		switch column {
		case "platform":
			query.Platform = value.(string)
		case "product":
			query.Product = value.(string)
		case "area_id":
			query.AreaID = value.(string)
		case "user_id":
			query.UserID = value.(string)
		case "title":
			query.Title = value.(string)
		case "description":
			query.Description = value.(string)
		case "time_start":
			query.TimeStart = value.(time.Time)
		case "time_end":
			query.TimeEnd = value.(time.Time)
		case "latitude_min":
			query.LatitudeMin = value.(float64)
		case "latitude_max":
			query.LatitudeMax = value.(float64)
		case "longitude_min":
			query.LongitudeMin = value.(float64)
		case "longitude_max":
			query.LongitudeMax = value.(float64)
		case "query_type_id":
			query.QueryTypeID = value.(uint)
		case "animated_product_id":
			query.AnimatedProductID = value.(uint)
		case "compositor_id":
			query.CompositorID = value.(uint)
		}
	}
	return task
}
