// lookups.go: persistence operations for the mosaic lookup entities
package datastore

import (
	"context"

	"github.com/datacube/mosaic-go/internal/errors"
	"gorm.io/gorm"
)

// GetSatellite retrieves a satellite by its external satellite id.
func (ds *DataStore) GetSatellite(ctx context.Context, satelliteID string) (Satellite, error) {
	var satellite Satellite
	if err := ds.DB.WithContext(ctx).Where("satellite_id = ?", satelliteID).First(&satellite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return satellite, notFoundError("satellite", satelliteID)
		}
		return satellite, dbError(err, "get_satellite", "", "satellite_id", satelliteID)
	}
	return satellite, nil
}

// GetArea retrieves an area by its external area id.
func (ds *DataStore) GetArea(ctx context.Context, areaID string) (Area, error) {
	var area Area
	if err := ds.DB.WithContext(ctx).Where("area_id = ?", areaID).First(&area).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return area, notFoundError("area", areaID)
		}
		return area, dbError(err, "get_area", "", "area_id", areaID)
	}
	return area, nil
}

// GetCompositor retrieves a compositor by its external id.
func (ds *DataStore) GetCompositor(ctx context.Context, compositorID string) (Compositor, error) {
	var compositor Compositor
	if err := ds.DB.WithContext(ctx).Where("compositor_id = ?", compositorID).First(&compositor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return compositor, notFoundError("compositor", compositorID)
		}
		return compositor, dbError(err, "get_compositor", "", "compositor_id", compositorID)
	}
	return compositor, nil
}

// GetAnimationType retrieves an animation type by its external type id.
func (ds *DataStore) GetAnimationType(ctx context.Context, typeID string) (AnimationType, error) {
	var animationType AnimationType
	if err := ds.DB.WithContext(ctx).Where("type_id = ?", typeID).First(&animationType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return animationType, notFoundError("animation type", typeID)
		}
		return animationType, dbError(err, "get_animation_type", "", "type_id", typeID)
	}
	return animationType, nil
}

// GetResultType retrieves a result type by its external result id.
func (ds *DataStore) GetResultType(ctx context.Context, resultID string) (ResultType, error) {
	var resultType ResultType
	if err := ds.DB.WithContext(ctx).Where("result_id = ?", resultID).First(&resultType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resultType, notFoundError("result type", resultID)
		}
		return resultType, dbError(err, "get_result_type", "", "result_id", resultID)
	}
	return resultType, nil
}

// GetAllSatellites retrieves all satellites.
func (ds *DataStore) GetAllSatellites(ctx context.Context) ([]Satellite, error) {
	var satellites []Satellite
	if err := ds.DB.WithContext(ctx).Order("satellite_id ASC").Find(&satellites).Error; err != nil {
		return nil, dbError(err, "get_all_satellites", "")
	}
	return satellites, nil
}

// GetAllAreas retrieves all areas.
func (ds *DataStore) GetAllAreas(ctx context.Context) ([]Area, error) {
	var areas []Area
	if err := ds.DB.WithContext(ctx).Order("area_id ASC").Find(&areas).Error; err != nil {
		return nil, dbError(err, "get_all_areas", "")
	}
	return areas, nil
}

// GetAllCompositors retrieves all compositors.
func (ds *DataStore) GetAllCompositors(ctx context.Context) ([]Compositor, error) {
	var compositors []Compositor
	if err := ds.DB.WithContext(ctx).Order("compositor_id ASC").Find(&compositors).Error; err != nil {
		return nil, dbError(err, "get_all_compositors", "")
	}
	return compositors, nil
}

// GetAllAnimationTypes retrieves all animation types.
func (ds *DataStore) GetAllAnimationTypes(ctx context.Context) ([]AnimationType, error) {
	var animationTypes []AnimationType
	if err := ds.DB.WithContext(ctx).Order("type_id ASC").Find(&animationTypes).Error; err != nil {
		return nil, dbError(err, "get_all_animation_types", "")
	}
	return animationTypes, nil
}

// GetAllResultTypes retrieves all result types.
func (ds *DataStore) GetAllResultTypes(ctx context.Context) ([]ResultType, error) {
	var resultTypes []ResultType
	if err := ds.DB.WithContext(ctx).Order("result_id ASC").Find(&resultTypes).Error; err != nil {
		return nil, dbError(err, "get_all_result_types", "")
	}
	return resultTypes, nil
}

// LookupFixtures holds lookup entity definitions loaded from a fixture file.
type LookupFixtures struct {
	Satellites     []Satellite     `yaml:"satellites"`
	Areas          []Area          `yaml:"areas"`
	Compositors    []Compositor    `yaml:"compositors"`
	AnimationTypes []AnimationType `yaml:"animationtypes"`
	ResultTypes    []ResultType    `yaml:"resulttypes"`
}

// SeedLookups upserts lookup entities by their external keys. Existing rows
// are updated in place so re-running the seed is safe.
func (ds *DataStore) SeedLookups(ctx context.Context, fixtures *LookupFixtures) error {
	if fixtures == nil {
		return validationError("fixtures must not be nil", "fixtures", nil)
	}

	return ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range fixtures.Satellites {
			if err := upsertByKey(tx, &Satellite{}, "satellite_id", fixtures.Satellites[i].SatelliteID, &fixtures.Satellites[i]); err != nil {
				return dbError(err, "seed_satellites", "", "satellite_id", fixtures.Satellites[i].SatelliteID)
			}
		}
		for i := range fixtures.Areas {
			if err := upsertByKey(tx, &Area{}, "area_id", fixtures.Areas[i].AreaID, &fixtures.Areas[i]); err != nil {
				return dbError(err, "seed_areas", "", "area_id", fixtures.Areas[i].AreaID)
			}
		}
		for i := range fixtures.Compositors {
			if err := upsertByKey(tx, &Compositor{}, "compositor_id", fixtures.Compositors[i].CompositorID, &fixtures.Compositors[i]); err != nil {
				return dbError(err, "seed_compositors", "", "compositor_id", fixtures.Compositors[i].CompositorID)
			}
		}
		for i := range fixtures.AnimationTypes {
			if err := upsertByKey(tx, &AnimationType{}, "type_id", fixtures.AnimationTypes[i].TypeID, &fixtures.AnimationTypes[i]); err != nil {
				return dbError(err, "seed_animation_types", "", "type_id", fixtures.AnimationTypes[i].TypeID)
			}
		}
		for i := range fixtures.ResultTypes {
			if err := upsertByKey(tx, &ResultType{}, "result_id", fixtures.ResultTypes[i].ResultID, &fixtures.ResultTypes[i]); err != nil {
				return dbError(err, "seed_result_types", "", "result_id", fixtures.ResultTypes[i].ResultID)
			}
		}
		return nil
	})
}

// upsertByKey creates the row if the external key is absent, otherwise
// updates the existing row in place keeping its primary key.
func upsertByKey[T any](tx *gorm.DB, model *T, keyColumn, keyValue string, row *T) error {
	var existing T
	err := tx.Model(model).Where(keyColumn+" = ?", keyValue).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(row).Error
		}
		return err
	}

	return tx.Model(model).Where(keyColumn+" = ?", keyValue).
		Omit("id", keyColumn).
		Updates(row).Error
}
