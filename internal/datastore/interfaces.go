// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/datacube/mosaic-go/internal/conf"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Interface abstracts the underlying database implementation and defines the interface for database operations.
type Interface interface {
	Open() error
	Close() error

	// lookup entities
	GetSatellite(ctx context.Context, satelliteID string) (Satellite, error)
	GetArea(ctx context.Context, areaID string) (Area, error)
	GetCompositor(ctx context.Context, compositorID string) (Compositor, error)
	GetAnimationType(ctx context.Context, typeID string) (AnimationType, error)
	GetResultType(ctx context.Context, resultID string) (ResultType, error)
	GetAllSatellites(ctx context.Context) ([]Satellite, error)
	GetAllAreas(ctx context.Context) ([]Area, error)
	GetAllCompositors(ctx context.Context) ([]Compositor, error)
	GetAllAnimationTypes(ctx context.Context) ([]AnimationType, error)
	GetAllResultTypes(ctx context.Context) ([]ResultType, error)
	SeedLookups(ctx context.Context, fixtures *LookupFixtures) error

	// mosaic tasks
	GetOrCreateTask(ctx context.Context, task *CustomMosaicTask, match map[string]any) (created bool, err error)
	GetTask(ctx context.Context, queryID string) (CustomMosaicTask, error)
	GetAllTasks(ctx context.Context, limit, offset int) ([]CustomMosaicTask, int64, error)
	GetTasksByUser(ctx context.Context, userID string, limit, offset int) ([]CustomMosaicTask, int64, error)
	UpdateTaskMetadata(ctx context.Context, queryID string, metadata *Metadata) error
	UpdateTaskResult(ctx context.Context, queryID string, result *Result) error
	CompleteTask(ctx context.Context, queryID string, executionEnd time.Time) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		// Validation rejects configurations without a database output
		return nil
	}
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(
		&Satellite{},
		&Area{},
		&Compositor{},
		&AnimationType{},
		&ResultType{},
		&CustomMosaicTask{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}

	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)
}
