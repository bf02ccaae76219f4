// Package seed implements the command that loads lookup fixtures into the database.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/datacube/mosaic-go/internal/conf"
	"github.com/datacube/mosaic-go/internal/datastore"
	"github.com/datacube/mosaic-go/internal/logging"
)

// Command creates the seed command which upserts lookup entities from a
// YAML fixture file.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [fixtures.yaml]",
		Short: "Load lookup fixtures into the database",
		Long: "Upsert satellites, areas, compositors, animation types and result types " +
			"from a YAML fixture file. Existing rows are updated by their external keys, " +
			"so re-running the seed is safe.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(settings, args[0])
		},
	}
}

func runSeed(settings *conf.Settings, fixturePath string) error {
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return fmt.Errorf("failed to read fixture file: %w", err)
	}

	var fixtures datastore.LookupFixtures
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("failed to parse fixture file: %w", err)
	}

	store := datastore.New(settings)
	if store == nil {
		return fmt.Errorf("no database output enabled in settings")
	}
	if err := store.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error("failed to close datastore", "error", err)
		}
	}()

	if err := store.SeedLookups(context.Background(), &fixtures); err != nil {
		return fmt.Errorf("failed to seed lookups: %w", err)
	}

	logging.Info("lookup fixtures loaded",
		"file", fixturePath,
		"satellites", len(fixtures.Satellites),
		"areas", len(fixtures.Areas),
		"compositors", len(fixtures.Compositors),
		"animation_types", len(fixtures.AnimationTypes),
		"result_types", len(fixtures.ResultTypes),
	)

	return nil
}
