// Package migrate implements the migrate command.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/datastore"
	"github.com/weathercloset/weathercloset/internal/logger"
)

// Command creates the migrate command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := conf.GetSettings()
			log := logger.Global().Module("migrate")

			// Open migrates the schema before returning.
			store, err := datastore.Open(cmd.Context(), settings.Database, nil)
			if err != nil {
				return fmt.Errorf("error migrating database: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					log.Warn("failed to close database", logger.Error(err))
				}
			}()

			log.Info("schema up to date", logger.String("driver", store.Driver()))
			return nil
		},
	}
}
