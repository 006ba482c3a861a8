package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		repository, err := openRepository(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer repository.Close()

		if err := repository.Migrate(cmd.Context()); err != nil {
			return err
		}

		log.Info().Str("driver", cfg.Database.Driver).Msg("Schema applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
