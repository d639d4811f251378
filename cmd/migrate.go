package cmd

import (
	"github.com/satheeshds/autodealer/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, closeDB, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB()
		log := logger.WithComponent("migrate")
		log.Info().Str("driver", cfg.DBDriver).Msg("database is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
