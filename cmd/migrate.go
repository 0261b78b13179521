package cmd

import (
	"github.com/spf13/cobra"

	"github.com/einadid/microtask-server/database"
	"github.com/einadid/microtask-server/logger"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect()
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info("migration completed")
		return nil
	},
}
