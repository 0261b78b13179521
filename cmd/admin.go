package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/einadid/microtask-server/database"
	"github.com/einadid/microtask-server/services"
)

func init() {
	rootCmd.AddCommand(makeAdminCmd)
}

var makeAdminCmd = &cobra.Command{
	Use:   "make-admin <email>",
	Short: "Promote a registered user to admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect()
		if err != nil {
			return err
		}
		defer database.Close()
		user, err := services.NewUserService(db).MakeAdmin(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d) is now an admin\n", user.Email, user.ID)
		return nil
	},
}
