// Package cli handles the command-line interface logic
// using the Cobra library.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/balewgize/WooCommerce-migrate/pkg/models"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wcmigrate",
		Short: "Migrate WooCommerce orders and customers to MongoDB",
		Long: `wcmigrate copies orders and customers from a WooCommerce store into
MongoDB. Pages are fetched concurrently and every record is upserted by its
WooCommerce id, so runs can be repeated safely.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(
		NewImportCmd(models.Orders),
		NewImportCmd(models.Customers),
	)

	return rootCmd
}
