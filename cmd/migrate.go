package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"user-registration/pkg/config"
	"user-registration/pkg/store/connector"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply document store migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		switch cfg.StoreDriver {
		case config.DriverSQLite, config.DriverPostgres:
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s store has no migrations\n", cfg.StoreDriver)
			return nil
		}

		// opening a SQL backend applies its embedded migrations
		conn := connector.New(cfg, logger)
		if _, err := conn.Connect(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s store migrated\n", cfg.StoreDriver)
		return conn.Close()
	},
}
