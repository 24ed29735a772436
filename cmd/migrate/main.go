// migrate applies the embedded SQL migrations to the database named by DATABASE_URL
// (postgres:// or sqlite://).
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"craftconnect/backend/internal/db"
	"craftconnect/backend/internal/db/migrate"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var databaseURL string
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the account database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "postgres:// or sqlite:// URL (default $DATABASE_URL)")

	dsn := func() (string, error) {
		driver, err := db.DriverFor(databaseURL)
		if err != nil {
			return "", oops.Code("CONFIG_INVALID").Wrap(err)
		}
		if driver == db.DriverMemory {
			return "", oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL is not set; the in-memory repository has no schema")
		}
		return databaseURL, nil
	}
	direction := func(dir string) *cobra.Command {
		return &cobra.Command{
			Use:   dir,
			Short: fmt.Sprintf("Apply all %s migrations", dir),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				u, err := dsn()
				if err != nil {
					return err
				}
				if err := migrate.Run(u, dir); err != nil {
					return oops.Code("MIGRATION_FAILED").With("direction", dir).Wrap(err)
				}
				cmd.Printf("migrations %s: done\n", dir)
				return nil
			},
		}
	}
	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := dsn()
			if err != nil {
				return err
			}
			v, dirty, err := migrate.Version(u)
			if err != nil {
				return oops.Code("MIGRATION_FAILED").Wrap(err)
			}
			cmd.Printf("version %d (dirty=%t)\n", v, dirty)
			return nil
		},
	}
	root.AddCommand(direction("up"), direction("down"), version)
	return root
}
