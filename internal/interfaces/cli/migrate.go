package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/database/postgres"
)

// NewMigrateCmd creates the migrate command group for database schema
// management.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the benchmark database schema",
	}

	cmd.AddCommand(
		newMigrateUpCmd(),
		newMigrateDownCmd(),
		newMigrateVersionCmd(),
	)

	return cmd
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			dsn := postgres.BuildDSN(cliCtx.Config.Database)
			if err := postgres.RunMigrations(dsn, cliCtx.Config.Database.MigrationPath); err != nil {
				return err
			}

			PrintSuccess(cmd, "migrations applied")
			return nil
		},
	}
}

func newMigrateDownCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			dsn := postgres.BuildDSN(cliCtx.Config.Database)
			if err := postgres.RollbackMigration(dsn, cliCtx.Config.Database.MigrationPath, steps); err != nil {
				return err
			}

			PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", steps))
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	return cmd
}

func newMigrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			dsn := postgres.BuildDSN(cliCtx.Config.Database)
			version, dirty, err := postgres.MigrationVersion(dsn, cliCtx.Config.Database.MigrationPath)
			if err != nil {
				return err
			}

			state := "clean"
			if dirty {
				state = "dirty"
			}
			return PrintResult(cmd, fmt.Sprintf("version %d (%s)", version, state))
		},
	}
}
