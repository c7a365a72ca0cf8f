package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSchema(cmd, func(m schemaMigrator) error {
			if err := m.Migrate(); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSchema(cmd, func(m schemaMigrator) error {
			if err := m.MigrateDown(); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSchema(cmd, func(m schemaMigrator) error {
			return printVersion(cmd, m)
		})
	},
}

type schemaMigrator interface {
	Migrate() error
	MigrateDown() error
	SchemaVersion() (uint, bool, error)
}

// withSchema opens the store without applying migrations.
func withSchema(cmd *cobra.Command, fn func(schemaMigrator) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cmd.Context(), cfg.Database, true)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func printVersion(cmd *cobra.Command, m schemaMigrator) error {
	v, dirty, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("schema version: %w", err)
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%s)\n", v, state)
	return nil
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}
