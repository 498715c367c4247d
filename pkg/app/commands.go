package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/lojinha/config"
	"github.com/shashiranjanraj/lojinha/pkg/database"
	"github.com/shashiranjanraj/lojinha/pkg/migration"
)

// RootCommand returns the CLI. Running it without a sub-command serves.
func (a *Application) RootCommand() *cobra.Command {
	serve := a.serveCmd()

	root := &cobra.Command{
		Use:           "lojinha",
		Short:         "Lojinha shop API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(
		serve,
		dbCmd("migrate", "Run all pending database migrations", func(db *gorm.DB, out io.Writer) error {
			return migration.New(db, out).Run()
		}),
		dbCmd("migrate:rollback", "Roll back the last batch of migrations", func(db *gorm.DB, out io.Writer) error {
			return migration.New(db, out).Rollback()
		}),
		dbCmd("migrate:status", "Show the status of each migration", func(db *gorm.DB, out io.Writer) error {
			return migration.New(db, out).Status()
		}),
		dbCmd("seed", "Run all database seeders", a.seed),
		a.routeListCmd(),
	)
	root.AddCommand(a.commands...)
	return root
}

func (a *Application) routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "route:list",
		Aliases: []string{"routes"},
		Short:   "List registered routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cleanup, err := a.runBoot(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-8s  %-40s  %s\n", "METHOD", "PATH", "NAME")
			fmt.Fprintln(out, strings.Repeat("-", 72))
			for _, ri := range a.router().Routes() {
				fmt.Fprintf(out, "%-8s  %-40s  %s\n", ri.Method, ri.Path, ri.Name)
			}
			return nil
		},
	}
}

func (a *Application) seed(db *gorm.DB, out io.Writer) error {
	if len(a.seeders) == 0 {
		fmt.Fprintln(out, "No seeders registered.")
		return nil
	}
	for _, fn := range a.seeders {
		if err := fn(db, out); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, "Seeding complete.")
	return nil
}

// dbCmd opens the configured database, runs fn and closes it again.
func dbCmd(use, short string, fn func(db *gorm.DB, out io.Writer) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			db, err := database.Connect(config.DatabaseDriver(), config.DatabaseDSN())
			if err != nil {
				return err
			}
			defer database.Close(db) //nolint:errcheck

			return fn(db, cmd.OutOrStdout())
		},
	}
}
