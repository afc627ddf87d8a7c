package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/banshee-data/l1track/internal/storage/sqlite"
)

var errNoDB = errors.New("--db is required")

func (a *app) newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the run store schema",
	}

	connect := func(cmd *cobra.Command) (*sqlite.DB, error) {
		if a.dbPath == "" {
			return nil, errNoDB
		}
		return sqlite.Connect(cmd.Context(), a.dbPath)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := connect(cmd)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.MigrateUp(); err != nil {
					return err
				}
				return a.printVersion(db)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := connect(cmd)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.MigrateDown(); err != nil {
					return err
				}
				return a.printVersion(db)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := connect(cmd)
				if err != nil {
					return err
				}
				defer db.Close()
				return a.printVersion(db)
			},
		},
	)
	return cmd
}

func (a *app) printVersion(db *sqlite.DB) error {
	v, dirty, err := db.MigrateVersion()
	if err != nil {
		return err
	}
	if dirty {
		_, err = fmt.Fprintf(a.out, "schema version %d (dirty)\n", v)
		return err
	}
	_, err = fmt.Fprintf(a.out, "schema version %d\n", v)
	return err
}

func (a *app) newRunsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.dbPath == "" {
				return errNoDB
			}
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tCREATED\tCOMMAND\tMODE\tSOURCE\tEVENTS\tIN\tOUT\tPAIRS\tERRORS")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
					r.RunID, time.Unix(0, r.CreatedAt).UTC().Format(time.RFC3339),
					r.Command, r.Mode, r.Source,
					r.Events, r.StubsIn, r.StubsOut, r.PairsFound, r.DigitizeErrors)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs; 0 lists all")
	return cmd
}
