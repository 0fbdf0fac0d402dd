package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/gst-factory/partner-kpi/internal/cli"
)

func gradesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grades",
		Short: "Print the partner grade tables",
		Long: `Grade every partner for the selected months and print the tables.

Nothing is written or published.`,
		RunE: runGrades,
	}

	addPeriodFlags(cmd)
	cmd.Flags().String("snapshots-dir", "", "Read omission snapshots from a local directory instead of Drive")

	return cmd
}

func runGrades(cmd *cobra.Command, _ []string) error {
	periods, err := resolvePeriods(cmd, time.Now())
	if err != nil {
		return err
	}

	svc, err := newService(cmd, slog.Default())
	if err != nil {
		return err
	}

	reports, runErr := svc.RunBatch(cmd.Context(), periods)
	for _, report := range reports {
		if err := cli.WriteGrades(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	}
	return runErr
}
