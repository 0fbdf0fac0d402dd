package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gst-factory/partner-kpi/internal/cli"
	"github.com/gst-factory/partner-kpi/internal/config"
	"github.com/gst-factory/partner-kpi/internal/kpi"
	"github.com/gst-factory/partner-kpi/internal/omission"
	"github.com/gst-factory/partner-kpi/internal/publish"
	"github.com/gst-factory/partner-kpi/internal/render"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the partner KPI dashboard",
		Long: `Grade every partner for the selected months and render the dashboard.

For each month the omission statistics are also written to the data
directory. With --publish the dashboard of the last month is uploaded to
every configured GitHub repository.`,
		RunE: runReport,
	}

	addPeriodFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Dashboard file (default: report.output)")
	cmd.Flags().String("data-dir", "", "Directory for the omission JSON (default: report.data_dir)")
	cmd.Flags().String("snapshots-dir", "", "Read omission snapshots from a local directory instead of Drive")
	cmd.Flags().Bool("publish", false, "Upload the dashboard to GitHub")
	cmd.Flags().Bool("quiet", false, "Do not print the grade tables")

	_ = viper.BindPFlag("report.output", cmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("report.data_dir", cmd.Flags().Lookup("data-dir"))
	_ = viper.BindPFlag("report.publish", cmd.Flags().Lookup("publish"))

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	logger := slog.Default()

	periods, err := resolvePeriods(cmd, time.Now())
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), "kpi report --months "+monthList(periods))
	cmd.SetContext(ctx)

	svc, err := newService(cmd, logger)
	if err != nil {
		return err
	}

	renderer, err := render.NewHTML()
	if err != nil {
		return err
	}

	var publishers []kpi.Publisher
	if viper.GetBool("report.publish") {
		targets, err := config.LoadPublishTargets(viper.GetViper())
		if err != nil {
			return fmt.Errorf("failed to load publish targets: %w", err)
		}
		for _, t := range targets {
			p, err := publish.NewGitHub(t, logger)
			if err != nil {
				return err
			}
			publishers = append(publishers, p)
		}
	}

	reports, runErr := svc.RunBatch(ctx, periods)

	quiet, _ := cmd.Flags().GetBool("quiet")
	out := cmd.OutOrStdout()
	base := config.ReportPath(viper.GetViper())
	dataDir := config.DataDir(viper.GetViper())

	errs := []error{runErr}
	for i, report := range reports {
		path, err := omission.WriteArtifact(dataDir, report.Period, report.Artifact)
		if err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("Wrote omission data", "period", report.Period.String(), "path", path)
		}

		output := kpi.Output{
			Renderer: renderer,
			Path:     reportPath(base, report.Period, len(reports) > 1),
		}
		if i == len(reports)-1 {
			output.Publishers = publishers
		}

		delivery, err := svc.Deliver(ctx, report, output)
		if err != nil {
			errs = append(errs, err)
		}

		if !quiet {
			if err := cli.WriteGrades(out, report); err != nil {
				return err
			}
		}
		if delivery != nil {
			printDelivery(cmd, delivery)
		}
	}

	if interrupts.WasInterrupted() {
		return ctx.Err()
	}
	return errors.Join(errs...)
}

func printDelivery(cmd *cobra.Command, d *kpi.Delivery) {
	out := cmd.OutOrStdout()
	if d.Path != "" {
		fmt.Fprintln(out, cli.FormatSuccess("Dashboard written to "+d.Path))
	}
	for name, url := range d.URLs {
		fmt.Fprintln(out, cli.FormatSuccess("Published to "+name))
		fmt.Fprintln(out, publish.IframeTag(url))
	}
	if len(d.URLs) > 0 {
		return
	}
	if viper.GetBool("report.publish") {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Nothing was published"))
	}
}
