package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gst-factory/partner-kpi/internal/cli"
	"github.com/gst-factory/partner-kpi/internal/common"
	"github.com/gst-factory/partner-kpi/internal/config"
	"github.com/gst-factory/partner-kpi/internal/model"
	"github.com/gst-factory/partner-kpi/internal/omission"
	"github.com/gst-factory/partner-kpi/internal/partner"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract weekly omission statistics",
		Long: `Download the omission snapshots of each month and write the weekly
statistics to nan_data_<YYYY>_<MM>_improved.json in the data directory.

Only the sheets-free part of the pipeline runs, so no spreadsheet access is
needed.`,
		RunE: runExtract,
	}

	addPeriodFlags(cmd)
	cmd.Flags().String("out", "", "Output directory (default: report.data_dir)")
	cmd.Flags().String("snapshots-dir", "", "Read omission snapshots from a local directory instead of Drive")

	return cmd
}

func runExtract(cmd *cobra.Command, _ []string) error {
	logger := slog.Default()

	periods, err := resolvePeriods(cmd, time.Now())
	if err != nil {
		return err
	}

	dir, err := partnerDirectory()
	if err != nil {
		return err
	}
	policy := config.LoadPipelineConfig(viper.GetViper()).Policy

	snapshotsDir, _ := cmd.Flags().GetString("snapshots-dir")
	source, err := snapshotSource(cmd.Context(), snapshotsDir, policy, logger)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = config.DataDir(viper.GetViper())
	}

	cache := omission.NewCache(logger)
	var errs []error
	for _, period := range periods {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		path, err := extractMonth(cmd.Context(), cache, source.Snapshots, dir, policy, period, outDir)
		cache.Invalidate()
		if err != nil {
			common.LogError(err, "Extraction failed", common.Fields{"period": period.String()})
			errs = append(errs, fmt.Errorf("%s: %w", period, err))
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s → %s", period, path)))
	}

	return errors.Join(errs...)
}

func extractMonth(ctx context.Context, cache *omission.Cache, load omission.LoadFunc, dir *partner.Directory, policy omission.SelectionPolicy, period model.Period, outDir string) (string, error) {
	records, err := cache.Get(ctx, period, load)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("omission snapshots for %s: %w", period, common.ErrNoData)
	}

	artifact := omission.BuildArtifact(period, records, dir, policy, time.Now())
	return omission.WriteArtifact(outDir, period, artifact)
}
