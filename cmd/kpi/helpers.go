package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gst-factory/partner-kpi/internal/config"
	"github.com/gst-factory/partner-kpi/internal/drive"
	"github.com/gst-factory/partner-kpi/internal/kpi"
	"github.com/gst-factory/partner-kpi/internal/model"
	"github.com/gst-factory/partner-kpi/internal/omission"
	"github.com/gst-factory/partner-kpi/internal/partner"
	"github.com/gst-factory/partner-kpi/internal/sheets"
)

// addPeriodFlags registers --month and --months.
func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("month", "m", "", "Month to report (format: 2025-08, default: report.month or the current month)")
	cmd.Flags().StringSlice("months", nil, "Several months to process in order (format: 2025-06,2025-07)")
	cmd.MarkFlagsMutuallyExclusive("month", "months")
}

// resolvePeriods returns the months selected by flags, then config, then the
// current month.
func resolvePeriods(cmd *cobra.Command, now time.Time) ([]model.Period, error) {
	months, _ := cmd.Flags().GetStringSlice("months")
	if month, _ := cmd.Flags().GetString("month"); month != "" {
		months = []string{month}
	}
	if len(months) == 0 {
		months = viper.GetStringSlice("report.months")
	}
	if len(months) == 0 {
		if m := viper.GetString("report.month"); m != "" {
			months = []string{m}
		}
	}
	if len(months) == 0 {
		return []model.Period{model.PeriodOf(now)}, nil
	}

	periods, err := model.ParsePeriods(months)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("no months selected")
	}
	return periods, nil
}

func monthList(periods []model.Period) string {
	names := make([]string, len(periods))
	for i, p := range periods {
		names[i] = p.String()
	}
	return strings.Join(names, ",")
}

// snapshotSource reads from a local directory when dir is set, else from the
// configured Drive folder.
func snapshotSource(ctx context.Context, dir string, policy omission.SelectionPolicy, logger *slog.Logger) (kpi.SnapshotSource, error) {
	if dir != "" {
		return omission.NewDirSource(config.ExpandPath(dir), policy, logger), nil
	}

	driveConfig, err := config.LoadDriveConfig(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load drive config: %w", err)
	}

	src, err := drive.NewSource(ctx, *driveConfig, policy, config.LoadGoogleCredentials(viper.GetViper()), logger)
	if err != nil {
		return nil, err
	}
	src.ShowProgress(os.Stderr)
	return src, nil
}

// newService wires the sheets reader, the snapshot source and the partner
// directory into a pipeline.
func newService(cmd *cobra.Command, logger *slog.Logger) (*kpi.Service, error) {
	ctx := cmd.Context()
	v := viper.GetViper()

	dir, err := config.LoadPartnerDirectory(v)
	if err != nil {
		return nil, err
	}
	pipeline := config.LoadPipelineConfig(v)

	sheetsConfig, err := config.LoadSheetsConfig(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load sheets config: %w", err)
	}
	reader, err := sheets.NewReader(ctx, *sheetsConfig, config.LoadGoogleCredentials(v), logger)
	if err != nil {
		return nil, err
	}

	snapshotsDir, _ := cmd.Flags().GetString("snapshots-dir")
	snapshots, err := snapshotSource(ctx, snapshotsDir, pipeline.Policy, logger)
	if err != nil {
		return nil, err
	}

	return kpi.NewService(reader, reader, snapshots, dir, pipeline, logger), nil
}

// reportPath inserts the month before the extension when several months are
// rendered.
func reportPath(base string, period model.Period, several bool) string {
	if !several {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + period.String() + ext
}

// partnerDirectory is used by commands that only need normalization.
func partnerDirectory() (*partner.Directory, error) {
	return config.LoadPartnerDirectory(viper.GetViper())
}
