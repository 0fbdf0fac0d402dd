package kpi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/gst-factory/partner-kpi/internal/attribution"
	"github.com/gst-factory/partner-kpi/internal/common"
	"github.com/gst-factory/partner-kpi/internal/grading"
	"github.com/gst-factory/partner-kpi/internal/model"
	"github.com/gst-factory/partner-kpi/internal/omission"
	"github.com/gst-factory/partner-kpi/internal/partner"
	"github.com/gst-factory/partner-kpi/internal/production"
)

// MonthlyReport is everything computed for one partner KPI month.
type MonthlyReport struct {
	// RunID tags the log lines of the run that produced the report.
	RunID       string
	Period      model.Period
	GeneratedAt time.Time
	// Scores holds one entry per canonical partner, mechanical partners first.
	Scores     []grading.PartnerScore
	Ranked     map[partner.Class][]grading.PartnerScore
	Defects    attribution.Tally
	Production production.Result
	NaNSeries  map[partner.Code][]omission.WeeklyRatio
	Artifact   *omission.Artifact
}

// Score returns the score of one partner.
func (r *MonthlyReport) Score(code partner.Code) (grading.PartnerScore, bool) {
	for _, s := range r.Scores {
		if s.Partner == code {
			return s, true
		}
	}
	return grading.PartnerScore{}, false
}

// Config holds the tunables of the pipeline.
type Config struct {
	DefectColumns     model.DefectColumns
	ProductionColumns model.ProductionColumns
	Vocabulary        attribution.Vocabulary
	Policy            omission.SelectionPolicy
}

// DefaultConfig returns the configuration matching the production sheets.
func DefaultConfig() Config {
	return Config{
		DefectColumns:     model.DefaultDefectColumns(),
		ProductionColumns: model.DefaultProductionColumns(),
		Vocabulary:        attribution.DefaultVocabulary(),
		Policy:            omission.DefaultSelectionPolicy(),
	}
}

// Service computes monthly reports.
type Service struct {
	defects    DefectSource
	production ProductionSource
	snapshots  SnapshotSource
	dir        *partner.Directory
	attributor *attribution.Attributor
	counter    *production.Counter
	cache      *omission.Cache
	logger     *slog.Logger
	now        func() time.Time
	config     Config
}

// NewService creates a pipeline reading from the given sources.
func NewService(defects DefectSource, prod ProductionSource, snapshots SnapshotSource, dir *partner.Directory, config Config, logger *slog.Logger) *Service {
	return &Service{
		defects:    defects,
		production: prod,
		snapshots:  snapshots,
		dir:        dir,
		attributor: attribution.NewAttributor(dir, config.Vocabulary),
		counter:    production.NewCounter(dir, logger),
		cache:      omission.NewCache(logger),
		logger:     logger,
		now:        time.Now,
		config:     config,
	}
}

// Run computes the report of one month.
func (s *Service) Run(ctx context.Context, period model.Period) (*MonthlyReport, error) {
	runID := uuid.NewString()
	logger := s.logger.With("period", period.String(), "run_id", runID)
	logger.Info("Starting partner KPI run")

	prodTable, err := s.production.ProductionTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load production log: %w", err)
	}
	cols := s.config.ProductionColumns
	if missing := prodTable.Missing(cols.ProductName, cols.MechPartner, cols.ElecPartner); len(missing) > 0 {
		logger.Warn("Production log is missing columns", "columns", missing)
	}
	prodRecords, hasDate := model.ProductionRecords(prodTable, cols)
	counts := s.counter.Count(prodRecords, period, hasDate)
	logger.Info("Counted production",
		"rows", counts.Breakdown.Rows,
		"dual_units", counts.Breakdown.DualUnits,
		"tmsm_semi", counts.Breakdown.TMSMSemi)

	defectTable, err := s.defects.DefectTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load defect history: %w", err)
	}
	defectRecords, err := model.DefectsForPeriod(defectTable, s.config.DefectColumns, period, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to read defect history: %w", err)
	}
	tally := attribution.CountDefects(defectRecords, s.attributor, logger)
	logger.Info("Attributed defects",
		"records", len(defectRecords),
		"unassigned", tally.Unassigned)

	snapshots, err := s.cache.Get(ctx, period, s.snapshots.Snapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to load omission snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("omission snapshots for %s: %w", period, common.ErrNoData)
	}

	ratios := omission.MonthlyRatios(snapshots, s.dir)
	scores := make([]grading.PartnerScore, 0, len(partner.All()))
	for _, code := range partner.All() {
		score := grading.Evaluate(code, tally.Counts[code], counts.Counts[code], ratios[code])
		if score.NoProduction {
			logger.Warn("Partner has no production, defect rate set to zero",
				"partner", code,
				"defects", score.DefectCount)
		}
		scores = append(scores, score)
	}

	now := s.now()
	report := &MonthlyReport{
		RunID:       runID,
		Period:      period,
		GeneratedAt: now,
		Scores:      scores,
		Ranked:      grading.Rank(scores),
		Defects:     tally,
		Production:  counts,
		NaNSeries:   omission.Aggregate(snapshots, s.dir),
		Artifact:    omission.BuildArtifact(period, snapshots, s.dir, s.config.Policy, now),
	}

	logger.Info("Finished partner KPI run", "snapshot_records", len(snapshots))
	return report, nil
}

// RunBatch computes the reports of several months. A failing month is logged
// and skipped; its error is part of the joined error returned with the
// reports of the months that succeeded. The snapshot cache is cleared between
// months.
func (s *Service) RunBatch(ctx context.Context, periods []model.Period) ([]*MonthlyReport, error) {
	var reports []*MonthlyReport
	var errs []error

	for _, period := range periods {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		report, err := s.Run(ctx, period)
		s.cache.Invalidate()
		if err != nil {
			common.LogError(err, "Partner KPI run failed", common.Fields{"period": period.String()})
			errs = append(errs, fmt.Errorf("%s: %w", period, err))
			continue
		}
		reports = append(reports, report)
	}

	return reports, errors.Join(errs...)
}

// Output describes where a rendered report goes.
type Output struct {
	Renderer   Renderer
	Path       string
	Publishers []Publisher
}

// Delivery is the outcome of Deliver.
type Delivery struct {
	Path string
	// URLs maps publisher names to the URL of the uploaded page.
	URLs map[string]string
}

// Deliver renders the report, writes it to out.Path and uploads it with every
// publisher. A failed upload does not stop the other publishers; the errors
// are joined.
func (s *Service) Deliver(ctx context.Context, report *MonthlyReport, out Output) (*Delivery, error) {
	page, err := out.Renderer.Render(report)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	delivery := &Delivery{Path: out.Path, URLs: map[string]string{}}
	if out.Path != "" {
		if dir := filepath.Dir(out.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		if err := os.WriteFile(out.Path, page, 0o644); err != nil { // #nosec G306
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
		s.logger.Info("Wrote report", "path", out.Path, "bytes", len(page))
	}

	message := fmt.Sprintf("Update partner KPI dashboard (%s)", report.Period)
	var errs []error
	for _, p := range out.Publishers {
		url, err := p.Publish(ctx, page, message)
		if err != nil {
			common.LogError(err, "Failed to publish report", common.Fields{"target": p.Name()})
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		delivery.URLs[p.Name()] = url
		s.logger.Info("Published report", "target", p.Name(), "url", url)
	}

	return delivery, errors.Join(errs...)
}
