// Package production turns the production log into per-partner unit counts,
// the denominator of every defect rate.
package production

import (
	"log/slog"

	"github.com/gst-factory/partner-kpi/internal/model"
	"github.com/gst-factory/partner-kpi/internal/partner"
)

// Breakdown explains where the counts came from.
type Breakdown struct {
	Rows          int // rows considered after month filtering
	SkippedBlank  int // rows without a product name
	DualUnits     int
	SingleUnits   int
	TMSMDirect    int // TMS(M) units from the mechanical column
	TMSMSemi      int // TMS(M) units from the semi-finished column
	DateFiltered  bool
	DroppedByDate int
}

// Result is the output of Count.
type Result struct {
	Counts    map[partner.Code]int
	Breakdown Breakdown
}

// Counter aggregates production records into unit counts.
type Counter struct {
	dir    *partner.Directory
	logger *slog.Logger
}

// NewCounter creates a counter that normalizes partner names with dir.
func NewCounter(dir *partner.Directory, logger *slog.Logger) *Counter {
	return &Counter{dir: dir, logger: logger}
}

// Count returns units per canonical partner for the period.
//
// When hasDateColumn is false the log has no usable date column and every row
// is counted. Otherwise rows outside the period, or whose date did not parse,
// are dropped. A row adds its units to both its mechanical and its electrical
// partner; units whose semi-finished partner is TMS(M) are added to TMS(M) on
// top of that. Partners outside the six codes are dropped.
func (c *Counter) Count(records []model.ProductionRecord, period model.Period, hasDateColumn bool) Result {
	counts := make(map[partner.Code]int, 6)
	for _, code := range partner.All() {
		counts[code] = 0
	}

	var b Breakdown
	b.DateFiltered = hasDateColumn
	if !hasDateColumn {
		c.logger.Warn("Production log has no date column, counting all rows", "period", period.String())
	}

	semiUnits := 0
	for _, rec := range records {
		if hasDateColumn && (!rec.HasDate || !period.Contains(rec.Date)) {
			b.DroppedByDate++
			continue
		}
		b.Rows++

		if rec.ProductName == "" {
			b.SkippedBlank++
			continue
		}

		units := rec.Units()
		if units > 1 {
			b.DualUnits += units
		} else {
			b.SingleUnits += units
		}

		mech := c.dir.Normalize(rec.MechPartner, partner.DomainMech)
		elec := c.dir.Normalize(rec.ElecPartner, partner.DomainElec)
		if _, ok := counts[mech]; ok {
			counts[mech] += units
		}
		if _, ok := counts[elec]; ok {
			counts[elec] += units
		}

		if c.dir.Normalize(rec.SemiPartner, partner.DomainSemi) == partner.TMSM {
			semiUnits += units
		}
	}

	b.TMSMDirect = counts[partner.TMSM]
	b.TMSMSemi = semiUnits
	counts[partner.TMSM] += semiUnits

	c.logger.Info("Counted production units",
		"period", period.String(),
		"rows", b.Rows,
		"dropped_by_date", b.DroppedByDate,
		"dual_units", b.DualUnits,
		"single_units", b.SingleUnits,
		"tms_m_direct", b.TMSMDirect,
		"tms_m_semi", b.TMSMSemi)

	return Result{Counts: counts, Breakdown: b}
}
