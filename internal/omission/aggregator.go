// Package omission aggregates the task-omission ("NaN") ratios reported in
// snapshot files into weekly and monthly per-partner figures.
package omission

import (
	"fmt"
	"sort"
	"time"

	"github.com/gst-factory/partner-kpi/internal/common"
	"github.com/gst-factory/partner-kpi/internal/model"
	"github.com/gst-factory/partner-kpi/internal/partner"
)

// MonthlyAverageLabel is the week label of the synthetic last entry.
const MonthlyAverageLabel = "monthly-average"

// WeeklyRatio is one point of a partner's omission series.
type WeeklyRatio struct {
	Week  string  `json:"week"`
	Ratio float64 `json:"ratio"`
}

// oneHot spreads a record over the six partners: its mechanical partner gets
// the mechanical ratio, its electrical partner the electrical ratio and every
// other partner zero.
func oneHot(rec model.SnapshotRecord, dir *partner.Directory) map[partner.Code]float64 {
	values := make(map[partner.Code]float64, 6)
	for _, code := range partner.All() {
		values[code] = 0
	}

	mech := dir.Normalize(rec.MechPartner, partner.DomainMech)
	if mech.IsKnown() && mech.Class() == partner.ClassMech {
		values[mech] = rec.Ratios.MechNaNRatio
	}
	elec := dir.Normalize(rec.ElecPartner, partner.DomainElec)
	if elec.IsKnown() && elec.Class() == partner.ClassElec {
		values[elec] = rec.Ratios.ElecNaNRatio
	}
	return values
}

// WeekLabel formats an ISO week number as used in the weekly series ("33W").
func WeekLabel(week int) string {
	return fmt.Sprintf("%dW", week)
}

// ISOWeek returns the ISO-8601 week number of an ISO date string.
func ISOWeek(fileDate string) (int, time.Time, error) {
	t, err := time.Parse("2006-01-02", fileDate)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("invalid file date %q: %w", fileDate, err)
	}
	_, week := t.ISOWeek()
	return week, t, nil
}

// Aggregate builds the weekly omission series for every partner.
//
// Records are grouped by their file date, one date being one snapshot batch.
// For each date, in ascending order, every partner gets the mean of its
// one-hot ratios over the date's records, rounded to two decimals. The last
// entry of each series is the mean of the weekly values (every week weighs
// the same regardless of its record count), also rounded. Records with an
// unparseable file date are skipped.
func Aggregate(records []model.SnapshotRecord, dir *partner.Directory) map[partner.Code][]WeeklyRatio {
	series := make(map[partner.Code][]WeeklyRatio, 6)
	for _, code := range partner.All() {
		series[code] = []WeeklyRatio{}
	}

	groups := make(map[string][]model.SnapshotRecord)
	for _, rec := range records {
		groups[rec.FileDate] = append(groups[rec.FileDate], rec)
	}

	dates := make([]string, 0, len(groups))
	for date := range groups {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		week, _, err := ISOWeek(date)
		if err != nil {
			continue
		}

		batch := groups[date]
		sums := make(map[partner.Code]float64, 6)
		for _, rec := range batch {
			for code, v := range oneHot(rec, dir) {
				sums[code] += v
			}
		}

		for _, code := range partner.All() {
			mean := sums[code] / float64(len(batch))
			series[code] = append(series[code], WeeklyRatio{Week: WeekLabel(week), Ratio: common.Round(mean, 2)})
		}
	}

	for _, code := range partner.All() {
		weeks := series[code]
		if len(weeks) == 0 {
			continue
		}
		total := 0.0
		for _, w := range weeks {
			total += w.Ratio
		}
		series[code] = append(weeks, WeeklyRatio{
			Week:  MonthlyAverageLabel,
			Ratio: common.Round(total/float64(len(weeks)), 2),
		})
	}

	return series
}

// MonthlyAverage returns the synthetic monthly entry of a series.
func MonthlyAverage(series []WeeklyRatio) (float64, bool) {
	for _, w := range series {
		if w.Week == MonthlyAverageLabel {
			return w.Ratio, true
		}
	}
	return 0, false
}

// MonthlyRatios returns, per partner, the mean one-hot ratio over every
// record of the month. This record-weighted figure is the ratio that gets
// graded; it is not rounded.
func MonthlyRatios(records []model.SnapshotRecord, dir *partner.Directory) map[partner.Code]float64 {
	ratios := make(map[partner.Code]float64, 6)
	for _, code := range partner.All() {
		ratios[code] = 0
	}
	if len(records) == 0 {
		return ratios
	}

	for _, rec := range records {
		for code, v := range oneHot(rec, dir) {
			ratios[code] += v
		}
	}
	for code := range ratios {
		ratios[code] /= float64(len(records))
	}
	return ratios
}
