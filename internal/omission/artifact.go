package omission

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gst-factory/partner-kpi/internal/model"
	"github.com/gst-factory/partner-kpi/internal/partner"
)

// Artifact is the monthly omission extract consumed by the web dashboard.
type Artifact struct {
	ExtractedAt    string                     `json:"extracted_at"`
	Period         string                     `json:"period"`
	TotalRecords   int                        `json:"total_records"`
	WeeklyStats    map[string]*WeekStats      `json:"weekly_stats"`
	PartnerSummary map[string]*PartnerSummary `json:"partner_summary"`
	Metadata       Metadata                   `json:"metadata"`
}

// WeekStats holds one ISO week of the extract.
type WeekStats struct {
	WeekNumber   int    `json:"week_number"`
	Date         string `json:"date"`
	Weekday      string `json:"weekday"`
	IsSundayData bool   `json:"is_sunday_data"`
	DataSource   string `json:"data_source"`
	TotalRecords int    `json:"total_records"`
	// Partners is keyed by partner type ("mech", "elec") then partner code.
	Partners map[string]map[string]*PartnerWeek `json:"partners"`
}

// PartnerWeek aggregates one partner's tasks for one week. NaNRatio is
// 100*NaNCount/TotalTasks (0 without tasks); MeanRatio is the one-hot mean
// from Aggregate, the figure plotted on the KPI page.
type PartnerWeek struct {
	TotalTasks int           `json:"total_tasks"`
	NaNCount   int           `json:"nan_count"`
	NaNRatio   float64       `json:"nan_ratio"`
	MeanRatio  float64       `json:"mean_ratio"`
	Records    []OrderDetail `json:"records"`
}

// OrderDetail is an order that had at least one omitted task.
type OrderDetail struct {
	OrderNo    string  `json:"order_no"`
	ModelName  string  `json:"model_name"`
	NaNCount   int     `json:"nan_count"`
	TotalTasks int     `json:"total_tasks"`
	NaNRatio   float64 `json:"nan_ratio"`
	OrderHref  string  `json:"order_href"`
}

// PartnerSummary totals one partner over the month.
type PartnerSummary struct {
	TotalTasks     int                   `json:"total_tasks"`
	NaNCount       int                   `json:"nan_count"`
	NaNRatio       float64               `json:"nan_ratio"`
	MonthlyAverage float64               `json:"monthly_average"`
	Weeks          map[string]WeekTotals `json:"weeks"`
}

// WeekTotals is a partner's task totals for one week.
type WeekTotals struct {
	NaNCount   int `json:"nan_count"`
	TotalTasks int `json:"total_tasks"`
}

// Metadata records how the extract was produced.
type Metadata struct {
	DataSourceLogic  string   `json:"data_source_logic"`
	WeeksAnalyzed    []string `json:"weeks_analyzed"`
	ExtractionMethod string   `json:"extraction_method"`
	NaNRatiosFrom    string   `json:"nan_ratios_from"`
	RecordsFrom      string   `json:"records_from"`
}

// WeekKey formats an ISO week number as an artifact key ("33주차").
func WeekKey(week int) string {
	return fmt.Sprintf("%d주차", week)
}

// ArtifactFileName returns nan_data_<YYYY>_<MM>_improved.json.
func ArtifactFileName(period model.Period) string {
	return fmt.Sprintf("nan_data_%s_improved.json", period.Underscored())
}

// BuildArtifact assembles the monthly extract from the period's snapshot records.
func BuildArtifact(period model.Period, records []model.SnapshotRecord, dir *partner.Directory, policy SelectionPolicy, now time.Time) *Artifact {
	sorted := append([]model.SnapshotRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].FileDate < sorted[j].FileDate })

	weekly := make(map[string]*WeekStats)
	weekNumbers := make(map[string]int)
	for _, rec := range sorted {
		week, date, err := ISOWeek(rec.FileDate)
		if err != nil {
			continue
		}
		key := WeekKey(week)
		if _, ok := weekly[key]; ok {
			continue
		}
		weekNumbers[key] = week
		weekly[key] = &WeekStats{
			WeekNumber:   week,
			Date:         rec.FileDate,
			Weekday:      date.Weekday().String(),
			IsSundayData: week >= policy.PivotWeek,
			DataSource:   policy.Source(week),
			Partners: map[string]map[string]*PartnerWeek{
				string(partner.DomainMech): {},
				string(partner.DomainElec): {},
			},
		}
	}

	summary := make(map[string]*PartnerSummary, 6)
	for code, series := range Aggregate(sorted, dir) {
		s := &PartnerSummary{Weeks: map[string]WeekTotals{}}
		summary[string(code)] = s
		for _, point := range series {
			if point.Week == MonthlyAverageLabel {
				s.MonthlyAverage = point.Ratio
				continue
			}
			stats, ok := weekly[strings.TrimSuffix(point.Week, "W")+"주차"]
			if !ok {
				continue
			}
			pw := partnerWeek(stats, code)
			pw.MeanRatio = point.Ratio
		}
	}

	for _, rec := range sorted {
		week, _, err := ISOWeek(rec.FileDate)
		if err != nil {
			continue
		}
		key := WeekKey(week)
		stats := weekly[key]
		stats.TotalRecords++

		mech := dir.Normalize(rec.MechPartner, partner.DomainMech)
		if mech.IsKnown() && mech.Class() == partner.ClassMech {
			addRecord(stats, summary, key, mech, rec, rec.Ratios.MechNaNRatio)
		}
		elec := dir.Normalize(rec.ElecPartner, partner.DomainElec)
		if elec.IsKnown() && elec.Class() == partner.ClassElec {
			addRecord(stats, summary, key, elec, rec, rec.Ratios.ElecNaNRatio)
		}
	}

	for _, stats := range weekly {
		for _, byPartner := range stats.Partners {
			for _, pw := range byPartner {
				pw.NaNRatio = taskRatio(pw.NaNCount, pw.TotalTasks)
			}
		}
	}
	for _, s := range summary {
		s.NaNRatio = taskRatio(s.NaNCount, s.TotalTasks)
	}

	weeks := make([]string, 0, len(weekly))
	for key := range weekly {
		weeks = append(weeks, key)
	}
	sort.Slice(weeks, func(i, j int) bool { return weekNumbers[weeks[i]] < weekNumbers[weeks[j]] })

	return &Artifact{
		ExtractedAt:    now.Format("2006-01-02T15:04:05.000000"),
		Period:         period.String(),
		TotalRecords:   len(records),
		WeeklyStats:    weekly,
		PartnerSummary: summary,
		Metadata: Metadata{
			DataSourceLogic:  policy.Describe(),
			WeeksAnalyzed:    weeks,
			ExtractionMethod: "final_accurate_with_details",
			NaNRatiosFrom:    "weekly_one_hot_mean",
			RecordsFrom:      "original_json_data",
		},
	}
}

func partnerWeek(stats *WeekStats, code partner.Code) *PartnerWeek {
	byPartner := stats.Partners[code.Type()]
	pw, ok := byPartner[string(code)]
	if !ok {
		pw = &PartnerWeek{Records: []OrderDetail{}}
		byPartner[string(code)] = pw
	}
	return pw
}

func addRecord(stats *WeekStats, summary map[string]*PartnerSummary, weekKey string, code partner.Code, rec model.SnapshotRecord, ratio float64) {
	nanCount := model.NaNCount(rec.TotalTasks, ratio)

	pw := partnerWeek(stats, code)
	pw.TotalTasks += rec.TotalTasks
	pw.NaNCount += nanCount
	if nanCount > 0 {
		pw.Records = append(pw.Records, OrderDetail{
			OrderNo:    rec.OrderNo,
			ModelName:  rec.ModelName,
			NaNCount:   nanCount,
			TotalTasks: rec.TotalTasks,
			NaNRatio:   ratio,
			OrderHref:  rec.Links.OrderHref,
		})
	}

	s, ok := summary[string(code)]
	if !ok {
		s = &PartnerSummary{Weeks: map[string]WeekTotals{}}
		summary[string(code)] = s
	}
	s.TotalTasks += rec.TotalTasks
	s.NaNCount += nanCount
	totals := s.Weeks[weekKey]
	totals.TotalTasks += rec.TotalTasks
	totals.NaNCount += nanCount
	s.Weeks[weekKey] = totals
}

func taskRatio(nanCount, totalTasks int) float64 {
	if totalTasks <= 0 {
		return 0
	}
	return 100 * float64(nanCount) / float64(totalTasks)
}

// Encode renders the artifact as indented UTF-8 JSON without escaping
// non-ASCII or HTML characters.
func (a *Artifact) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return nil, fmt.Errorf("failed to encode artifact: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteArtifact writes the artifact into dir and returns the file path.
func WriteArtifact(dir string, period model.Period, a *Artifact) (string, error) {
	data, err := a.Encode()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, ArtifactFileName(period))
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}
