package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/gst-factory/partner-kpi/internal/grading"
	"github.com/gst-factory/partner-kpi/internal/kpi"
	"github.com/gst-factory/partner-kpi/internal/partner"
)

const gradeHeader = "협력사    NaN 비율(%)  NaN 등급  불량률(%)  불량 등급  최종 등급  평가 점수"

var classTitles = []struct {
	class partner.Class
	title string
}{
	{partner.ClassMech, "월별 협력사 KPI 등급 (기구 협력사) - 불량률 기준"},
	{partner.ClassElec, "월별 협력사 KPI 등급 (전장 협력사) - 불량률 기준"},
}

// WriteGrades prints the ranked grade tables of a report followed by the
// per-partner defect totals.
func WriteGrades(w io.Writer, report *kpi.MonthlyReport) error {
	var b strings.Builder

	b.WriteString(FormatTitle(fmt.Sprintf("협력사 평가 %s", report.Period)))
	b.WriteString("\n")

	for _, ct := range classTitles {
		fmt.Fprintf(&b, "\n%s %s\n", ChartIcon, ct.title)
		b.WriteString(TableHeaderStyle.Render(gradeHeader))
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", 72))
		b.WriteString("\n")
		for _, s := range report.Ranked[ct.class] {
			b.WriteString(gradeRow(s))
			b.WriteString("\n")
		}
		b.WriteString(SubtleStyle.Render("불량 등급 기준: " + ladderLegend(grading.DefectLadder(ct.class))))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n%s 협력사별 총 불량 건수\n", ChartIcon)
	for _, code := range partner.All() {
		fmt.Fprintf(&b, "%-15s : %d건\n", code, report.Defects.Counts[code])
	}
	if report.Defects.Unassigned > 0 {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("%-15s : %d건", "미배정", report.Defects.Unassigned)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func gradeRow(s grading.PartnerScore) string {
	name := string(s.Partner)
	if s.Medal != "" {
		name = s.Medal + name
	}

	rate := fmt.Sprintf("%8.2f", s.DefectRate)
	if s.NoProduction {
		rate = SubtleStyle.Render(fmt.Sprintf("%8s", "-"))
	}

	return fmt.Sprintf("%-10s %10.1f  %s  %s  %s  %s  %8.1f",
		name,
		s.NaNRatio,
		FormatGrade(s.NaNGrade, fmt.Sprintf("%8s", s.NaNGrade)),
		rate,
		FormatGrade(s.DefectGrade, fmt.Sprintf("%8s", s.DefectGrade)),
		FormatGrade(s.FinalGrade, fmt.Sprintf("%8s", s.FinalGrade)),
		s.WeightedScore)
}

// ladderLegend spells out a ladder, e.g. "A < 6.0%, B < 16.5%, D ≥ 27.6%".
func ladderLegend(l grading.Ladder) string {
	if len(l.Thresholds) == 0 {
		return string(l.Worst)
	}
	parts := make([]string, 0, len(l.Thresholds)+1)
	for _, t := range l.Thresholds {
		parts = append(parts, fmt.Sprintf("%s < %.1f%%", t.Grade, t.Below))
	}
	last := l.Thresholds[len(l.Thresholds)-1].Below
	parts = append(parts, fmt.Sprintf("%s ≥ %.1f%%", l.Worst, last))
	return strings.Join(parts, ", ")
}
