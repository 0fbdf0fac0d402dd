// Package render turns a monthly KPI report into the static dashboard page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/gst-factory/partner-kpi/internal/attribution"
	"github.com/gst-factory/partner-kpi/internal/grading"
	"github.com/gst-factory/partner-kpi/internal/kpi"
	"github.com/gst-factory/partner-kpi/internal/omission"
	"github.com/gst-factory/partner-kpi/internal/partner"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// MonthlyAverageLabel replaces the synthetic series entry on the page.
const MonthlyAverageLabel = "월평균"

// HTML renders the dashboard page.
type HTML struct {
	tpl *template.Template
}

// NewHTML parses the embedded dashboard template.
func NewHTML() (*HTML, error) {
	tpl, err := template.New("partner_kpi.gohtml").
		Funcs(template.FuncMap{
			"score":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
			"percent": func(v float64) string { return fmt.Sprintf("%.2f", v) },
			"ratio":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
		}).
		ParseFS(templateFS, "templates/partner_kpi.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}
	return &HTML{tpl: tpl}, nil
}

// card is one partner tile.
type card struct {
	ID            string
	Partner       string
	Medal         string
	GradeClass    string
	FinalGrade    string
	WeightedScore float64
	DefectRate    float64
	NaNRatio      float64
	DefectCount   int
	Production    int
	NoProduction  bool
}

type weekRow struct {
	Week  string  `json:"week"`
	Ratio float64 `json:"ratio"`
}

type section struct {
	Title string
	Cards []card
}

type page struct {
	Period        string
	GeneratedAt   string
	Sections      []section
	Partners      []card
	DefectDetails map[string][]attribution.DefectDetail
	NaNDetails    map[string][]weekRow
}

// PartnerID turns a partner code into an HTML id fragment ("C&A" -> "cna").
func PartnerID(code partner.Code) string {
	r := strings.NewReplacer("&", "n", "(", "", ")", "")
	return r.Replace(strings.ToLower(string(code)))
}

// Render implements kpi.Renderer.
func (h *HTML) Render(report *kpi.MonthlyReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := h.tpl.Execute(&buf, newPage(report)); err != nil {
		return nil, fmt.Errorf("failed to render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

func newPage(report *kpi.MonthlyReport) page {
	p := page{
		Period:        report.Period.String(),
		GeneratedAt:   report.GeneratedAt.Format("2006-01-02 15:04"),
		DefectDetails: make(map[string][]attribution.DefectDetail, 6),
		NaNDetails:    make(map[string][]weekRow, 6),
	}

	sections := []struct {
		class partner.Class
		title string
	}{
		{partner.ClassMech, "🔧 기구 협력사 평가 지수"},
		{partner.ClassElec, "⚡ 전장 협력사 평가 지수"},
	}
	for _, s := range sections {
		sec := section{Title: s.title}
		for _, score := range report.Ranked[s.class] {
			c := newCard(score)
			sec.Cards = append(sec.Cards, c)
			p.Partners = append(p.Partners, c)
		}
		p.Sections = append(p.Sections, sec)
	}

	for _, code := range partner.All() {
		details := report.Defects.Details[code]
		if details == nil {
			details = []attribution.DefectDetail{}
		}
		p.DefectDetails[string(code)] = details
		p.NaNDetails[string(code)] = weekRows(report.NaNSeries[code])
	}
	return p
}

func newCard(s grading.PartnerScore) card {
	return card{
		ID:            PartnerID(s.Partner),
		Partner:       string(s.Partner),
		Medal:         s.Medal,
		GradeClass:    "grade-" + strings.ToLower(string(s.FinalGrade)),
		FinalGrade:    string(s.FinalGrade),
		WeightedScore: s.WeightedScore,
		DefectRate:    s.DefectRate,
		NaNRatio:      s.NaNRatio,
		DefectCount:   s.DefectCount,
		Production:    s.ProductionCount,
		NoProduction:  s.NoProduction,
	}
}

func weekRows(series []omission.WeeklyRatio) []weekRow {
	rows := make([]weekRow, 0, len(series))
	for _, w := range series {
		label := w.Week
		if label == omission.MonthlyAverageLabel {
			label = MonthlyAverageLabel
		}
		rows = append(rows, weekRow{Week: label, Ratio: w.Ratio})
	}
	return rows
}
