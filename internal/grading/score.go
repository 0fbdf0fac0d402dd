package grading

import (
	"sort"

	"github.com/gst-factory/partner-kpi/internal/common"
	"github.com/gst-factory/partner-kpi/internal/partner"
)

// Medals marks the top three partners of each class.
var Medals = []string{"🥇", "🥈", "🥉"}

// PartnerScore is the monthly KPI of one partner.
type PartnerScore struct {
	Partner         partner.Code  `json:"partner"`
	Class           partner.Class `json:"class"`
	NaNRatio        float64       `json:"nan_ratio"`
	NaNGrade        Grade         `json:"nan_grade"`
	DefectCount     int           `json:"defect_count"`
	ProductionCount int           `json:"production_count"`
	DefectRate      float64       `json:"defect_rate"`
	DefectGrade     Grade         `json:"defect_grade"`
	WeightedScore   float64       `json:"weighted_score"`
	FinalGrade      Grade         `json:"final_grade"`
	// NoProduction is set when the partner produced nothing in the month and
	// the defect rate was forced to zero.
	NoProduction bool   `json:"no_production"`
	Medal        string `json:"medal,omitempty"`
}

// DefectRate returns 100*defects/production rounded to two decimals. The
// boolean is false when production is zero, in which case the rate is 0.
func DefectRate(defects, production int) (float64, bool) {
	if production <= 0 {
		return 0, false
	}
	return common.Round(100*float64(defects)/float64(production), 2), true
}

// Evaluate grades one partner for one month.
func Evaluate(code partner.Code, defects, production int, nanRatio float64) PartnerScore {
	rate, ok := DefectRate(defects, production)

	s := PartnerScore{
		Partner:         code,
		Class:           code.Class(),
		NaNRatio:        nanRatio,
		NaNGrade:        NaNGrade(nanRatio),
		DefectCount:     defects,
		ProductionCount: production,
		DefectRate:      rate,
		DefectGrade:     DefectGrade(rate, code),
		NoProduction:    !ok,
	}
	s.WeightedScore = WeightedScore(s.DefectGrade, s.NaNGrade)
	s.FinalGrade = FinalGrade(s.WeightedScore)
	return s
}

// Rank returns the scores grouped by class, each group sorted by weighted
// score descending and defect rate ascending. The first three of each group
// get a medal. The input slice is not modified.
func Rank(scores []PartnerScore) map[partner.Class][]PartnerScore {
	ranked := map[partner.Class][]PartnerScore{}
	for _, s := range scores {
		s.Medal = ""
		ranked[s.Class] = append(ranked[s.Class], s)
	}

	for _, group := range ranked {
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].WeightedScore != group[j].WeightedScore {
				return group[i].WeightedScore > group[j].WeightedScore
			}
			return group[i].DefectRate < group[j].DefectRate
		})
		for i := range group {
			if i < len(Medals) {
				group[i].Medal = Medals[i]
			}
		}
	}
	return ranked
}
