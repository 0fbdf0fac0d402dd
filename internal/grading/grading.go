// Package grading turns defect rates and omission ratios into letter grades
// and a weighted composite score.
package grading

import (
	"github.com/gst-factory/partner-kpi/internal/common"
	"github.com/gst-factory/partner-kpi/internal/partner"
)

// Grade is a letter grade from A (best) to E (worst).
type Grade string

// Letter grades.
const (
	A Grade = "A"
	B Grade = "B"
	C Grade = "C"
	D Grade = "D"
	E Grade = "E"
)

// Weights of the composite score.
const (
	DefectWeight = 0.7
	NaNWeight    = 0.3
)

// Threshold assigns Grade to values strictly below Below.
type Threshold struct {
	Below float64
	Grade Grade
}

// Ladder is an ascending list of thresholds plus the grade for values that
// reach none of them.
type Ladder struct {
	Thresholds []Threshold
	Worst      Grade
}

// Grade returns the grade of the first threshold v is strictly less than.
func (l Ladder) Grade(v float64) Grade {
	for _, t := range l.Thresholds {
		if v < t.Below {
			return t.Grade
		}
	}
	return l.Worst
}

var (
	nanLadder = Ladder{
		Thresholds: []Threshold{{1.0, A}, {3.0, B}, {6.0, C}},
		Worst:      D,
	}

	defectLadders = map[partner.Class]Ladder{
		partner.ClassMech: {
			Thresholds: []Threshold{{6.0, A}, {16.5, B}, {27.6, C}},
			Worst:      D,
		},
		partner.ClassElec: {
			Thresholds: []Threshold{{1.0, A}, {3.6, B}, {6.2, C}, {7.5, D}},
			Worst:      E,
		},
	}

	// finalCutoffs are checked top down with >=.
	finalCutoffs = []Threshold{{8.75, A}, {6.25, B}, {3.75, C}, {1.25, D}}

	scores = map[Grade]float64{A: 10, B: 7.5, C: 5, D: 2.5, E: 0}
)

// NaNGrade grades an omission ratio in percent.
func NaNGrade(ratio float64) Grade {
	return nanLadder.Grade(ratio)
}

// DefectLadder returns the defect-rate ladder of a partner class.
func DefectLadder(class partner.Class) Ladder {
	return defectLadders[class]
}

// DefectGrade grades a defect rate in percent using the ladder of the
// partner's class.
func DefectGrade(rate float64, code partner.Code) Grade {
	return defectLadders[code.Class()].Grade(rate)
}

// Score converts a grade to points. Unknown grades score zero.
func Score(g Grade) float64 {
	return scores[g]
}

// WeightedScore combines the two grades, rounded to one decimal.
func WeightedScore(defect, nan Grade) float64 {
	return common.Round(Score(defect)*DefectWeight+Score(nan)*NaNWeight, 1)
}

// FinalGrade converts a composite score back to a letter.
func FinalGrade(score float64) Grade {
	for _, c := range finalCutoffs {
		if score >= c.Below {
			return c.Grade
		}
	}
	return E
}

// Rank orders grades from best (0) to worst (4).
func (g Grade) Rank() int {
	switch g {
	case A:
		return 0
	case B:
		return 1
	case C:
		return 2
	case D:
		return 3
	default:
		return 4
	}
}
