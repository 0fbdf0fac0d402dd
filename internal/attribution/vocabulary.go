// Package attribution decides which partner is responsible for a defect record.
package attribution

import "strings"

// Vocabulary lists the category labels and sub-category markers the rules
// look for. Top categories are compared for equality; markers are matched as
// case-insensitive substrings of the sub-category.
type Vocabulary struct {
	WorkDefect  []string
	MechDefect  []string
	ElecDefect  []string
	PartDefect  []string
	MechMarkers []string
	ElecMarkers []string
	// TMSToken in a technician note names the company behind both TMS codes.
	TMSToken string
}

// DefaultVocabulary returns the labels used in the defect history sheet,
// plus their English equivalents.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		WorkDefect:  []string{"작업불량", "work-defect"},
		MechDefect:  []string{"기구작업불량", "mechanical-defect"},
		ElecDefect:  []string{"전장작업불량", "electrical-defect"},
		PartDefect:  []string{"부품불량", "part-defect"},
		MechMarkers: []string{"기구", "mechanical"},
		ElecMarkers: []string{"전장", "electrical"},
		TMSToken:    "TMS",
	}
}

func isOneOf(value string, labels []string) bool {
	value = strings.TrimSpace(value)
	for _, label := range labels {
		if value == label {
			return true
		}
	}
	return false
}

func containsAny(value string, markers []string) bool {
	lower := strings.ToLower(value)
	for _, marker := range markers {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
