package omission

import (
	"fmt"
	"strings"
	"time"

	"github.com/gst-factory/partner-kpi/internal/model"
)

// FilePrefix starts every snapshot file name:
// nan_ot_results_<YYYYMMDD>_<HHMMSS>_<weekday>_<n>회차.json
const FilePrefix = "nan_ot_results_"

// SnapshotFile describes one snapshot file before it is downloaded.
type SnapshotFile struct {
	ID       string
	Name     string
	Modified time.Time
}

// SelectionPolicy picks which weekday's snapshot represents each week.
// From PivotWeek on, only files tagged LateTag count; before it, only files
// tagged EarlyTag do.
type SelectionPolicy struct {
	PivotWeek int
	LateTag   string
	EarlyTag  string
}

// DefaultSelectionPolicy uses Sunday snapshots from ISO week 33 and Friday
// snapshots up to week 32.
func DefaultSelectionPolicy() SelectionPolicy {
	return SelectionPolicy{
		PivotWeek: 33,
		LateTag:   "_일_",
		EarlyTag:  "_금_",
	}
}

// Source returns the human label of the weekday used for a week.
func (p SelectionPolicy) Source(week int) string {
	if week >= p.PivotWeek {
		return "일요일"
	}
	return "금요일"
}

// Describe returns the policy as recorded in artifact metadata.
func (p SelectionPolicy) Describe() string {
	return fmt.Sprintf("%d주차부터 일요일, %d주차 이하 금요일", p.PivotWeek, p.PivotWeek-1)
}

// FileDate extracts the date from a snapshot file name.
func FileDate(name string) (time.Time, error) {
	parts := strings.Split(name, "_")
	if len(parts) < 4 || len(parts[3]) != 8 {
		return time.Time{}, fmt.Errorf("snapshot file name %q has no date field", name)
	}
	t, err := time.Parse("20060102", parts[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("snapshot file name %q: %w", name, err)
	}
	return t, nil
}

// Eligible reports whether a file is the representative snapshot of its week.
func (p SelectionPolicy) Eligible(name string) bool {
	date, err := FileDate(name)
	if err != nil {
		return false
	}
	_, week := date.ISOWeek()
	if week >= p.PivotWeek {
		return strings.Contains(name, p.LateTag)
	}
	return strings.Contains(name, p.EarlyTag)
}

// Select keeps the eligible files of the period, preserving order. Files of
// other months and files whose names do not parse are dropped.
func (p SelectionPolicy) Select(files []SnapshotFile, period model.Period) []SnapshotFile {
	var selected []SnapshotFile
	for _, f := range files {
		if !strings.HasPrefix(f.Name, FilePrefix+period.Compact()) {
			continue
		}
		if p.Eligible(f.Name) {
			selected = append(selected, f)
		}
	}
	return selected
}
