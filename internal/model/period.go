// Package model defines the records read from the source sheets and snapshot
// files, and the reporting period they are filtered by.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Period is a calendar month, the unit every report is computed for.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q (want YYYY-MM): %w", s, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// String returns "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Compact returns "YYYYMM", the form used in snapshot file names.
func (p Period) Compact() string {
	return fmt.Sprintf("%04d%02d", p.Year, int(p.Month))
}

// Underscored returns "YYYY_MM", the form used in artifact file names.
func (p Period) Underscored() string {
	return fmt.Sprintf("%04d_%02d", p.Year, int(p.Month))
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// ParsePeriods parses a comma separated list of periods, skipping blanks.
func ParsePeriods(list []string) ([]Period, error) {
	var periods []Period
	for _, item := range list {
		for _, part := range strings.Split(item, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			p, err := ParsePeriod(part)
			if err != nil {
				return nil, err
			}
			periods = append(periods, p)
		}
	}
	return periods, nil
}
