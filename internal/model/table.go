package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Row is one sheet row keyed by header name.
type Row map[string]string

// Get returns the trimmed value of a column, or "" when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Table is a header row plus the data rows below it.
type Table struct {
	Header []string
	Rows   []Row
}

// NewTable builds a table from raw cell values where the first row is the
// header. Short rows are padded with empty cells; when a header repeats, the
// first column with that name wins.
func NewTable(values [][]string) Table {
	if len(values) == 0 {
		return Table{}
	}

	header := make([]string, len(values[0]))
	for i, h := range values[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(values)-1)
	for _, cells := range values[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if _, seen := row[name]; seen {
				continue
			}
			if i < len(cells) {
				row[name] = cells[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return Table{Header: header, Rows: rows}
}

// Has reports whether the header contains column.
func (t Table) Has(column string) bool {
	for _, h := range t.Header {
		if h == column {
			return true
		}
	}
	return false
}

// Missing returns the columns that are not present in the header.
func (t Table) Missing(columns ...string) []string {
	var missing []string
	for _, c := range columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// FindColumn returns the first alias, in priority order, that appears in the
// header. It returns false when none of the aliases is present; callers decide
// what that means for them.
func FindColumn(header []string, aliases []string) (string, bool) {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	for _, alias := range aliases {
		if _, ok := present[alias]; ok {
			return alias, true
		}
	}
	return "", false
}

// dateLayouts are tried in order by ParseDate before falling back to
// dateparse.
var dateLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006.1.2",
	"2006.1.2 15:04:05",
	"20060102",
	"2006-01",
	"1/2/2006",
}

// ParseDate parses the date renderings that appear in the source sheets.
// Korean dotted dates ("2025. 8. 4.") are folded to "2025.8.4" first.
// Values without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	value = strings.TrimSuffix(strings.ReplaceAll(value, ". ", "."), ".")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	// Bare digit runs would be read as unix timestamps.
	if strings.Trim(value, "0123456789") == "" {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q: %w", s, err)
	}
	return t, nil
}
