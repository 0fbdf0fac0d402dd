package model

import (
	"errors"
	"log/slog"
	"strings"
)

// ErrNoDateColumn is returned when none of the accepted date column aliases
// is present in a sheet.
var ErrNoDateColumn = errors.New("no date column found")

// DefectColumns names the defect sheet columns.
type DefectColumns struct {
	TopCategory    string
	SubCategory    string
	MechPartner    string
	ElecPartner    string
	TechnicianNote string
	Description    string
	Action         string
	SerialNumber   string
	ProductName    string
	OccurredOn     string
	Remark         string
	// DateAliases are tried in order to find the column used for month filtering.
	DateAliases []string
	// ExcludeRemark drops rows whose remark contains it. Empty disables the filter.
	ExcludeRemark string
}

// DefaultDefectColumns returns the header names of the defect history sheet.
func DefaultDefectColumns() DefectColumns {
	return DefectColumns{
		TopCategory:    "대분류",
		SubCategory:    "중분류",
		MechPartner:    "협력사(기구)명",
		ElecPartner:    "협력사(전장)명",
		TechnicianNote: "작업자",
		Description:    "상세불량내용",
		Action:         "상세조치내용",
		SerialNumber:   "제품S/N",
		ProductName:    "제품명",
		OccurredOn:     "발생일",
		Remark:         "비고",
		DateAliases:    []string{"발견일", "일자", "날짜", "등록일", "작성일", "발생일", "검사일"},
		ExcludeRemark:  "제조(He미보증)",
	}
}

// ProductionColumns names the production log columns.
type ProductionColumns struct {
	ProductName string
	MechPartner string
	ElecPartner string
	SemiPartner string
	DateAliases []string
}

// DefaultProductionColumns returns the header names of the production log.
func DefaultProductionColumns() ProductionColumns {
	return ProductionColumns{
		ProductName: "제품명",
		MechPartner: "협력사(기구)명",
		ElecPartner: "협력사(전장)명",
		SemiPartner: "협력사(반제품)명",
		DateAliases: []string{"발생일", "월", "일자", "등록일", "날짜", "공정검사일"},
	}
}

// DefectsForPeriod converts the defect sheet into records that fall in the
// period. Rows whose date does not parse are skipped, as are rows carrying the
// excluded remark. It returns ErrNoDateColumn when no date alias matches.
func DefectsForPeriod(t Table, cols DefectColumns, period Period, logger *slog.Logger) ([]DefectRecord, error) {
	dateCol, ok := FindColumn(t.Header, cols.DateAliases)
	if !ok {
		return nil, ErrNoDateColumn
	}

	var (
		records  []DefectRecord
		excluded int
		badDates int
	)
	for _, row := range t.Rows {
		if cols.ExcludeRemark != "" && strings.Contains(row.Get(cols.Remark), cols.ExcludeRemark) {
			excluded++
			continue
		}

		date, err := ParseDate(row.Get(dateCol))
		if err != nil {
			badDates++
			continue
		}
		if !period.Contains(date) {
			continue
		}

		records = append(records, DefectRecord{
			Date:           date,
			OccurredOn:     row.Get(cols.OccurredOn),
			TopCategory:    row.Get(cols.TopCategory),
			SubCategory:    row.Get(cols.SubCategory),
			MechPartner:    row.Get(cols.MechPartner),
			ElecPartner:    row.Get(cols.ElecPartner),
			TechnicianNote: row.Get(cols.TechnicianNote),
			Description:    row.Get(cols.Description),
			Action:         row.Get(cols.Action),
			SerialNumber:   row.Get(cols.SerialNumber),
			ProductName:    row.Get(cols.ProductName),
			Remark:         row.Get(cols.Remark),
		})
	}

	logger.Debug("Filtered defect rows",
		"period", period.String(),
		"date_column", dateCol,
		"rows", len(t.Rows),
		"kept", len(records),
		"excluded_by_remark", excluded,
		"unparseable_dates", badDates)

	return records, nil
}

// ProductionRecords converts the production log into records. When a date
// column is found, each record carries its parsed date (HasDate is false when
// the value does not parse). The returned bool reports whether a date column
// was found at all.
func ProductionRecords(t Table, cols ProductionColumns) ([]ProductionRecord, bool) {
	dateCol, hasDateColumn := FindColumn(t.Header, cols.DateAliases)

	records := make([]ProductionRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := ProductionRecord{
			ProductName: row.Get(cols.ProductName),
			MechPartner: row.Get(cols.MechPartner),
			ElecPartner: row.Get(cols.ElecPartner),
			SemiPartner: row.Get(cols.SemiPartner),
		}
		if hasDateColumn {
			if date, err := ParseDate(row.Get(dateCol)); err == nil {
				rec.Date = date
				rec.HasDate = true
			}
		}
		records = append(records, rec)
	}
	return records, hasDateColumn
}
