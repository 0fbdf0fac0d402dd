package attribution

import (
	"fmt"
	"log/slog"

	"github.com/gst-factory/partner-kpi/internal/model"
	"github.com/gst-factory/partner-kpi/internal/partner"
)

// DefectDetail is the per-defect row shown when a partner card is opened.
type DefectDetail struct {
	ProductInfo string `json:"productInfo"`
	Defect      string `json:"defect"`
	Action      string `json:"action"`
	OccurDate   string `json:"occurDate"`
}

// Tally is the result of attributing a month of defect records.
type Tally struct {
	Counts     map[partner.Code]int
	Details    map[partner.Code][]DefectDetail
	Unassigned int
	// Unknown counts records attributed to a name outside the six codes.
	Unknown int
}

// CountDefects attributes every record and counts defects per canonical
// partner. Unassigned and unknown partners are counted separately and never
// reach the per-partner maps.
func CountDefects(records []model.DefectRecord, a *Attributor, logger *slog.Logger) Tally {
	tally := Tally{
		Counts:  make(map[partner.Code]int, 6),
		Details: make(map[partner.Code][]DefectDetail, 6),
	}
	for _, code := range partner.All() {
		tally.Counts[code] = 0
	}

	for _, rec := range records {
		code, rule := a.Explain(rec)
		switch {
		case code == Unassigned:
			tally.Unassigned++
			continue
		case !code.IsKnown():
			tally.Unknown++
			logger.Debug("Defect attributed to unknown partner", "partner", code, "rule", rule)
			continue
		}

		tally.Counts[code]++
		tally.Details[code] = append(tally.Details[code], DefectDetail{
			ProductInfo: fmt.Sprintf("%s/%s", rec.SerialNumber, rec.ProductName),
			Defect:      rec.Description,
			Action:      rec.Action,
			OccurDate:   occurDate(rec.OccurredOn),
		})
	}

	logger.Debug("Attributed defects",
		"records", len(records),
		"unassigned", tally.Unassigned,
		"unknown_partner", tally.Unknown)

	return tally
}

func occurDate(raw string) string {
	t, err := model.ParseDate(raw)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}
