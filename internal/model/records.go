package model

import (
	"strings"
	"time"
)

// DefectRecord is one row of the defect history sheet.
type DefectRecord struct {
	Date           time.Time // value of the discovered date column
	OccurredOn     string    // raw occurrence date, kept for display
	TopCategory    string
	SubCategory    string
	MechPartner    string
	ElecPartner    string
	TechnicianNote string
	Description    string
	Action         string
	SerialNumber   string
	ProductName    string
	Remark         string
}

// ProductionRecord is one row of the production (process inspection) log.
type ProductionRecord struct {
	Date        time.Time
	HasDate     bool
	ProductName string
	MechPartner string
	ElecPartner string
	SemiPartner string
}

// dualMarker identifies dual-chamber products.
const dualMarker = "DUAL"

// Units returns how many produced units the row stands for: dual-chamber
// products count twice.
func (r ProductionRecord) Units() int {
	if strings.Contains(strings.ToUpper(r.ProductName), dualMarker) {
		return 2
	}
	return 1
}

// Ratios holds the omission percentages (0-100) reported for one order.
type Ratios struct {
	MechNaNRatio float64 `json:"mech_nan_ratio"`
	ElecNaNRatio float64 `json:"elec_nan_ratio"`
}

// Links holds the URLs attached to a snapshot entry.
type Links struct {
	OrderHref string `json:"order_href"`
}

// SnapshotRecord is one task result from a snapshot file. FileDate and
// GroupMonth are injected from the file name when the file is loaded.
type SnapshotRecord struct {
	MechPartner string `json:"mech_partner"`
	ElecPartner string `json:"elec_partner"`
	Ratios      Ratios `json:"ratios"`
	TotalTasks  int    `json:"total_tasks"`
	OrderNo     string `json:"order_no"`
	ModelName   string `json:"model_name"`
	Links       Links  `json:"links"`
	FileDate    string `json:"file_date"`
	GroupMonth  string `json:"group_month"`
}

// NaNCount returns floor(total_tasks * ratio / 100), or 0 without tasks.
func NaNCount(totalTasks int, ratio float64) int {
	if totalTasks <= 0 {
		return 0
	}
	return int(float64(totalTasks) * ratio / 100)
}
