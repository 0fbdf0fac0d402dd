// Package kpi runs the monthly partner KPI pipeline: it reads the defect and
// production sheets and the omission snapshots, grades every partner and
// hands the result to a renderer and publishers.
package kpi

import (
	"context"

	"github.com/gst-factory/partner-kpi/internal/model"
)

// DefectSource provides the defect history sheet.
type DefectSource interface {
	DefectTable(ctx context.Context) (model.Table, error)
}

// ProductionSource provides the production (process inspection) log.
type ProductionSource interface {
	ProductionTable(ctx context.Context) (model.Table, error)
}

// SnapshotSource provides the omission snapshot records of a month.
type SnapshotSource interface {
	Snapshots(ctx context.Context, period model.Period) ([]model.SnapshotRecord, error)
}

// Renderer turns a monthly report into a page.
type Renderer interface {
	Render(report *MonthlyReport) ([]byte, error)
}

// Publisher uploads a rendered page and returns the URL it is served from.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, content []byte, message string) (string, error)
}
