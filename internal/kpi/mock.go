package kpi

import (
	"context"
	"sync"

	"github.com/gst-factory/partner-kpi/internal/model"
)

// MockSheets is an in-memory DefectSource and ProductionSource.
type MockSheets struct {
	Err             error
	Defects         model.Table
	Production      model.Table
	DefectCalls     int
	ProductionCalls int
	mu              sync.Mutex
}

// DefectTable implements DefectSource.
func (m *MockSheets) DefectTable(_ context.Context) (model.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DefectCalls++
	return m.Defects, m.Err
}

// ProductionTable implements ProductionSource.
func (m *MockSheets) ProductionTable(_ context.Context) (model.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ProductionCalls++
	return m.Production, m.Err
}

// MockSnapshots is an in-memory SnapshotSource keyed by period.
type MockSnapshots struct {
	Records map[model.Period][]model.SnapshotRecord
	Errs    map[model.Period]error
	Calls   []model.Period
	mu      sync.Mutex
}

// Snapshots implements SnapshotSource.
func (m *MockSnapshots) Snapshots(_ context.Context, period model.Period) ([]model.SnapshotRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, period)
	if err := m.Errs[period]; err != nil {
		return nil, err
	}
	return m.Records[period], nil
}

// MockRenderer records rendered reports.
type MockRenderer struct {
	RenderFunc func(report *MonthlyReport) ([]byte, error)
	Rendered   []*MonthlyReport
	mu         sync.Mutex
}

// Render implements Renderer.
func (m *MockRenderer) Render(report *MonthlyReport) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Rendered = append(m.Rendered, report)
	if m.RenderFunc != nil {
		return m.RenderFunc(report)
	}
	return []byte("<html>" + report.Period.String() + "</html>"), nil
}

// MockPublisher records uploads.
type MockPublisher struct {
	Err      error
	Target   string
	URL      string
	Uploads  [][]byte
	Messages []string
	mu       sync.Mutex
}

// Name implements Publisher.
func (m *MockPublisher) Name() string {
	return m.Target
}

// Publish implements Publisher.
func (m *MockPublisher) Publish(_ context.Context, content []byte, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Uploads = append(m.Uploads, content)
	m.Messages = append(m.Messages, message)
	if m.Err != nil {
		return "", m.Err
	}
	return m.URL, nil
}
