package production

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gst-factory/partner-kpi/internal/model"
	"github.com/gst-factory/partner-kpi/internal/partner"
	"github.com/stretchr/testify/assert"
)

var august = model.Period{Year: 2025, Month: time.August}

func newTestCounter() *Counter {
	return NewCounter(partner.DefaultDirectory(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func day(d int) time.Time {
	return time.Date(2025, 8, d, 0, 0, 0, 0, time.UTC)
}

func TestCount(t *testing.T) {
	records := []model.ProductionRecord{
		{Date: day(1), HasDate: true, ProductName: "GAIA-I DUAL", MechPartner: "주식회사 비에이티", ElecPartner: "피엔에스 시스템"},
		{Date: day(2), HasDate: true, ProductName: "GAIA-I", MechPartner: "주식회사 비에이티", ElecPartner: "(주)씨앤에이시스템", SemiPartner: "(주)티엠에스이엔지"},
		{Date: day(3), HasDate: true, ProductName: "DRAGON dual", MechPartner: "(주)티엠에스이엔지", ElecPartner: "(주)티엠에스이엔지", SemiPartner: "(주)티엠에스이엔지"},
		{Date: day(4), HasDate: true, ProductName: "", MechPartner: "BAT"},
		{Date: day(5), HasDate: true, ProductName: "SWS", MechPartner: "Unknown Vendor Co", ElecPartner: ""},
		{Date: time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC), HasDate: true, ProductName: "GAIA-I", MechPartner: "BAT"},
		{HasDate: false, ProductName: "GAIA-I", MechPartner: "BAT"},
	}

	result := newTestCounter().Count(records, august, true)

	assert.Equal(t, map[partner.Code]int{
		partner.BAT:  3,
		partner.FNI:  0,
		partner.TMSM: 2 + 1 + 2,
		partner.PNS:  2,
		partner.CNA:  1,
		partner.TMSE: 2,
	}, result.Counts)

	b := result.Breakdown
	assert.Equal(t, 5, b.Rows)
	assert.Equal(t, 2, b.DroppedByDate)
	assert.Equal(t, 1, b.SkippedBlank)
	assert.Equal(t, 4, b.DualUnits)
	assert.Equal(t, 2, b.SingleUnits)
	assert.Equal(t, 2, b.TMSMDirect)
	assert.Equal(t, 3, b.TMSMSemi)
}

func TestCountWithoutDateColumnCountsEverything(t *testing.T) {
	records := []model.ProductionRecord{
		{ProductName: "GAIA-I", MechPartner: "BAT", ElecPartner: "P&S"},
		{ProductName: "GAIA-I", MechPartner: "FNI", ElecPartner: "C&A"},
	}

	result := newTestCounter().Count(records, august, false)

	assert.Equal(t, 1, result.Counts[partner.BAT])
	assert.Equal(t, 1, result.Counts[partner.FNI])
	assert.Equal(t, 1, result.Counts[partner.PNS])
	assert.Equal(t, 1, result.Counts[partner.CNA])
	assert.False(t, result.Breakdown.DateFiltered)
}

func TestDualCountsDouble(t *testing.T) {
	base := model.ProductionRecord{
		Date: day(10), HasDate: true,
		MechPartner: "에프앤아이(FnI)", ElecPartner: "(주)티엠에스이엔지", SemiPartner: "(주)티엠에스이엔지",
	}

	for _, name := range []string{"GAIA-I", "DRAGON", "SWS-I", "gaia-p"} {
		single := base
		single.ProductName = name
		dual := base
		dual.ProductName = name + " DUAL"

		c := newTestCounter()
		one := c.Count([]model.ProductionRecord{single}, august, true).Counts
		two := c.Count([]model.ProductionRecord{dual}, august, true).Counts

		for _, code := range partner.All() {
			assert.Equal(t, 2*one[code], two[code], "product=%s partner=%s", name, code)
		}
	}
}

func TestUnknownPartnersNeverAccumulate(t *testing.T) {
	records := []model.ProductionRecord{
		{Date: day(1), HasDate: true, ProductName: "GAIA", MechPartner: "Acme", ElecPartner: "Acme", SemiPartner: "Acme"},
	}
	result := newTestCounter().Count(records, august, true)

	assert.Len(t, result.Counts, 6)
	for _, code := range partner.All() {
		assert.Zero(t, result.Counts[code])
	}
}
