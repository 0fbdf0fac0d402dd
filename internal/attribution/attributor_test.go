package attribution

import (
	"io"
	"log/slog"
	"testing"

	"github.com/gst-factory/partner-kpi/internal/model"
	"github.com/gst-factory/partner-kpi/internal/partner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAttributor() *Attributor {
	return NewAttributor(partner.DefaultDirectory(), DefaultVocabulary())
}

func TestAttribute(t *testing.T) {
	tests := []struct {
		name     string
		rec      model.DefectRecord
		want     partner.Code
		wantRule string
	}{
		{
			name:     "TMS note on mechanical defect",
			rec:      model.DefectRecord{TopCategory: "기구작업불량", TechnicianNote: "TMS 김철수"},
			want:     partner.TMSM,
			wantRule: "note-tms",
		},
		{
			name:     "TMS note on electrical defect",
			rec:      model.DefectRecord{TopCategory: "전장작업불량", TechnicianNote: "TMS"},
			want:     partner.TMSE,
			wantRule: "note-tms",
		},
		{
			name:     "TMS note on work defect with mechanical sub-category",
			rec:      model.DefectRecord{TopCategory: "작업불량", SubCategory: "기구조립", TechnicianNote: "TMS"},
			want:     partner.TMSM,
			wantRule: "note-tms",
		},
		{
			name:     "TMS note on work defect with electrical sub-category",
			rec:      model.DefectRecord{TopCategory: "work-defect", SubCategory: "Electrical wiring", TechnicianNote: "TMS crew"},
			want:     partner.TMSE,
			wantRule: "note-tms",
		},
		{
			name:     "TMS note wins over partner columns",
			rec:      model.DefectRecord{TopCategory: "기구작업불량", MechPartner: "주식회사 비에이티", TechnicianNote: "TMS"},
			want:     partner.TMSM,
			wantRule: "note-tms",
		},
		{
			name:     "TMS note with undecidable category falls back to columns",
			rec:      model.DefectRecord{TopCategory: "부품불량", SubCategory: "전장부품", ElecPartner: "피엔에스 시스템", TechnicianNote: "TMS"},
			want:     partner.PNS,
			wantRule: "category",
		},
		{
			name:     "single code in note",
			rec:      model.DefectRecord{TopCategory: "전장작업불량", ElecPartner: "(주)씨앤에이시스템", TechnicianNote: "P&S 야간조"},
			want:     partner.PNS,
			wantRule: "note-code",
		},
		{
			name:     "two codes in note fall through to category",
			rec:      model.DefectRecord{TopCategory: "기구작업불량", MechPartner: "에프앤아이(FnI)", TechnicianNote: "BAT/C&A 공동"},
			want:     partner.FNI,
			wantRule: "category",
		},
		{
			name:     "blank note is absent",
			rec:      model.DefectRecord{TopCategory: "기구작업불량", MechPartner: "주식회사 비에이티", TechnicianNote: "   "},
			want:     partner.BAT,
			wantRule: "category",
		},
		{
			name:     "note without any code",
			rec:      model.DefectRecord{TopCategory: "전장작업불량", ElecPartner: "(주)티엠에스이엔지", TechnicianNote: "홍길동"},
			want:     partner.TMSE,
			wantRule: "category",
		},
		{
			name:     "work defect electrical sub-category",
			rec:      model.DefectRecord{TopCategory: "작업불량", SubCategory: "전장배선", MechPartner: "BAT", ElecPartner: "C&A"},
			want:     partner.CNA,
			wantRule: "category",
		},
		{
			name:     "work defect mechanical sub-category",
			rec:      model.DefectRecord{TopCategory: "작업불량", SubCategory: "기구", MechPartner: "BAT", ElecPartner: "C&A"},
			want:     partner.BAT,
			wantRule: "category",
		},
		{
			name:     "part defect mechanical sub-category",
			rec:      model.DefectRecord{TopCategory: "part-defect", SubCategory: "mechanical part", MechPartner: "(주)티엠에스이엔지"},
			want:     partner.TMSM,
			wantRule: "category",
		},
		{
			name: "work defect without marker",
			rec:  model.DefectRecord{TopCategory: "작업불량", SubCategory: "기타", MechPartner: "BAT", ElecPartner: "C&A"},
			want: Unassigned,
		},
		{
			name: "unknown top category",
			rec:  model.DefectRecord{TopCategory: "설계불량", MechPartner: "BAT"},
			want: Unassigned,
		},
		{
			name: "empty partner column",
			rec:  model.DefectRecord{TopCategory: "기구작업불량"},
			want: Unassigned,
		},
		{
			name:     "unknown partner name passes through",
			rec:      model.DefectRecord{TopCategory: "기구작업불량", MechPartner: "Unknown Vendor Co"},
			want:     "Unknown Vendor Co",
			wantRule: "category",
		},
	}

	a := newTestAttributor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := a.Explain(tt.rec)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRule, rule)
			assert.Equal(t, got, a.Attribute(tt.rec))
		})
	}
}

func TestTMSNoteOnMechanicalDefectIgnoresPartnerFields(t *testing.T) {
	a := newTestAttributor()
	names := []string{"", "주식회사 비에이티", "에프앤아이(FnI)", "(주)티엠에스이엔지", "피엔에스 시스템", "Unknown Vendor Co"}

	for _, mech := range names {
		for _, elec := range names {
			rec := model.DefectRecord{
				TopCategory:    "mechanical-defect",
				SubCategory:    "electrical",
				MechPartner:    mech,
				ElecPartner:    elec,
				TechnicianNote: "checked by TMS",
			}
			assert.Equal(t, partner.TMSM, a.Attribute(rec), "mech=%q elec=%q", mech, elec)
		}
	}
}

func TestRulesInIsolation(t *testing.T) {
	vocab := DefaultVocabulary()

	tms := NoteTMSRule(vocab)
	_, ok := tms.Resolve(model.DefectRecord{TopCategory: "기구작업불량", TechnicianNote: "BAT"})
	assert.False(t, ok, "note-tms needs the TMS token")

	code := NoteCodeRule(vocab)
	_, ok = code.Resolve(model.DefectRecord{TechnicianNote: "TMS(M)"})
	assert.False(t, ok, "note-code leaves TMS notes to note-tms")
	got, ok := code.Resolve(model.DefectRecord{TechnicianNote: "FNI"})
	require.True(t, ok)
	assert.Equal(t, partner.FNI, got)

	category := CategoryRule(partner.DefaultDirectory(), vocab)
	got, ok = category.Resolve(model.DefectRecord{TopCategory: "전장작업불량", ElecPartner: " P&S "})
	require.True(t, ok)
	assert.Equal(t, partner.PNS, got)
}

func TestCustomChain(t *testing.T) {
	always := Rule{Name: "always-bat", Resolve: func(model.DefectRecord) (partner.Code, bool) { return partner.BAT, true }}
	a := NewAttributorWithRules(always, CategoryRule(partner.DefaultDirectory(), DefaultVocabulary()))

	assert.Equal(t, []string{"always-bat", "category"}, a.Rules())
	assert.Equal(t, partner.BAT, a.Attribute(model.DefectRecord{TopCategory: "전장작업불량", ElecPartner: "C&A"}))
	assert.Equal(t, []string{"note-tms", "note-code", "category"}, newTestAttributor().Rules())
}

func TestCountDefects(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	records := []model.DefectRecord{
		{TopCategory: "기구작업불량", MechPartner: "주식회사 비에이티", SerialNumber: "SN1", ProductName: "GAIA", Description: "볼트 누락", Action: "재체결", OccurredOn: "2025-08-04"},
		{TopCategory: "기구작업불량", MechPartner: "BAT", OccurredOn: "bad"},
		{TopCategory: "전장작업불량", TechnicianNote: "TMS"},
		{TopCategory: "작업불량", SubCategory: "기타"},
		{TopCategory: "기구작업불량", MechPartner: "Unknown Vendor Co"},
	}

	tally := CountDefects(records, newTestAttributor(), logger)

	assert.Len(t, tally.Counts, 6)
	assert.Equal(t, 2, tally.Counts[partner.BAT])
	assert.Equal(t, 1, tally.Counts[partner.TMSE])
	assert.Equal(t, 0, tally.Counts[partner.FNI])
	assert.Equal(t, 1, tally.Unassigned)
	assert.Equal(t, 1, tally.Unknown)

	require.Len(t, tally.Details[partner.BAT], 2)
	assert.Equal(t, DefectDetail{ProductInfo: "SN1/GAIA", Defect: "볼트 누락", Action: "재체결", OccurDate: "2025-08-04"}, tally.Details[partner.BAT][0])
	assert.Equal(t, "", tally.Details[partner.BAT][1].OccurDate)
}
