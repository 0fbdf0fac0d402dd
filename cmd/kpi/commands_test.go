package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gst-factory/partner-kpi/internal/common"
	"github.com/gst-factory/partner-kpi/internal/model"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestResolvePeriods(t *testing.T) {
	now := time.Date(2025, time.September, 3, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		args    []string
		config  map[string]any
		want    []string
		wantErr bool
	}{
		{name: "current month by default", want: []string{"2025-09"}},
		{name: "single month", args: []string{"--month", "2025-08"}, want: []string{"2025-08"}},
		{name: "month list", args: []string{"--months", "2025-06,2025-07", "--months", "2025-08"}, want: []string{"2025-06", "2025-07", "2025-08"}},
		{name: "from config", config: map[string]any{"report.month": "2025-05"}, want: []string{"2025-05"}},
		{name: "flag beats config", args: []string{"-m", "2025-04"}, config: map[string]any{"report.month": "2025-05"}, want: []string{"2025-04"}},
		{name: "bad month", args: []string{"--month", "08/2025"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			for k, v := range tt.config {
				viper.Set(k, v)
			}

			cmd := gradesCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))

			periods, err := resolvePeriods(cmd, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			got := make([]string, len(periods))
			for i, p := range periods {
				got[i] = p.String()
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReportPath(t *testing.T) {
	aug := model.Period{Year: 2025, Month: time.August}
	assert.Equal(t, "output/partner_kpi.html", reportPath("output/partner_kpi.html", aug, false))
	assert.Equal(t, "output/partner_kpi_2025-08.html", reportPath("output/partner_kpi.html", aug, true))
	assert.Equal(t, "2025-06,2025-08", monthList([]model.Period{{Year: 2025, Month: time.June}, aug}))
}

func writeSnapshot(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestExtractFromDirectory(t *testing.T) {
	resetViper(t)

	src := t.TempDir()
	out := t.TempDir()
	writeSnapshot(t, src, "nan_ot_results_20250817_090000_일_1회차.json",
		`{"results":[{"mech_partner":"BAT","elec_partner":"C&A","ratios":{"mech_nan_ratio":10,"elec_nan_ratio":0},"total_tasks":20,"order_no":"O-1"}]}`)
	writeSnapshot(t, src, "nan_ot_results_20250815_090000_금_1회차.json",
		`{"results":[{"mech_partner":"FNI","total_tasks":5}]}`)

	var stdout bytes.Buffer
	cmd := extractCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--months", "2025-08,2025-09", "--snapshots-dir", src, "--out", out})

	err := cmd.ExecuteContext(context.Background())
	// September has no snapshots; August is still written.
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoData)
	assert.Contains(t, err.Error(), "2025-09")

	data, err := os.ReadFile(filepath.Join(out, "nan_data_2025_08_improved.json"))
	require.NoError(t, err)

	var artifact struct {
		Period       string `json:"period"`
		TotalRecords int    `json:"total_records"`
	}
	require.NoError(t, json.Unmarshal(data, &artifact))
	assert.Equal(t, "2025-08", artifact.Period)
	assert.Equal(t, 1, artifact.TotalRecords)
	assert.Contains(t, stdout.String(), "2025-08")

	_, err = os.Stat(filepath.Join(out, "nan_data_2025_09_improved.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "kpi version dev\n", stdout.String())
}
