package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/gst-factory/partner-kpi/internal/common"
	"github.com/gst-factory/partner-kpi/internal/model"
	"github.com/gst-factory/partner-kpi/internal/omission"
)

var august = model.Period{Year: 2025, Month: time.August}

type fakeDrive struct {
	files    map[string]string // id -> name
	contents map[string]string // id -> body
	queries  []string
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Query().Get("alt") == "media" {
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		body, ok := f.contents[id]
		if !ok {
			http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, body)
		return
	}

	f.queries = append(f.queries, r.URL.Query().Get("q"))
	type file struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		ModifiedTime string `json:"modifiedTime"`
	}
	var list []file
	for id, name := range f.files {
		list = append(list, file{ID: id, Name: name, ModifiedTime: "2025-08-31T10:00:00Z"})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"files": list})
}

func testSource(t *testing.T, fake *fakeDrive) *Source {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.FolderID = "folder-1"
	config.RetryDelay = time.Millisecond

	src, err := NewSourceWithOptions(context.Background(), config, omission.DefaultSelectionPolicy(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return src
}

func TestConfigValidate(t *testing.T) {
	c := DefaultConfig()
	assert.ErrorIs(t, c.Validate(), common.ErrMissingConfig)

	c.FolderID = "folder"
	assert.NoError(t, c.Validate())

	c.PageSize = 0
	assert.ErrorIs(t, c.Validate(), common.ErrInvalidConfig)
}

func TestQuery(t *testing.T) {
	src := testSource(t, &fakeDrive{})
	assert.Equal(t,
		"'folder-1' in parents and name contains 'nan_ot_results_202508' and trashed = false",
		src.Query(august))
}

func TestSnapshots(t *testing.T) {
	fake := &fakeDrive{
		files: map[string]string{
			"a": "nan_ot_results_20250817_090000_일_1회차.json",
			"b": "nan_ot_results_20250815_090000_금_1회차.json", // week 33 Friday, not selected
			"c": "nan_ot_results_20250808_090000_금_1회차.json",
			"d": "nan_ot_results_20250824_090000_일_1회차.json", // broken
			"e": "nan_ot_results_20250831_090000_일_1회차.json", // missing content
		},
		contents: map[string]string{
			"a": `{"results":[{"mech_partner":"BAT","elec_partner":"C&A","ratios":{"mech_nan_ratio":1.5,"elec_nan_ratio":0},"total_tasks":20}]}`,
			"b": `{"results":[{"mech_partner":"FNI"}]}`,
			"c": `{"results":[{"mech_partner":"TMS","elec_partner":"P&S","ratios":{"mech_nan_ratio":0,"elec_nan_ratio":2},"total_tasks":10},{"mech_partner":"BAT","elec_partner":"P&S","total_tasks":5}]}`,
			"d": `{"results":`,
		},
	}
	src := testSource(t, fake)

	var progress bytes.Buffer
	src.ShowProgress(&progress)

	records, err := src.Snapshots(context.Background(), august)
	require.NoError(t, err)
	require.Len(t, records, 3)

	dates := map[string]int{}
	for _, rec := range records {
		dates[rec.FileDate]++
		assert.Equal(t, "2025-08", rec.GroupMonth)
	}
	assert.Equal(t, map[string]int{"2025-08-17": 1, "2025-08-08": 2}, dates)

	require.Len(t, fake.queries, 1)
	assert.Contains(t, fake.queries[0], "nan_ot_results_202508")
	assert.NotEmpty(t, progress.String())
}

func TestSnapshotsNothingSelected(t *testing.T) {
	src := testSource(t, &fakeDrive{files: map[string]string{"x": "nan_ot_results_20250815_090000_금_1회차.json"}})

	records, err := src.Snapshots(context.Background(), august)
	require.NoError(t, err)
	assert.Empty(t, records)
}
