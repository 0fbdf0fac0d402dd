package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gst-factory/partner-kpi/internal/common"
)

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha"`
	Branch  string `json:"branch"`
}

type fakeRepo struct {
	sha      string // existing blob, "" when the file does not exist
	putFails int    // number of PUTs answered with 500
	gets     int
	puts     []putRequest
}

func (f *fakeRepo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		f.gets++
		if f.sha == "" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Not Found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"type":"file","name":"partner_kpi.html","path":"public/partner_kpi.html","sha":"`+f.sha+`"}`)
	case http.MethodPut:
		if f.putFails > 0 {
			f.putFails--
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"message":"Server Error"}`)
			return
		}
		var req putRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.puts = append(f.puts, req)
		if req.SHA == "" {
			w.WriteHeader(http.StatusCreated)
		}
		_, _ = io.WriteString(w, `{"content":{"sha":"new"},"commit":{"sha":"c1"}}`)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func testPublisher(t *testing.T, fake http.Handler) *GitHub {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client := github.NewClient(server.Client())
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	target := Target{Owner: "acme", Repo: "dash", Path: "public/partner_kpi.html", Token: "t"}
	g := NewGitHubWithClient(client, target, slog.New(slog.NewTextHandler(io.Discard, nil)))
	g.retry.InitialDelay = time.Millisecond
	g.retry.MaxDelay = time.Millisecond
	return g
}

func TestTargetValidate(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		ok     bool
	}{
		{name: "complete", target: Target{Owner: "o", Repo: "r", Path: "p.html", Token: "t"}, ok: true},
		{name: "no repo", target: Target{Owner: "o", Path: "p.html", Token: "t"}},
		{name: "no path", target: Target{Owner: "o", Repo: "r", Token: "t"}},
		{name: "no token", target: Target{Owner: "o", Repo: "r", Path: "p.html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, common.ErrMissingConfig)
			}
		})
	}
}

func TestRawURL(t *testing.T) {
	targets := DefaultTargets()
	require.Len(t, targets, 2)
	assert.Equal(t, "https://raw.githubusercontent.com/isolhsolfafa/GST_Factory_Dashboard/main/partner_kpi.html", targets[0].RawURL())
	assert.Equal(t, "https://raw.githubusercontent.com/isolhsolfafa/gst-factory/main/public/partner_kpi.html", targets[1].RawURL())

	noBranch := Target{Owner: "o", Repo: "r", Path: "x.html"}
	assert.Equal(t, "https://raw.githubusercontent.com/o/r/main/x.html", noBranch.RawURL())
}

func TestIframeTag(t *testing.T) {
	assert.Equal(t,
		`<iframe src="https://example.com/a.html" width="100%" height="800" frameborder="0"></iframe>`,
		IframeTag("https://example.com/a.html"))
}

func TestPublishCreatesMissingFile(t *testing.T) {
	fake := &fakeRepo{}
	g := testPublisher(t, fake)

	url, err := g.Publish(context.Background(), []byte("<html>08</html>"), "Update partner KPI dashboard (2025-08)")
	require.NoError(t, err)
	assert.Equal(t, "https://raw.githubusercontent.com/acme/dash/main/public/partner_kpi.html", url)
	assert.Equal(t, "acme/dash", g.Name())

	require.Len(t, fake.puts, 1)
	put := fake.puts[0]
	assert.Empty(t, put.SHA)
	assert.Equal(t, "main", put.Branch)
	assert.Equal(t, "Update partner KPI dashboard (2025-08)", put.Message)

	body, err := base64.StdEncoding.DecodeString(put.Content)
	require.NoError(t, err)
	assert.Equal(t, "<html>08</html>", string(body))
}

func TestPublishUpdatesExistingFile(t *testing.T) {
	fake := &fakeRepo{sha: "abc123"}
	g := testPublisher(t, fake)
	g.target.Branch = "gh-pages"

	url, err := g.Publish(context.Background(), []byte("<html/>"), "update")
	require.NoError(t, err)
	assert.Equal(t, "https://raw.githubusercontent.com/acme/dash/gh-pages/public/partner_kpi.html", url)

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "abc123", fake.puts[0].SHA)
	assert.Equal(t, "gh-pages", fake.puts[0].Branch)
	assert.Equal(t, "update", fake.puts[0].Message)
}

func TestPublishRetriesServerErrors(t *testing.T) {
	fake := &fakeRepo{sha: "abc123", putFails: 1}
	g := testPublisher(t, fake)

	_, err := g.Publish(context.Background(), []byte("<html/>"), "update")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.gets)
	assert.Len(t, fake.puts, 1)
}

func TestPublishDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	g := testPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Bad credentials"}`)
	}))

	_, err := g.Publish(context.Background(), []byte("<html/>"), "update")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme/dash")
	assert.Equal(t, 1, calls)
}
