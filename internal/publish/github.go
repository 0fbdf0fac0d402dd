// Package publish uploads the rendered dashboard to GitHub repositories.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-github/v66/github"

	"github.com/gst-factory/partner-kpi/internal/common"
)

// RawBaseURL serves raw repository files.
const RawBaseURL = "https://raw.githubusercontent.com"

// Target is one repository file the dashboard is written to.
type Target struct {
	Owner  string `mapstructure:"owner"`
	Repo   string `mapstructure:"repo"`
	Branch string `mapstructure:"branch"`
	Path   string `mapstructure:"path"`
	Token  string `mapstructure:"token"`
}

// DefaultTargets returns the dashboard repositories.
func DefaultTargets() []Target {
	return []Target{
		{Owner: "isolhsolfafa", Repo: "GST_Factory_Dashboard", Branch: "main", Path: "partner_kpi.html"},
		{Owner: "isolhsolfafa", Repo: "gst-factory", Branch: "main", Path: "public/partner_kpi.html"},
	}
}

// Validate checks if the target is complete.
func (t *Target) Validate() error {
	if t.Owner == "" || t.Repo == "" {
		return fmt.Errorf("%w: repository owner and name are required", common.ErrMissingConfig)
	}
	if t.Path == "" {
		return fmt.Errorf("%w: file path is required for %s/%s", common.ErrMissingConfig, t.Owner, t.Repo)
	}
	if t.Token == "" {
		return fmt.Errorf("%w: GitHub token is required for %s/%s", common.ErrMissingConfig, t.Owner, t.Repo)
	}
	return nil
}

// RawURL returns the URL the file is served from once pushed.
func (t *Target) RawURL() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", RawBaseURL, t.Owner, t.Repo, t.branch(), t.Path)
}

func (t *Target) branch() string {
	if t.Branch == "" {
		return "main"
	}
	return t.Branch
}

// IframeTag returns an embed snippet for the published page.
func IframeTag(url string) string {
	return fmt.Sprintf(`<iframe src="%s" width="100%%" height="800" frameborder="0"></iframe>`, url)
}

// GitHub publishes through the repository contents API.
type GitHub struct {
	client *github.Client
	logger *slog.Logger
	target Target
	retry  common.RetryOptions
}

// NewGitHub creates a publisher for target.
func NewGitHub(target Target, logger *slog.Logger) (*GitHub, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	return NewGitHubWithClient(github.NewClient(nil).WithAuthToken(target.Token), target, logger), nil
}

// NewGitHubWithClient creates a publisher using an existing client.
func NewGitHubWithClient(client *github.Client, target Target, logger *slog.Logger) *GitHub {
	return &GitHub{
		client: client,
		logger: logger,
		target: target,
		retry: common.RetryOptions{
			Operation:    "github publish " + target.Path,
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// Name implements kpi.Publisher.
func (g *GitHub) Name() string {
	return g.target.Owner + "/" + g.target.Repo
}

// Publish implements kpi.Publisher. The file is created when it does not
// exist yet and updated in place otherwise.
func (g *GitHub) Publish(ctx context.Context, content []byte, message string) (string, error) {
	t := g.target

	err := common.WithRetry(ctx, func() error {
		sha, err := g.currentSHA(ctx)
		if err != nil {
			return err
		}

		opts := &github.RepositoryContentFileOptions{
			Message: github.String(message),
			Content: content,
			Branch:  github.String(t.branch()),
		}
		if sha == "" {
			g.logger.Debug("Creating file", "target", g.Name(), "path", t.Path)
			_, _, err = g.client.Repositories.CreateFile(ctx, t.Owner, t.Repo, t.Path, opts)
		} else {
			opts.SHA = github.String(sha)
			g.logger.Debug("Updating file", "target", g.Name(), "path", t.Path, "sha", sha)
			_, _, err = g.client.Repositories.UpdateFile(ctx, t.Owner, t.Repo, t.Path, opts)
		}
		return classify(err)
	}, g.retry)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to %s: %w", t.Path, g.Name(), err)
	}

	return t.RawURL(), nil
}

// currentSHA returns the blob SHA of the existing file, or "" if there is none.
func (g *GitHub) currentSHA(ctx context.Context) (string, error) {
	t := g.target
	file, _, resp, err := g.client.Repositories.GetContents(ctx, t.Owner, t.Repo, t.Path,
		&github.RepositoryContentGetOptions{Ref: t.branch()})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", classify(err)
	}
	if file == nil {
		return "", fmt.Errorf("%s is a directory", t.Path)
	}
	return file.GetSHA(), nil
}

// classify marks throttling and server errors as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		// 409 is returned when the branch moved between read and write.
		code := respErr.Response.StatusCode
		return &common.RetryableError{Err: err, Retryable: code >= http.StatusInternalServerError || code == http.StatusConflict}
	}
	return err
}
