// Package drive loads omission snapshot files from a Google Drive folder.
package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/gst-factory/partner-kpi/internal/common"
	"github.com/gst-factory/partner-kpi/internal/googleauth"
	"github.com/gst-factory/partner-kpi/internal/model"
	"github.com/gst-factory/partner-kpi/internal/omission"
)

// Config holds the Drive folder settings.
type Config struct {
	FolderID      string
	FilePrefix    string
	PageSize      int64
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns the defaults for the snapshot folder.
func DefaultConfig() Config {
	return Config{
		FilePrefix:    omission.FilePrefix,
		PageSize:      100,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.FolderID == "" {
		return fmt.Errorf("%w: drive folder ID is required", common.ErrMissingConfig)
	}
	if c.FilePrefix == "" {
		return fmt.Errorf("%w: file prefix is required", common.ErrMissingConfig)
	}
	if c.PageSize <= 0 || c.PageSize > 1000 {
		return fmt.Errorf("%w: page size must be between 1 and 1000", common.ErrInvalidConfig)
	}
	if c.RetryAttempts < 0 || c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry settings cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}

// Source implements the snapshot source on top of the Drive v3 API.
type Source struct {
	service  *drive.Service
	logger   *slog.Logger
	progress io.Writer
	policy   omission.SelectionPolicy
	config   Config
}

// NewSource creates a source authenticated with creds.
func NewSource(ctx context.Context, config Config, policy omission.SelectionPolicy, creds googleauth.Credentials, logger *slog.Logger) (*Source, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient, err := googleauth.HTTPClient(ctx, creds, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Google: %w", err)
	}

	return NewSourceWithOptions(ctx, config, policy, logger, option.WithHTTPClient(httpClient))
}

// NewSourceWithOptions creates a source from raw client options.
func NewSourceWithOptions(ctx context.Context, config Config, policy omission.SelectionPolicy, logger *slog.Logger, opts ...option.ClientOption) (*Source, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &Source{
		service: srv,
		logger:  logger,
		policy:  policy,
		config:  config,
	}, nil
}

// ShowProgress draws a download progress bar on w.
func (s *Source) ShowProgress(w io.Writer) {
	s.progress = w
}

// Query returns the Drive search query for the files of a period.
func (s *Source) Query(period model.Period) string {
	return fmt.Sprintf("'%s' in parents and name contains '%s%s' and trashed = false",
		s.config.FolderID, s.config.FilePrefix, period.Compact())
}

// Snapshots lists the period's snapshot files, keeps those the selection
// policy accepts and downloads them. Files that fail to download or parse
// are skipped with a warning.
func (s *Source) Snapshots(ctx context.Context, period model.Period) ([]model.SnapshotRecord, error) {
	files, err := s.list(ctx, period)
	if err != nil {
		return nil, err
	}

	selected := s.policy.Select(files, period)
	s.logger.Info("Found snapshot files",
		"period", period.String(),
		"listed", len(files),
		"selected", len(selected))
	if len(selected) == 0 {
		return nil, nil
	}

	bar := s.newProgressBar(len(selected))

	var records []model.SnapshotRecord
	for _, f := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := s.download(ctx, f)
		if err != nil {
			s.logger.Warn("Failed to download snapshot file", "file", f.Name, "error", err)
		} else if batch, err := omission.Decode(f.Name, data); err != nil {
			s.logger.Warn("Skipping snapshot file", "file", f.Name, "error", err)
		} else {
			records = append(records, batch...)
			s.logger.Debug("Loaded snapshot file", "file", f.Name, "records", len(batch))
		}

		if bar != nil {
			if err := bar.Add(1); err != nil {
				s.logger.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	return records, nil
}

func (s *Source) retryOptions() common.RetryOptions {
	return common.RetryOptions{
		Operation:    "drive",
		MaxAttempts:  s.config.RetryAttempts,
		InitialDelay: s.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

func (s *Source) list(ctx context.Context, period model.Period) ([]omission.SnapshotFile, error) {
	var files []omission.SnapshotFile
	err := common.WithRetry(ctx, func() error {
		files = files[:0]
		return s.service.Files.List().
			Q(s.Query(period)).
			OrderBy("modifiedTime desc").
			Fields("nextPageToken, files(id, name, modifiedTime)").
			PageSize(s.config.PageSize).
			Pages(ctx, func(page *drive.FileList) error {
				for _, f := range page.Files {
					modified, _ := time.Parse(time.RFC3339, f.ModifiedTime)
					files = append(files, omission.SnapshotFile{ID: f.Id, Name: f.Name, Modified: modified})
				}
				return nil
			})
	}, s.retryOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot files: %w", err)
	}
	return files, nil
}

func (s *Source) download(ctx context.Context, f omission.SnapshotFile) ([]byte, error) {
	var data []byte
	err := common.WithRetry(ctx, func() error {
		resp, err := s.service.Files.Get(f.ID).Context(ctx).Download()
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		data, err = io.ReadAll(resp.Body)
		return err
	}, s.retryOptions())
	return data, err
}

func (s *Source) newProgressBar(total int) *progressbar.ProgressBar {
	if s.progress == nil {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Downloading snapshots...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(s.progress)
		}),
	)
}
