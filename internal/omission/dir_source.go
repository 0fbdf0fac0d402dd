package omission

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/gst-factory/partner-kpi/internal/model"
)

// DirSource reads snapshot files from a local directory, typically a synced
// copy of the Drive folder.
type DirSource struct {
	logger *slog.Logger
	dir    string
	policy SelectionPolicy
}

// NewDirSource creates a source reading from dir.
func NewDirSource(dir string, policy SelectionPolicy, logger *slog.Logger) *DirSource {
	return &DirSource{dir: dir, policy: policy, logger: logger}
}

// Snapshots loads the eligible snapshot files of the period. Files that fail
// to parse are skipped with a warning.
func (s *DirSource) Snapshots(ctx context.Context, period model.Period) ([]model.SnapshotRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot directory: %w", err)
	}

	var files []SnapshotFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		files = append(files, SnapshotFile{ID: filepath.Join(s.dir, e.Name()), Name: e.Name()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	selected := s.policy.Select(files, period)
	if len(selected) == 0 {
		s.logger.Warn("No eligible snapshot files", "dir", s.dir, "period", period.String(), "files", len(files))
		return nil, nil
	}

	var records []model.SnapshotRecord
	for _, f := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(f.ID) // #nosec G304
		if err != nil {
			s.logger.Warn("Failed to read snapshot file", "file", f.Name, "error", err)
			continue
		}
		batch, err := Decode(f.Name, data)
		if err != nil {
			s.logger.Warn("Skipping snapshot file", "file", f.Name, "error", err)
			continue
		}
		records = append(records, batch...)
	}

	s.logger.Info("Loaded snapshot files", "files", len(selected), "records", len(records))
	return records, nil
}
