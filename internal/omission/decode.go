package omission

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gst-factory/partner-kpi/internal/model"
)

// ErrNoResults is returned for snapshot files without a "results" key.
var ErrNoResults = errors.New("snapshot has no results key")

type snapshotFile struct {
	Results *[]model.SnapshotRecord `json:"results"`
}

// Decode parses one snapshot file and stamps every record with the file
// date and month taken from the file name.
func Decode(name string, data []byte) ([]model.SnapshotRecord, error) {
	date, err := FileDate(name)
	if err != nil {
		return nil, err
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if file.Results == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoResults)
	}

	records := *file.Results
	fileDate := date.Format("2006-01-02")
	groupMonth := date.Format("2006-01")
	for i := range records {
		records[i].FileDate = fileDate
		records[i].GroupMonth = groupMonth
	}
	return records, nil
}
