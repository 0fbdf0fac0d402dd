package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/gst-factory/partner-kpi/internal/common"
	"github.com/gst-factory/partner-kpi/internal/googleauth"
	"github.com/gst-factory/partner-kpi/internal/model"
)

// Reader fetches sheet ranges as tables.
type Reader struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewReader creates a reader authenticated with creds.
func NewReader(ctx context.Context, config Config, creds googleauth.Credentials, logger *slog.Logger) (*Reader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient, err := googleauth.HTTPClient(ctx, creds, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Google: %w", err)
	}

	return NewReaderWithOptions(ctx, config, logger, option.WithHTTPClient(httpClient))
}

// NewReaderWithOptions creates a reader from raw client options.
func NewReaderWithOptions(ctx context.Context, config Config, logger *slog.Logger, opts ...option.ClientOption) (*Reader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &Reader{
		service: srv,
		logger:  logger,
		config:  config,
	}, nil
}

// DefectTable reads the defect history range.
func (r *Reader) DefectTable(ctx context.Context) (model.Table, error) {
	return r.Table(ctx, r.config.DefectRange)
}

// ProductionTable reads the production log range.
func (r *Reader) ProductionTable(ctx context.Context) (model.Table, error) {
	return r.Table(ctx, r.config.ProductionRange)
}

// Table reads a range whose first row is the header.
func (r *Reader) Table(ctx context.Context, readRange string) (model.Table, error) {
	var resp *sheets.ValueRange
	err := common.WithRetry(ctx, func() error {
		var err error
		resp, err = r.service.Spreadsheets.Values.Get(r.config.SpreadsheetID, readRange).
			Context(ctx).
			Do()
		return err
	}, common.RetryOptions{
		Operation:    "sheets " + readRange,
		MaxAttempts:  r.config.RetryAttempts,
		InitialDelay: r.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	})
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to read range %s: %w", readRange, err)
	}

	if len(resp.Values) == 0 {
		return model.Table{}, fmt.Errorf("range %s: %w", readRange, common.ErrNoData)
	}

	table := model.NewTable(toStrings(resp.Values))
	r.logger.Debug("Read sheet range",
		"range", readRange,
		"columns", len(table.Header),
		"rows", len(table.Rows))

	return table, nil
}

func toStrings(values [][]any) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		out[i] = cells
	}
	return out
}
