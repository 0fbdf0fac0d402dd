// Package sheets reads the defect history and production log from Google
// Sheets.
package sheets

import (
	"fmt"
	"time"

	"github.com/gst-factory/partner-kpi/internal/common"
)

// Config holds the configuration for the Google Sheets reader.
type Config struct {
	SpreadsheetID   string
	DefectRange     string
	ProductionRange string
	RetryAttempts   int
	RetryDelay      time.Duration
}

// DefaultConfig returns a Config with the ranges of the quality workbook.
func DefaultConfig() Config {
	return Config{
		DefectRange:     "불량이력!A1:AJ1000",
		ProductionRange: "공정검사이력!A1:AJ1000",
		RetryAttempts:   3,
		RetryDelay:      time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("%w: spreadsheet ID is required", common.ErrMissingConfig)
	}

	if c.DefectRange == "" || c.ProductionRange == "" {
		return fmt.Errorf("%w: defect and production ranges are required", common.ErrMissingConfig)
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}

	return nil
}
