package config

import (
	"github.com/spf13/viper"

	"github.com/gst-factory/partner-kpi/internal/drive"
	"github.com/gst-factory/partner-kpi/internal/sheets"
)

// LoadSheetsConfig reads the sheets.* keys. The spreadsheet ID falls back to
// SPREADSHEET_ID.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	config.SpreadsheetID = stringOr(v, "sheets.spreadsheet_id", "SPREADSHEET_ID")
	if r := v.GetString("sheets.defect_range"); r != "" {
		config.DefectRange = r
	}
	if r := v.GetString("sheets.production_range"); r != "" {
		config.ProductionRange = r
	}
	if v.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = v.GetInt("sheets.retry_attempts")
	}
	if v.IsSet("sheets.retry_delay") {
		config.RetryDelay = v.GetDuration("sheets.retry_delay")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadDriveConfig reads the drive.* keys. The folder ID falls back to
// DRIVE_FOLDER_ID.
func LoadDriveConfig(v *viper.Viper) (*drive.Config, error) {
	config := drive.DefaultConfig()

	config.FolderID = stringOr(v, "drive.folder_id", "DRIVE_FOLDER_ID")
	if p := v.GetString("drive.file_prefix"); p != "" {
		config.FilePrefix = p
	}
	if v.IsSet("drive.page_size") {
		config.PageSize = v.GetInt64("drive.page_size")
	}
	if v.IsSet("drive.retry_attempts") {
		config.RetryAttempts = v.GetInt("drive.retry_attempts")
	}
	if v.IsSet("drive.retry_delay") {
		config.RetryDelay = v.GetDuration("drive.retry_delay")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
