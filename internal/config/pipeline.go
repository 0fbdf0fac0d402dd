package config

import (
	"github.com/spf13/viper"

	"github.com/gst-factory/partner-kpi/internal/kpi"
	"github.com/gst-factory/partner-kpi/internal/partner"
)

// Report output defaults.
const (
	DefaultReportPath = "output/partner_kpi.html"
	DefaultDataDir    = "data"
)

// LoadPipelineConfig reads the column and selection overrides on top of
// kpi.DefaultConfig.
func LoadPipelineConfig(v *viper.Viper) kpi.Config {
	config := kpi.DefaultConfig()

	if aliases := v.GetStringSlice("sheets.defect_date_columns"); len(aliases) > 0 {
		config.DefectColumns.DateAliases = aliases
	}
	if aliases := v.GetStringSlice("sheets.production_date_columns"); len(aliases) > 0 {
		config.ProductionColumns.DateAliases = aliases
	}
	if v.IsSet("sheets.exclude_remark") {
		config.DefectColumns.ExcludeRemark = v.GetString("sheets.exclude_remark")
	}
	if v.IsSet("omission.pivot_week") {
		config.Policy.PivotWeek = v.GetInt("omission.pivot_week")
	}
	return config
}

// LoadPartnerDirectory loads partners.aliases_file on top of the built-in
// aliases.
func LoadPartnerDirectory(v *viper.Viper) (*partner.Directory, error) {
	return partner.LoadDirectory(ExpandPath(v.GetString("partners.aliases_file")))
}

// ReportPath returns report.output or the default.
func ReportPath(v *viper.Viper) string {
	if p := v.GetString("report.output"); p != "" {
		return ExpandPath(p)
	}
	return DefaultReportPath
}

// DataDir returns report.data_dir or the default.
func DataDir(v *viper.Viper) string {
	if p := v.GetString("report.data_dir"); p != "" {
		return ExpandPath(p)
	}
	return DefaultDataDir
}
