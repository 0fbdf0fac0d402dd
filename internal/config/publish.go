package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/gst-factory/partner-kpi/internal/publish"
)

type targetEntry struct {
	publish.Target `mapstructure:",squash"`
	TokenEnv       string `mapstructure:"token_env"`
}

// LoadPublishTargets reads publish.targets, defaulting to the dashboard
// repositories. A target without a token uses the variable named by its
// token_env, then GITHUB_TOKEN.
func LoadPublishTargets(v *viper.Viper) ([]publish.Target, error) {
	var entries []targetEntry
	if v.IsSet("publish.targets") {
		if err := v.UnmarshalKey("publish.targets", &entries); err != nil {
			return nil, fmt.Errorf("failed to parse publish targets: %w", err)
		}
	} else {
		for _, t := range publish.DefaultTargets() {
			entries = append(entries, targetEntry{Target: t})
		}
	}

	targets := make([]publish.Target, 0, len(entries))
	for _, e := range entries {
		t := e.Target
		if t.Token == "" && e.TokenEnv != "" {
			t.Token = firstEnv(e.TokenEnv)
		}
		if t.Token == "" {
			t.Token = stringOr(v, "publish.token", "GITHUB_TOKEN")
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}
