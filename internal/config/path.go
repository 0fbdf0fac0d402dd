// Package config loads the report configuration from viper, falling back to
// the environment variables used by the scheduled jobs.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}

// stringOr returns the viper value of key, else the first non-empty
// environment variable of envs.
func stringOr(v *viper.Viper, key string, envs ...string) string {
	if s := v.GetString(key); s != "" {
		return s
	}
	return firstEnv(envs...)
}

func firstEnv(envs ...string) string {
	for _, env := range envs {
		if s := os.Getenv(env); s != "" {
			return s
		}
	}
	return ""
}
