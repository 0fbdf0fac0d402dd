package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/gst-factory/partner-kpi/internal/googleauth"
)

// DefaultTokenFile is where `kpi auth` stores the OAuth2 token.
const DefaultTokenFile = "~/.config/partner-kpi/token.json"

// LoadGoogleCredentials reads the google.* keys. A service account key may
// also come from GOOGLE_SERVICE_KEY (raw JSON) or
// GOOGLE_APPLICATION_CREDENTIALS (file path). Raw JSON wins over a file
// when both are set through the environment.
func LoadGoogleCredentials(v *viper.Viper) googleauth.Credentials {
	creds := googleauth.Credentials{
		ServiceAccountJSON: v.GetString("google.service_account_json"),
		ServiceAccountPath: ExpandPath(v.GetString("google.service_account_path")),
		ClientID:           v.GetString("google.client_id"),
		ClientSecret:       v.GetString("google.client_secret"),
		RefreshToken:       v.GetString("google.refresh_token"),
	}

	if creds.ClientID != "" {
		creds.TokenFile = ExpandPath(v.GetString("google.token_file"))
		if creds.TokenFile == "" {
			creds.TokenFile = ExpandPath(DefaultTokenFile)
		}
		return creds
	}

	if creds.ServiceAccountJSON == "" && creds.ServiceAccountPath == "" {
		if key := firstEnv("GOOGLE_SERVICE_KEY"); key != "" {
			creds.ServiceAccountJSON = key
		} else {
			creds.ServiceAccountPath = ExpandPath(firstEnv("GOOGLE_APPLICATION_CREDENTIALS"))
		}
	}
	return creds
}

// LoadOAuth2Config builds the interactive OAuth2 configuration for `kpi auth`.
func LoadOAuth2Config(v *viper.Viper, scopes ...string) googleauth.OAuth2Config {
	tokenFile := v.GetString("google.token_file")
	if tokenFile == "" {
		tokenFile = DefaultTokenFile
	}

	timeout := v.GetDuration("google.auth_timeout")
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return googleauth.OAuth2Config{
		ClientID:     stringOr(v, "google.client_id", "GOOGLE_CLIENT_ID"),
		ClientSecret: stringOr(v, "google.client_secret", "GOOGLE_CLIENT_SECRET"),
		TokenFile:    ExpandPath(tokenFile),
		ListenAddr:   v.GetString("google.listen_addr"),
		Scopes:       scopes,
		Timeout:      timeout,
	}
}
