// Package googleauth builds authenticated HTTP clients for the Google APIs
// the report reads from.
package googleauth

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/gst-factory/partner-kpi/internal/common"
)

// Credentials selects how to authenticate. Exactly one method may be set:
// a service account key (as a file or as raw JSON, the form used when the
// key is injected through GOOGLE_SERVICE_KEY) or an OAuth2 client with a
// refresh token, possibly stored in TokenFile.
type Credentials struct {
	ServiceAccountPath string
	ServiceAccountJSON string
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	TokenFile          string
}

// Method names the configured authentication method.
func (c Credentials) Method() string {
	switch {
	case c.ServiceAccountJSON != "":
		return "service-account-json"
	case c.ServiceAccountPath != "":
		return "service-account-file"
	case c.ClientID != "":
		return "oauth2"
	default:
		return "none"
	}
}

func (c Credentials) hasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && (c.RefreshToken != "" || c.TokenFile != "")
}

// Validate checks that exactly one authentication method is configured.
func (c Credentials) Validate() error {
	methods := 0
	if c.ServiceAccountJSON != "" {
		methods++
	}
	if c.ServiceAccountPath != "" {
		methods++
	}
	if c.hasOAuth() {
		methods++
	}

	if methods == 0 {
		return fmt.Errorf("%w: no Google authentication method configured", common.ErrMissingConfig)
	}
	if methods > 1 {
		return fmt.Errorf("%w: multiple Google authentication methods configured; use one of service account key, key JSON or OAuth2", common.ErrInvalidConfig)
	}
	return nil
}

// HTTPClient returns a client that authorizes requests for the given scopes.
func HTTPClient(ctx context.Context, creds Credentials, scopes ...string) (*http.Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	tokenSource, err := tokenSource(ctx, creds, scopes)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, tokenSource), nil
}

func tokenSource(ctx context.Context, creds Credentials, scopes []string) (oauth2.TokenSource, error) {
	if creds.ServiceAccountJSON != "" || creds.ServiceAccountPath != "" {
		jsonKey := []byte(creds.ServiceAccountJSON)
		if len(jsonKey) == 0 {
			data, err := os.ReadFile(creds.ServiceAccountPath) // #nosec G304
			if err != nil {
				return nil, fmt.Errorf("unable to read service account key file: %w", err)
			}
			jsonKey = data
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, scopes...)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		return jwtConfig.TokenSource(ctx), nil
	}

	client := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       scopes,
	}

	token := &oauth2.Token{
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
	}
	if creds.RefreshToken == "" {
		stored, err := LoadToken(creds.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("unable to load OAuth2 token (run `kpi auth` first): %w", err)
		}
		token = stored
	}

	return client.TokenSource(ctx, token), nil
}
