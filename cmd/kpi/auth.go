package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	gdrive "google.golang.org/api/drive/v3"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/gst-factory/partner-kpi/internal/cli"
	"github.com/gst-factory/partner-kpi/internal/common"
	"github.com/gst-factory/partner-kpi/internal/config"
	"github.com/gst-factory/partner-kpi/internal/googleauth"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google",
		Long: `Authenticate with Google using OAuth2.

This command will:
1. Print the Google consent URL to open in your browser
2. Wait for the local callback
3. Save the token to google.token_file

Service account users do not need this command.`,
		RunE: runAuth,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")

	return cmd
}

func runAuth(cmd *cobra.Command, _ []string) error {
	oauthConfig := config.LoadOAuth2Config(viper.GetViper(),
		gsheets.SpreadsheetsReadonlyScope,
		gdrive.DriveReadonlyScope)

	if id, _ := cmd.Flags().GetString("client-id"); id != "" {
		oauthConfig.ClientID = id
	}
	if secret, _ := cmd.Flags().GetString("client-secret"); secret != "" {
		oauthConfig.ClientSecret = secret
	}

	if oauthConfig.ClientID == "" || oauthConfig.ClientSecret == "" {
		return common.NewUserError(
			"OAuth2 credentials not found. Set google.client_id and google.client_secret in the config or use --client-id and --client-secret",
			common.ErrMissingConfig)
	}

	token, err := googleauth.GetOrCreateToken(cmd.Context(), oauthConfig)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess("Authenticated with Google"))
	fmt.Fprintln(out, cli.FormatInfo("Token stored in "+oauthConfig.TokenFile))
	if token.RefreshToken == "" {
		fmt.Fprintln(out, cli.FormatWarning("No refresh token was returned; revoke the app's access and run `kpi auth` again"))
	}
	return nil
}
