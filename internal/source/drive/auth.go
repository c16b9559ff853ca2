package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/clinicops/migrator/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// AuthOption builds the client option for a read-only Drive session from
// the operator's OAuth credentials. A saved token is reused; otherwise the
// operator completes the consent flow once and the token is written for
// the next run.
func AuthOption(ctx context.Context) (option.ClientOption, error) {
	credentials, err := os.ReadFile(config.DriveCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", config.DriveCredentialsFile, err)
	}

	oauthConfig, err := google.ConfigFromJSON(credentials,
		"https://www.googleapis.com/auth/drive.readonly",
		"https://www.googleapis.com/auth/documents.readonly")
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	token, err := tokenFromFile(config.DriveTokenFile)
	if err != nil {
		token, err = tokenFromPrompt(ctx, oauthConfig)
		if err != nil {
			return nil, err
		}
		saveToken(config.DriveTokenFile, token)
	}

	return option.WithTokenSource(oauthConfig.TokenSource(ctx, token)), nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	token := &oauth2.Token{}
	return token, json.NewDecoder(f).Decode(token)
}

func tokenFromPrompt(ctx context.Context, oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%v\n> ", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("reading authorization code: %w", err)
	}
	return oauthConfig.Exchange(ctx, code)
}

func saveToken(path string, token *oauth2.Token) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_ = json.NewEncoder(f).Encode(token)
}
