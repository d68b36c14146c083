package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"flightwatch-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// BackendOAuth obtains access tokens for the flight backend with the client
// credentials grant. Tokens are cached until shortly before expiry.
type BackendOAuth struct {
	config *clientcredentials.Config
	logger logger.Logger
}

// NewBackendOAuth creates a new backend OAuth handler
func NewBackendOAuth(clientID, clientSecret, tokenURL string, scopes []string, logger logger.Logger) *BackendOAuth {
	return &BackendOAuth{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		logger: logger,
	}
}

// Configured reports whether credentials were supplied.
func (o *BackendOAuth) Configured() bool {
	return o.config.ClientID != "" && o.config.TokenURL != ""
}

// GetTokenSource returns a reusable token source for backend calls
func (o *BackendOAuth) GetTokenSource(ctx context.Context) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, o.config.TokenSource(ctx))
}

// HTTPClient returns a client that attaches a bearer token to every request.
// Without credentials it is a plain client.
func (o *BackendOAuth) HTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	if !o.Configured() {
		o.logger.Warn("Backend OAuth credentials not set, calling backend unauthenticated")
		return &http.Client{Timeout: timeout}
	}
	client := oauth2.NewClient(ctx, o.GetTokenSource(ctx))
	client.Timeout = timeout
	return client
}

// FetchToken requests a fresh token
func (o *BackendOAuth) FetchToken(ctx context.Context) (*oauth2.Token, error) {
	token, err := o.config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch backend token: %w", err)
	}
	o.logger.Info("Backend token obtained", "expiry", token.Expiry)
	return token, nil
}

// TokenToJSON converts a token to JSON
func (o *BackendOAuth) TokenToJSON(token *oauth2.Token) (string, error) {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
