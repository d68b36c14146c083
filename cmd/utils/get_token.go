package main

import (
	"context"
	"fmt"
	"os"

	"flightwatch-service/internal/infrastructure/config"
	"flightwatch-service/internal/infrastructure/oauth"
	"flightwatch-service/pkg/logger"
)

// Prints a backend access token for manual API calls.
func main() {
	log := logger.NewLogger("warn")
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	backendOAuth := oauth.NewBackendOAuth(
		cfg.BackendClientID,
		cfg.BackendClientSecret,
		cfg.BackendTokenURL,
		cfg.BackendScopes,
		log,
	)
	if !backendOAuth.Configured() {
		fmt.Fprintln(os.Stderr, "BACKEND_CLIENT_ID, BACKEND_CLIENT_SECRET and BACKEND_TOKEN_URL must be set")
		os.Exit(1)
	}

	token, err := backendOAuth.FetchToken(context.Background())
	if err != nil {
		log.Fatal("Failed to fetch token", "error", err)
	}

	out, err := backendOAuth.TokenToJSON(token)
	if err != nil {
		log.Fatal("Failed to encode token", "error", err)
	}
	fmt.Println(out)
}
