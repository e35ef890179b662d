// Package auth wires the OAuth providers used for login.
package auth

import (
	"os"

	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/google"
)

// InitGothProviders registers the OAuth providers from the environment.
func InitGothProviders() {
	callbackBase := os.Getenv("OAUTH_CALLBACK_URL")
	if callbackBase == "" {
		callbackBase = "http://localhost:8080"
	}

	goth.UseProviders(
		google.New(
			os.Getenv("GOOGLE_CLIENT_ID"),
			os.Getenv("GOOGLE_CLIENT_SECRET"),
			callbackBase+"/auth/google/callback",
			"email", "profile",
		),
	)
}
