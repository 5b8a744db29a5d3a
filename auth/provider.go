package auth

import (
	"lms/config"
)

// Identity is the provider's view of an authenticated subject
type Identity struct {
	ExternalID   string
	Email        string
	Name         string
	ProfileImage string
}

// IdentityProvider validates an opaque bearer token and resolves it to the
// subject it was issued for.
type IdentityProvider interface {
	Verify(token string) (*Identity, error)
}

// Provider is the process-wide identity provider, selected by config
var Provider IdentityProvider

// InitProvider wires the identity provider configured in AppConfig
func InitProvider() {
	if config.AppConfig.AuthMode == "remote" {
		Provider = NewRemoteProvider(config.AppConfig.IdentityApiURL, config.AppConfig.IdentityApiKey)
		return
	}
	Provider = NewJWTProvider(config.AppConfig.JWTKey)
}
