package auth

import (
	"fintrack-backend/config"

	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog/log"
)

// InitProviders registers the OAuth redirect providers that have
// credentials configured. It returns how many were registered.
func InitProviders(cfg *config.Config) int {
	providers := []goth.Provider{}

	if cfg.Auth.Google.ClientID != "" && cfg.Auth.Google.ClientSecret != "" {
		log.Debug().Str("redirect_url", cfg.Auth.Google.RedirectURL).Msg("Initializing Google provider")

		provider := google.New(
			cfg.Auth.Google.ClientID,
			cfg.Auth.Google.ClientSecret,
			cfg.Auth.Google.RedirectURL,
			"email",
			"profile",
			"openid",
		)
		provider.SetHostedDomain("")
		providers = append(providers, provider)
	}

	log.Debug().Int("provider_count", len(providers)).Msg("Using providers")
	goth.UseProviders(providers...)
	return len(providers)
}

// IdentityFromGoth converts a completed OAuth login into an Identity. Google
// reports email verification in the raw userinfo payload.
func IdentityFromGoth(u goth.User) *Identity {
	verified := false
	switch v := u.RawData["email_verified"].(type) {
	case bool:
		verified = v
	case string:
		verified = v == "true"
	}
	if !verified {
		if v, ok := u.RawData["verified_email"].(bool); ok {
			verified = v
		}
	}
	return &Identity{
		Subject:       u.UserID,
		Email:         u.Email,
		EmailVerified: verified,
		Name:          u.Name,
		Picture:       u.AvatarURL,
		Provider:      u.Provider,
	}
}
