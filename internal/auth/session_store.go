package auth

import (
	"net/http"

	"fintrack-backend/config"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth/gothic"
)

// InitializeSessionStore sets up the gothic session store that carries OAuth
// state between the login redirect and the callback.
func InitializeSessionStore(cfg *config.Config) {
	secret := cfg.Auth.SessionSecret
	if secret == "" {
		secret = cfg.Auth.JWTSecret
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   cfg.Cookie.IsSecure(),
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store
}
