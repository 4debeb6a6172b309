package auth

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

// Identity is what an identity provider vouches for.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
	Provider      string
}

// IdentityVerifier checks a provider-issued ID token server-side.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// GoogleVerifier validates Google ID tokens against the client id they were
// issued for.
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

func (g *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if g.clientID == "" {
		return nil, errors.New("google client id is not configured")
	}
	payload, err := idtoken.Validate(ctx, rawToken, g.clientID)
	if err != nil {
		return nil, err
	}

	id := &Identity{
		Subject:  payload.Subject,
		Email:    claimString(payload.Claims, "email"),
		Name:     claimString(payload.Claims, "name"),
		Picture:  claimString(payload.Claims, "picture"),
		Provider: "google",
	}
	switch v := payload.Claims["email_verified"].(type) {
	case bool:
		id.EmailVerified = v
	case string:
		id.EmailVerified = v == "true"
	}
	return id, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
