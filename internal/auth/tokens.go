package auth

import (
	"context"
	"time"

	"fintrack-backend/config"
	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// TokenStore persists token records.
type TokenStore interface {
	SaveToken(ctx context.Context, token *models.Token) error
	FindToken(ctx context.Context, value string, typ models.TokenType) (*models.Token, error)
	Blacklist(ctx context.Context, id string) error
}

// UserLookup resolves the subject of a token.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type TokenInfo struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type AuthTokens struct {
	Access  TokenInfo `json:"access"`
	Refresh TokenInfo `json:"refresh"`
}

// TokenService issues and verifies session tokens. Access tokens are
// stateless; refresh tokens are backed by a Token record.
type TokenService struct {
	store TokenStore
	users UserLookup
	cfg   config.AuthConfig
	now   func() time.Time
}

func NewTokenService(store TokenStore, users UserLookup, cfg config.AuthConfig) *TokenService {
	return &TokenService{store: store, users: users, cfg: cfg, now: time.Now}
}

// IssueAuthPair signs an access and a refresh token for user and stores the
// refresh record. Nothing is returned if the record could not be saved.
func (s *TokenService) IssueAuthPair(ctx context.Context, user *models.User) (*AuthTokens, error) {
	now := s.now()
	accessExpires := now.Add(s.cfg.AccessTTL())
	access, err := GenerateToken(user.ID, user.Role, accessExpires, models.TokenAccess, s.cfg.JWTSecret)
	if err != nil {
		return nil, apperr.Internal("Could not sign the token", err)
	}

	refreshExpires := now.Add(s.cfg.RefreshTTL())
	refresh, err := GenerateToken(user.ID, user.Role, refreshExpires, models.TokenRefresh, s.cfg.JWTSecret)
	if err != nil {
		return nil, apperr.Internal("Could not sign the token", err)
	}

	record := &models.Token{
		Token:   refresh,
		UserID:  user.ID,
		Type:    models.TokenRefresh,
		Expires: refreshExpires,
	}
	if err := s.store.SaveToken(ctx, record); err != nil {
		return nil, apperr.Internal("Could not save the token", err)
	}

	return &AuthTokens{
		Access:  TokenInfo{Token: access, Expires: accessExpires},
		Refresh: TokenInfo{Token: refresh, Expires: refreshExpires},
	}, nil
}

// RotateOnRefresh exchanges a refresh token for a new pair. The presented
// token stays usable until it expires or is revoked. The subject is checked
// before the record, since deleting a user also removes its records.
func (s *TokenService) RotateOnRefresh(ctx context.Context, presented string) (*AuthTokens, *models.User, error) {
	if presented == "" {
		return nil, nil, apperr.Unauthorized("Unauthorized")
	}

	claims, err := ValidateTokenOfType(presented, s.cfg.JWTSecret, models.TokenRefresh)
	if err != nil {
		return nil, nil, apperr.Forbidden("Forbidden")
	}

	user, err := s.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return nil, nil, apperr.Internal("Could not load the user", err)
	}
	if user == nil {
		log.Warn().Str("user_id", claims.Subject).Msg("Refresh token presented for a deleted user")
		return nil, nil, apperr.Unauthorized("Unauthorized")
	}

	record, err := s.store.FindToken(ctx, presented, models.TokenRefresh)
	if err != nil {
		return nil, nil, apperr.Internal("Could not read the token", err)
	}
	if record == nil || record.UserID != claims.Subject || !record.Usable(s.now()) {
		return nil, nil, apperr.Forbidden("Forbidden")
	}

	tokens, err := s.IssueAuthPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

// VerifyAccess accepts only unexpired access tokens.
func (s *TokenService) VerifyAccess(token string) (*Claims, error) {
	claims, err := ValidateTokenOfType(token, s.cfg.JWTSecret, models.TokenAccess)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid token")
	}
	return claims, nil
}

// Revoke blacklists the record behind a refresh token. Unknown or invalid
// tokens are ignored.
func (s *TokenService) Revoke(ctx context.Context, refresh string) error {
	if refresh == "" {
		return nil
	}
	record, err := s.store.FindToken(ctx, refresh, models.TokenRefresh)
	if err != nil {
		return err
	}
	if record == nil || record.Blacklisted {
		return nil
	}
	return s.store.Blacklist(ctx, record.ID)
}
