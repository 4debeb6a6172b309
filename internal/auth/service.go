package auth

import (
	"context"
	"errors"
	"net/url"
	"time"

	"fintrack-backend/config"
	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/mailer"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/ratelimit"
	"fintrack-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// ResetRequestedMessage is returned for every reset request so callers cannot
// tell whether an account exists.
const ResetRequestedMessage = "If your email is registered, you will receive a password reset link"

// UserStore is the credential store the auth flows work against.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// LoginLimiter throttles repeated failed logins.
type LoginLimiter interface {
	CheckLogin(ctx context.Context, email string) error
	FailLogin(ctx context.Context, email string) error
	ResetLogin(ctx context.Context, email string) error
}

// Session is a signed-in user plus their tokens.
type Session struct {
	User    *models.User
	Tokens  *AuthTokens
	Created bool
}

type AuthService struct {
	users   UserStore
	tokens  *TokenService
	mailer  mailer.Mailer
	google  IdentityVerifier
	limiter LoginLimiter
	cfg     *config.Config
	now     func() time.Time
}

func NewAuthService(users UserStore, tokens *TokenService, m mailer.Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		mailer: m,
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithGoogleVerifier enables Google ID-token sign-in.
func (s *AuthService) WithGoogleVerifier(v IdentityVerifier) *AuthService {
	s.google = v
	return s
}

// WithLoginLimiter enables failed-login throttling.
func (s *AuthService) WithLoginLimiter(l LoginLimiter) *AuthService {
	s.limiter = l
	return s
}

func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

// Register creates a local account. The save hook hashes the password.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("Could not register user", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("User already exists")
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Role:     models.RoleUser,
		Provider: models.ProviderLocal,
	}
	user.SetPassword(password)

	if err := s.users.CreateUser(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, apperr.Internal("Could not register user", err)
	}
	return user, nil
}

// VerifyCredentials returns the user when email and password match.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	if s.limiter != nil {
		if err := s.limiter.CheckLogin(ctx, email); err != nil {
			if errors.Is(err, ratelimit.ErrRateLimited) {
				return nil, apperr.TooManyRequests("Too many failed login attempts, try again later")
			}
			log.Warn().Err(err).Msg("Login limiter unavailable")
		}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("Could not verify credentials", err)
	}
	if user == nil {
		s.recordFailure(ctx, email)
		return nil, apperr.NotFound("User not found")
	}
	if !user.CheckPassword(password) {
		s.recordFailure(ctx, email)
		return nil, apperr.Unauthorized("Invalid password")
	}

	if s.limiter != nil {
		if err := s.limiter.ResetLogin(ctx, email); err != nil {
			log.Warn().Err(err).Msg("Failed to reset login counter")
		}
	}
	return user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.FailLogin(ctx, email); err != nil {
		log.Warn().Err(err).Msg("Failed to record login failure")
	}
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	tokens, err := s.tokens.IssueAuthPair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	tokens, _, err := s.tokens.RotateOnRefresh(ctx, refreshToken)
	return tokens, err
}

// Logout revokes the refresh record when one is presented. It never fails.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		log.Warn().Err(err).Msg("Failed to revoke refresh token on logout")
	}
}

// BeginPasswordReset stores a hashed reset token and mails the raw one. The
// same message is returned whether or not the account exists. If the mail
// cannot be sent the stored token is cleared again.
func (s *AuthService) BeginPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", apperr.Internal("Could not start password reset", err)
	}
	if user == nil {
		return ResetRequestedMessage, nil
	}

	raw, digest, err := NewResetToken()
	if err != nil {
		return "", apperr.Internal("Could not start password reset", err)
	}
	expires := s.now().Add(s.cfg.Auth.ResetTTL())
	user.ResetPasswordToken = &digest
	user.ResetPasswordExpires = &expires
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return "", apperr.Internal("Could not start password reset", err)
	}

	if err := s.sendResetEmail(ctx, user.Email, raw); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to send password reset email")
		user.ClearPasswordReset()
		if rollbackErr := s.users.UpdateUser(ctx, user); rollbackErr != nil {
			log.Error().Err(rollbackErr).Str("user_id", user.ID).Msg("Failed to clear reset token after mail failure")
		}
		return "", apperr.Internal("Email could not be sent", err)
	}

	return ResetRequestedMessage, nil
}

func (s *AuthService) sendResetEmail(ctx context.Context, to, rawToken string) error {
	resetURL := s.cfg.App.FrontendURL + "/reset-password?token=" + url.QueryEscape(rawToken)
	body, err := mailer.ResetPasswordBody(resetURL, s.cfg.Auth.ResetTTLMinutes)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, to, mailer.ResetPasswordSubject, body)
}

// CompletePasswordReset sets a new password for the holder of an unexpired
// reset token. The new hash and the cleared token are written together.
func (s *AuthService) CompletePasswordReset(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" {
		return apperr.BadRequest("Invalid or expired password reset token")
	}
	user, err := s.users.GetUserByResetToken(ctx, HashResetToken(rawToken), s.now())
	if err != nil {
		return apperr.Internal("Could not reset password", err)
	}
	if user == nil {
		return apperr.BadRequest("Invalid or expired password reset token")
	}

	user.SetPassword(newPassword)
	user.ClearPasswordReset()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return apperr.Internal("Could not reset password", err)
	}
	return nil
}

// GoogleLogin signs in with a Google ID token.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*Session, error) {
	if idToken == "" {
		return nil, apperr.BadRequest("ID Token is required")
	}
	if s.google == nil {
		return nil, apperr.Internal("Google sign-in is not configured", nil)
	}
	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		log.Warn().Err(err).Msg("Google ID token rejected")
		return nil, apperr.Unauthorized("Invalid ID token")
	}
	return s.FederatedLogin(ctx, identity)
}

// FederatedLogin reuses the account matching the verified email or creates
// one with a random password.
func (s *AuthService) FederatedLogin(ctx context.Context, identity *Identity) (*Session, error) {
	if identity == nil || !identity.EmailVerified {
		return nil, apperr.Unauthorized("Email not verified")
	}
	if identity.Email == "" {
		return nil, apperr.Unauthorized("Email not provided")
	}

	user, err := s.users.GetUserByEmail(ctx, identity.Email)
	if err != nil {
		return nil, apperr.Internal("Could not sign in", err)
	}

	created := false
	if user == nil {
		password, err := RandomPassword()
		if err != nil {
			return nil, apperr.Internal("Could not sign in", err)
		}
		user = &models.User{
			Email:          identity.Email,
			Name:           identity.Name,
			ProfilePicture: identity.Picture,
			Role:           models.RoleUser,
			Provider:       identity.Provider,
		}
		user.SetPassword(password)
		if err := s.users.CreateUser(ctx, user); err != nil {
			if !repository.IsDuplicate(err) {
				return nil, apperr.Internal("Could not sign in", err)
			}
			// Lost a race with a concurrent sign-in; use the winner.
			if user, err = s.users.GetUserByEmail(ctx, identity.Email); err != nil || user == nil {
				return nil, apperr.Internal("Could not sign in", err)
			}
		} else {
			created = true
		}
	}

	tokens, err := s.tokens.IssueAuthPair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Tokens: tokens, Created: created}, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Could not load user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}
