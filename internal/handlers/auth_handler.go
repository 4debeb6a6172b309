package handlers

import (
	"time"

	"fintrack-backend/config"
	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *auth.AuthService
	config      *config.Config
}

func NewAuthHandler(authService *auth.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := bind(c, &input); err != nil {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), input.Email, input.Password, input.Name)
	if err != nil {
		return err
	}
	return created(c, "Registered successfully", user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if err := bind(c, &input); err != nil {
		return err
	}

	session, err := h.authService.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, session.Tokens.Refresh)
	return c.JSON(AuthResponse{
		Success:     true,
		Message:     "User logged in successfully",
		AccessToken: session.Tokens.Access.Token,
		User:        session.User,
	})
}

// Google signs in with an ID token obtained by the frontend. New accounts are
// reported with 201 and the user under data.
func (h *AuthHandler) Google(c *fiber.Ctx) error {
	var input GoogleLoginRequest
	if err := bind(c, &input); err != nil {
		return err
	}

	session, err := h.authService.GoogleLogin(c.UserContext(), input.IDToken)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, session.Tokens.Refresh)
	if session.Created {
		return c.Status(fiber.StatusCreated).JSON(AuthResponse{
			Success:     true,
			Message:     "User created successfully",
			AccessToken: session.Tokens.Access.Token,
			Data:        session.User,
		})
	}
	return c.JSON(AuthResponse{
		Success:     true,
		Message:     "User logged in successfully",
		AccessToken: session.Tokens.Access.Token,
		User:        session.User,
	})
}

// RefreshToken issues a new pair from the refresh cookie.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	presented := c.Cookies(h.config.Cookie.Name)
	if presented == "" {
		return apperr.Unauthorized("Unauthorized")
	}

	tokens, err := h.authService.Refresh(c.UserContext(), presented)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, tokens.Refresh)
	return c.JSON(AuthResponse{
		Success:     true,
		Message:     "Refresh token updated successfully",
		AccessToken: tokens.Access.Token,
	})
}

// Logout always succeeds and always clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.authService.Logout(c.UserContext(), c.Cookies(h.config.Cookie.Name))
	h.clearRefreshCookie(c)
	return ok(c, "Logged out successfully", nil)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input ForgotPasswordRequest
	if err := bind(c, &input); err != nil {
		return err
	}

	message, err := h.authService.BeginPasswordReset(c.UserContext(), input.Email)
	if err != nil {
		return err
	}
	return ok(c, message, nil)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input ResetPasswordRequest
	if err := bind(c, &input); err != nil {
		return err
	}

	if err := h.authService.CompletePasswordReset(c.UserContext(), input.Token, input.Password); err != nil {
		return err
	}
	return ok(c, "Password has been reset successfully", nil)
}

func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.authService.GetUser(c.UserContext(), p.UserID)
	if err != nil {
		return err
	}
	return ok(c, "User fetched successfully", user)
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, refresh auth.TokenInfo) {
	c.Cookie(h.refreshCookie(refresh.Token, h.config.Cookie.MaxAge, time.Time{}))
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(h.refreshCookie("", -1, time.Unix(0, 0)))
}

func (h *AuthHandler) refreshCookie(value string, maxAge int, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     h.config.Cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.config.Cookie.IsSecure(),
		SameSite: h.config.Cookie.SameSite,
	}
}
