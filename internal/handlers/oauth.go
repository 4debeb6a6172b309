package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"fintrack-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog/log"
)

// responseWriter is a minimal adapter that implements http.ResponseWriter
// on top of a Fiber context so gothic can write its session cookie.
type responseWriter struct {
	ctx     *fiber.Ctx
	headers http.Header
	status  int
}

func newResponseWriter(c *fiber.Ctx) *responseWriter {
	return &responseWriter{
		ctx:     c,
		headers: make(http.Header),
		status:  http.StatusOK,
	}
}

func (r *responseWriter) Header() http.Header {
	return r.headers
}

func (r *responseWriter) Write(b []byte) (int, error) {
	r.flushHeaders()
	r.ctx.Response().SetBody(b)
	return len(b), nil
}

func (r *responseWriter) WriteHeader(statusCode int) {
	r.status = statusCode
	r.flushHeaders()
	r.ctx.Status(statusCode)
}

// flushHeaders copies headers gothic set, Set-Cookie in particular, onto
// the Fiber response.
func (r *responseWriter) flushHeaders() {
	for key, values := range r.headers {
		for _, v := range values {
			r.ctx.Response().Header.Add(key, v)
		}
	}
	r.headers = make(http.Header)
}

// newGothicRequest builds the http.Request gothic expects from a Fiber
// context, carrying the provider as a query parameter.
func newGothicRequest(c *fiber.Ctx, provider string) *http.Request {
	query, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	query.Set("provider", provider)

	req := &http.Request{
		Method: http.MethodGet,
		URL: &url.URL{
			Scheme:   c.Protocol(),
			Host:     c.Hostname(),
			Path:     c.Path(),
			RawQuery: query.Encode(),
		},
		Header:     make(http.Header),
		RemoteAddr: c.IP(),
	}
	c.Request().Header.VisitAll(func(key, value []byte) {
		req.Header.Add(string(key), string(value))
	})
	return req.WithContext(c.UserContext())
}

// BeginOAuth redirects to the provider's consent page.
func (h *AuthHandler) BeginOAuth(c *fiber.Ctx) error {
	provider := c.Params("provider")
	log.Debug().Str("provider", provider).Msg("Beginning OAuth login")

	w := newResponseWriter(c)
	authURL, err := gothic.GetAuthURL(w, newGothicRequest(c, provider))
	if err != nil {
		log.Error().Err(err).Str("provider", provider).Msg("Failed to get auth URL")
		return fiber.NewError(fiber.StatusBadRequest, "Failed to begin authentication")
	}
	w.flushHeaders()
	return c.Redirect(authURL)
}

// OAuthCallback completes the provider login, signs the user in through the
// same reuse-or-create path as Google ID-token login and redirects to the
// frontend with the access token.
func (h *AuthHandler) OAuthCallback(c *fiber.Ctx) error {
	provider := c.Params("provider")

	w := newResponseWriter(c)
	gothUser, err := gothic.CompleteUserAuth(w, newGothicRequest(c, provider))
	if err != nil {
		log.Error().Err(err).Str("provider", provider).Msg("Failed to complete auth")
		return fiber.NewError(fiber.StatusUnauthorized, "Failed to complete authentication")
	}
	w.flushHeaders()

	session, err := h.authService.FederatedLogin(c.UserContext(), auth.IdentityFromGoth(gothUser))
	if err != nil {
		return err
	}
	h.setRefreshCookie(c, session.Tokens.Refresh)

	frontendURL, err := url.Parse(h.config.App.FrontendURL)
	if err != nil {
		log.Error().Err(err).Msg("Invalid frontend URL in config")
		return fiber.NewError(fiber.StatusInternalServerError, "Invalid frontend configuration")
	}
	frontendURL.Path = fmt.Sprintf("%s/auth/callback", frontendURL.Path)
	q := frontendURL.Query()
	q.Set("token", session.Tokens.Access.Token)
	frontendURL.RawQuery = q.Encode()
	return c.Redirect(frontendURL.String())
}
