package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack-backend/config"
	"fintrack-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
)

type nopMailer struct{}

func (nopMailer) Send(context.Context, string, string, string) error { return nil }

type offlineLLM struct{}

func (offlineLLM) Complete(context.Context, string) (string, error) {
	return "", errors.New("offline")
}

func testConfig() *config.Config {
	secure := false
	return &config.Config{
		App:    config.AppConfig{Name: "fintrack-test", Env: "test", FrontendURL: "https://app.example"},
		Server: config.ServerConfig{ReadTimeout: 5, WriteTimeout: 5, AllowedOrigins: []string{"https://app.example"}},
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret",
			AccessTTLMinutes: 30,
			RefreshTTLDays:   10,
			ResetTTLMinutes:  15,
		},
		Cookie: config.CookieConfig{Name: "refreshToken", Secure: &secure, SameSite: "Lax", MaxAge: 864000},
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return New(Deps{
		Config: testConfig(),
		DB:     testutil.OpenDB(t),
		Mailer: nopMailer{},
		LLM:    offlineLLM{},
	})
}

type call struct {
	method  string
	path    string
	body    interface{}
	token   string
	cookies []*http.Cookie
}

func do(t *testing.T, app *fiber.App, c call) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(c.method, c.path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", c.method, c.path, err)
	}
	defer resp.Body.Close()

	body := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("%s %s: decode %q: %v", c.method, c.path, raw, err)
		}
	}
	return resp, body
}

func expectStatus(t *testing.T, resp *http.Response, body map[string]interface{}, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d (body %v)", resp.StatusCode, want, body)
	}
}

func refreshCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	return nil
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing data object in %v", body)
	}
	return d
}

// signIn registers and logs in, returning the access token and user id.
func signIn(t *testing.T, app *fiber.App, email string) (string, string) {
	t.Helper()
	resp, body := do(t, app, call{method: "POST", path: "/auth/register", body: map[string]string{
		"name": "Test User", "email": email, "password": "Passw0rd!",
	}})
	expectStatus(t, resp, body, http.StatusCreated)
	userID, _ := data(t, body)["id"].(string)

	resp, body = do(t, app, call{method: "POST", path: "/auth/login", body: map[string]string{
		"email": email, "password": "Passw0rd!",
	}})
	expectStatus(t, resp, body, http.StatusOK)
	token, _ := body["accessToken"].(string)
	if token == "" {
		t.Fatalf("login returned no access token: %v", body)
	}
	return token, userID
}

func TestAuthCookieLifecycle(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, call{method: "POST", path: "/auth/register", body: map[string]string{
		"name": "Alice", "email": "Alice@Example.com", "password": "Passw0rd!",
	}})
	expectStatus(t, resp, body, http.StatusCreated)
	if got := data(t, body)["email"]; got != "alice@example.com" {
		t.Fatalf("registered email = %v", got)
	}
	if _, leaked := data(t, body)["password"]; leaked {
		t.Fatalf("password serialized in %v", body)
	}

	resp, body = do(t, app, call{method: "POST", path: "/auth/login", body: map[string]string{
		"email": "alice@example.com", "password": "Passw0rd!",
	}})
	expectStatus(t, resp, body, http.StatusOK)
	if body["message"] != "User logged in successfully" || body["accessToken"] == "" {
		t.Fatalf("login body = %v", body)
	}
	cookie := refreshCookie(resp)
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("refresh cookie not set")
	}
	if !cookie.HttpOnly || cookie.Secure || cookie.SameSite != http.SameSiteLaxMode || cookie.Path != "/" {
		t.Fatalf("cookie policy = httpOnly:%v secure:%v sameSite:%v path:%q", cookie.HttpOnly, cookie.Secure, cookie.SameSite, cookie.Path)
	}
	if cookie.MaxAge != 864000 {
		t.Fatalf("cookie max age = %d", cookie.MaxAge)
	}
	if strings.Contains(cookie.Value, body["accessToken"].(string)) {
		t.Fatalf("access token must not travel in the cookie")
	}

	access := body["accessToken"].(string)
	resp, body = do(t, app, call{method: "GET", path: "/auth/me", token: access})
	expectStatus(t, resp, body, http.StatusOK)
	if data(t, body)["email"] != "alice@example.com" {
		t.Fatalf("me = %v", body)
	}

	resp, body = do(t, app, call{method: "POST", path: "/auth/refresh-token", cookies: []*http.Cookie{cookie}})
	expectStatus(t, resp, body, http.StatusOK)
	if body["message"] != "Refresh token updated successfully" || body["accessToken"] == "" {
		t.Fatalf("refresh body = %v", body)
	}
	if refreshCookie(resp) == nil {
		t.Fatalf("refresh must reset the cookie")
	}

	resp, body = do(t, app, call{method: "POST", path: "/auth/logout", cookies: []*http.Cookie{cookie}})
	expectStatus(t, resp, body, http.StatusOK)
	cleared := refreshCookie(resp)
	if cleared == nil || cleared.Value != "" || !cleared.Expires.Before(time.Now()) {
		t.Fatalf("logout did not clear the cookie: %+v", cleared)
	}

	// The blacklisted record can no longer be refreshed.
	resp, body = do(t, app, call{method: "POST", path: "/auth/refresh-token", cookies: []*http.Cookie{cookie}})
	expectStatus(t, resp, body, http.StatusForbidden)
}

func TestRegisterWithEmailAndPasswordOnly(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, call{method: "POST", path: "/auth/register", body: map[string]string{
		"email": "a@x.com", "password": "Pass1!",
	}})
	expectStatus(t, resp, body, http.StatusCreated)
	if data(t, body)["email"] != "a@x.com" {
		t.Fatalf("register = %v", body)
	}

	resp, body = do(t, app, call{method: "POST", path: "/auth/login", body: map[string]string{
		"email": "a@x.com", "password": "Pass1!",
	}})
	expectStatus(t, resp, body, http.StatusOK)
}

func TestRefreshAfterAccountDeletion(t *testing.T) {
	app := newTestApp(t)
	token, _ := signIn(t, app, "gone@example.com")

	resp, body := do(t, app, call{method: "POST", path: "/auth/login", body: map[string]string{
		"email": "gone@example.com", "password": "Passw0rd!",
	}})
	expectStatus(t, resp, body, http.StatusOK)
	cookie := refreshCookie(resp)
	if cookie == nil {
		t.Fatalf("refresh cookie not set")
	}

	resp, body = do(t, app, call{method: "DELETE", path: "/users/me", token: token})
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = do(t, app, call{method: "POST", path: "/auth/refresh-token", cookies: []*http.Cookie{cookie}})
	expectStatus(t, resp, body, http.StatusUnauthorized)
}

func TestAuthFailures(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, call{method: "POST", path: "/auth/register", body: map[string]string{
		"name": "Bob", "password": "Passw0rd!",
	}})
	expectStatus(t, resp, body, http.StatusBadRequest)
	if body["success"] != false {
		t.Fatalf("error envelope = %v", body)
	}

	signIn(t, app, "bob@example.com")

	resp, body = do(t, app, call{method: "POST", path: "/auth/register", body: map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "Passw0rd!",
	}})
	expectStatus(t, resp, body, http.StatusConflict)
	if body["message"] != "User already exists" {
		t.Fatalf("conflict message = %v", body["message"])
	}

	resp, body = do(t, app, call{method: "POST", path: "/auth/login", body: map[string]string{
		"email": "bob@example.com", "password": "Wrong0ne!",
	}})
	expectStatus(t, resp, body, http.StatusUnauthorized)

	resp, body = do(t, app, call{method: "POST", path: "/auth/refresh-token"})
	expectStatus(t, resp, body, http.StatusUnauthorized)

	resp, body = do(t, app, call{method: "POST", path: "/auth/refresh-token",
		cookies: []*http.Cookie{{Name: "refreshToken", Value: "not-a-jwt"}}})
	expectStatus(t, resp, body, http.StatusForbidden)

	resp, body = do(t, app, call{method: "GET", path: "/auth/me"})
	expectStatus(t, resp, body, http.StatusUnauthorized)

	// Logout without a session still succeeds.
	resp, body = do(t, app, call{method: "POST", path: "/auth/logout"})
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = do(t, app, call{method: "POST", path: "/auth/forgot-password", body: map[string]string{
		"email": "nobody@example.com",
	}})
	expectStatus(t, resp, body, http.StatusOK)
}

func TestUserAccess(t *testing.T) {
	app := newTestApp(t)
	token, userID := signIn(t, app, "carol@example.com")
	_, otherID := signIn(t, app, "dave@example.com")

	resp, body := do(t, app, call{method: "GET", path: "/users", token: token})
	expectStatus(t, resp, body, http.StatusForbidden)

	resp, body = do(t, app, call{method: "GET", path: "/users/" + otherID, token: token})
	expectStatus(t, resp, body, http.StatusForbidden)

	resp, body = do(t, app, call{method: "GET", path: "/users/" + userID, token: token})
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = do(t, app, call{method: "PUT", path: "/users/me", token: token, body: map[string]string{
		"email": "dave@example.com",
	}})
	expectStatus(t, resp, body, http.StatusConflict)

	resp, body = do(t, app, call{method: "PUT", path: "/users/me", token: token, body: map[string]string{
		"name": "Carol C",
	}})
	expectStatus(t, resp, body, http.StatusOK)
	if data(t, body)["name"] != "Carol C" {
		t.Fatalf("update = %v", body)
	}

	resp, body = do(t, app, call{method: "DELETE", path: "/users/me", token: token})
	expectStatus(t, resp, body, http.StatusOK)
}

func TestBlogLikeCommentFlow(t *testing.T) {
	app := newTestApp(t)
	token, _ := signIn(t, app, "erin@example.com")

	resp, body := do(t, app, call{method: "POST", path: "/blogs", token: token, body: map[string]interface{}{
		"title":   "Budgeting basics",
		"content": strings.Repeat("Spend less than you earn. ", 3),
		"tags":    []string{"money"},
		"status":  "published",
	}})
	expectStatus(t, resp, body, http.StatusCreated)
	blog := data(t, body)
	blogID := blog["id"].(string)
	if blog["slug"] != "budgeting-basics" {
		t.Fatalf("slug = %v", blog["slug"])
	}

	resp, body = do(t, app, call{method: "POST", path: "/likes/toggle", token: token, body: map[string]string{
		"entityType": "blog", "entityId": blogID,
	}})
	expectStatus(t, resp, body, http.StatusOK)
	if d := data(t, body); d["liked"] != true || d["likesCount"] != float64(1) || d["action"] != "liked" {
		t.Fatalf("toggle = %v", d)
	}

	resp, body = do(t, app, call{method: "GET", path: "/likes/status?entityType=blog&entityId=" + blogID, token: token})
	expectStatus(t, resp, body, http.StatusOK)
	if data(t, body)["liked"] != true {
		t.Fatalf("status = %v", body)
	}

	resp, body = do(t, app, call{method: "POST", path: "/comments", token: token, body: map[string]string{
		"blogId": blogID, "content": "Great tips",
	}})
	expectStatus(t, resp, body, http.StatusCreated)

	resp, body = do(t, app, call{method: "GET", path: "/comments/blog/" + blogID})
	expectStatus(t, resp, body, http.StatusOK)
	if list, _ := data(t, body)["comments"].([]interface{}); len(list) != 1 {
		t.Fatalf("comments = %v", body)
	}

	resp, body = do(t, app, call{method: "GET", path: "/blogs/slug/budgeting-basics"})
	expectStatus(t, resp, body, http.StatusOK)
	if d := data(t, body); d["likesCount"] != float64(1) || d["commentsCount"] != float64(1) {
		t.Fatalf("counters = likes:%v comments:%v", d["likesCount"], d["commentsCount"])
	}

	resp, body = do(t, app, call{method: "POST", path: "/likes/toggle", token: token, body: map[string]string{
		"entityType": "post", "entityId": blogID,
	}})
	expectStatus(t, resp, body, http.StatusBadRequest)
}

func TestLedgerRoutes(t *testing.T) {
	app := newTestApp(t)
	token, _ := signIn(t, app, "frank@example.com")

	resp, body := do(t, app, call{method: "POST", path: "/expenses", token: token, body: map[string]interface{}{
		"amount": 42.5, "category": "Travel", "description": "Train", "paymentMethod": "UPI",
		"date": "2024-05-10T00:00:00Z",
	}})
	expectStatus(t, resp, body, http.StatusCreated)
	id := data(t, body)["id"].(string)

	resp, body = do(t, app, call{method: "GET", path: "/expenses?startDate=2024-05-01&endDate=2024-05-31", token: token})
	expectStatus(t, resp, body, http.StatusOK)
	if list, _ := data(t, body)["expenses"].([]interface{}); len(list) != 1 {
		t.Fatalf("expenses = %v", body)
	}

	resp, body = do(t, app, call{method: "GET", path: "/expenses?startDate=yesterday", token: token})
	expectStatus(t, resp, body, http.StatusBadRequest)

	resp, body = do(t, app, call{method: "GET", path: "/expenses/stats?startDate=2024-05-01&endDate=2024-05-31", token: token})
	expectStatus(t, resp, body, http.StatusOK)
	if data(t, body)["totalAmount"] != 42.5 {
		t.Fatalf("stats = %v", body)
	}

	other, _ := signIn(t, app, "grace@example.com")
	resp, body = do(t, app, call{method: "GET", path: "/expenses/" + id, token: other})
	expectStatus(t, resp, body, http.StatusNotFound)

	resp, body = do(t, app, call{method: "POST", path: "/incomes", token: token, body: map[string]interface{}{
		"amount": 1000, "category": "Salary", "description": "May", "source": "Acme",
		"isRecurring": true,
	}})
	expectStatus(t, resp, body, http.StatusBadRequest)
}

func TestFundRoutes(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, call{method: "GET", path: "/funds?limit=3"})
	expectStatus(t, resp, body, http.StatusOK)
	if list, _ := data(t, body)["funds"].([]interface{}); len(list) != 3 {
		t.Fatalf("funds = %v", body)
	}

	resp, body = do(t, app, call{method: "GET", path: "/funds/nope"})
	expectStatus(t, resp, body, http.StatusNotFound)
	if body["message"] != "Fund not found" {
		t.Fatalf("message = %v", body["message"])
	}

	resp, body = do(t, app, call{method: "POST", path: "/funds/sip-calculator", body: map[string]interface{}{
		"fundId": "fund_001", "monthlyAmount": 1000, "duration": 1, "expectedReturn": 12,
	}})
	expectStatus(t, resp, body, http.StatusOK)
	if got, _ := data(t, body)["maturityAmount"].(float64); math.Abs(got-12682.50) > 0.01 {
		t.Fatalf("sip = %v", body)
	}

	resp, body = do(t, app, call{method: "POST", path: "/funds/compare", body: map[string]interface{}{
		"fundIds": []string{"fund_001"},
	}})
	expectStatus(t, resp, body, http.StatusBadRequest)

	resp, body = do(t, app, call{method: "POST", path: "/funds/compare", body: map[string]interface{}{
		"fundIds": []string{"fund_001", "fund_002"},
	}})
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = do(t, app, call{method: "GET", path: "/health"})
	expectStatus(t, resp, body, http.StatusOK)
	resp, body = do(t, app, call{method: "GET", path: "/ready"})
	expectStatus(t, resp, body, http.StatusOK)
}
