package user

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/neuralert/stroke-risk-backend/internal/logger"
)

var testSecret = []byte("test-secret")

// makeAuthApp registers the protected routes behind a middleware that,
// like the JWT middleware in production, puts a parsed token into locals
// when the request carries an X-User-ID header.
func makeAuthApp(seed []User) (*fiber.App, *Service) {
	service := NewService(NewInMemoryRepository(seed), logger.NewNop())
	handler := NewHandler(service, testSecret, logger.NewNop())

	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	handler.RegisterProtectedRoutes(app)
	return app, service
}

func TestSignupAndLoginFlow(t *testing.T) {
	app, _ := makeAuthApp(nil)

	req := httptest.NewRequest("POST", "/api/auth/signup",
		strings.NewReader(`{"name":"Jane","email":"jane@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("signup request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if strings.Contains(string(body), "password") {
		t.Fatalf("signup response must not expose password material: %s", body)
	}

	// login with the registered credentials
	req = httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"jane@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var loginBody struct {
		AccessToken string `json:"access_token"`
		User        User   `json:"user"`
	}
	raw, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(raw, &loginBody); err != nil {
		t.Fatalf("login response decode failed: %v", err)
	}
	if loginBody.AccessToken == "" {
		t.Fatalf("expected access token in login response")
	}

	// the issued token must parse back to the same user
	id, err := ParseToken(loginBody.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if id != loginBody.User.ID {
		t.Fatalf("token user id %d does not match %d", id, loginBody.User.ID)
	}
}

func TestSignupRejectsDuplicateEmailCaseInsensitive(t *testing.T) {
	app, _ := makeAuthApp(nil)

	first := httptest.NewRequest("POST", "/api/auth/signup",
		strings.NewReader(`{"name":"A","email":"dup@example.com","password":"pw123456"}`))
	first.Header.Set("Content-Type", "application/json")
	if res, err := app.Test(first); err != nil || res.StatusCode != fiber.StatusCreated {
		t.Fatalf("first signup failed: err=%v", err)
	}

	second := httptest.NewRequest("POST", "/api/auth/signup",
		strings.NewReader(`{"name":"B","email":"DUP@Example.com","password":"pw123456"}`))
	second.Header.Set("Content-Type", "application/json")
	res, err := app.Test(second)
	if err != nil {
		t.Fatalf("second signup failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "already registered") {
		t.Fatalf("expected duplicate email message, got %s", body)
	}
}

func TestSignupValidation(t *testing.T) {
	app, _ := makeAuthApp(nil)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"email":"a@b.co","password":"x12345"}`, "Name is required"},
		{"missing email", `{"name":"A","password":"x12345"}`, "Email is required"},
		{"missing password", `{"name":"A","email":"a@b.co"}`, "Password is required"},
		{"bad email", `{"name":"A","email":"not-an-email","password":"x12345"}`, "Invalid email format"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: request failed: %v", tc.name, err)
		}
		if res.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, res.StatusCode)
		}
		body, _ := io.ReadAll(res.Body)
		if !strings.Contains(string(body), tc.want) {
			t.Fatalf("%s: expected %q in body, got %s", tc.name, tc.want, body)
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, _ := makeAuthApp(nil)

	req := httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"nobody@example.com","password":"whatever"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
}

func TestValidateToken(t *testing.T) {
	seed := []User{{ID: 7, Name: "Jenny", Email: "j@example.com", IsActive: true}}
	app, _ := makeAuthApp(seed)

	// no token
	req := httptest.NewRequest("GET", "/api/auth/validate", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("validate request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.StatusCode)
	}

	// valid token for an active user
	token, err := GenerateToken(seed[0], testSecret)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	req = httptest.NewRequest("GET", "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("validate request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"valid":true`) {
		t.Fatalf("expected valid:true, got %s", body)
	}

	// token signed with a different secret must be rejected
	forged, err := GenerateToken(seed[0], []byte("other-secret"))
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	req = httptest.NewRequest("GET", "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("validate request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", res.StatusCode)
	}
}

func TestDeleteAccount(t *testing.T) {
	seed := []User{{ID: 7, Name: "Jenny", Email: "j@example.com", IsActive: true}}
	app, service := makeAuthApp(seed)

	// unauthenticated deletion is rejected
	req := httptest.NewRequest("DELETE", "/api/auth/account", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("delete request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", res.StatusCode)
	}

	// authenticated deletion removes the account
	req = httptest.NewRequest("DELETE", "/api/auth/account", nil)
	req.Header.Set("X-User-ID", "7")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("delete request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "Account and prediction history deleted") {
		t.Fatalf("unexpected delete body: %s", body)
	}

	if _, err := service.GetActive(7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected account to be gone, got %v", err)
	}

	// the deleted account can no longer authenticate against routes
	req = httptest.NewRequest("DELETE", "/api/auth/account", nil)
	req.Header.Set("X-User-ID", "7")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("delete request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted account, got %d", res.StatusCode)
	}
}

func TestValidateRejectsInactiveUser(t *testing.T) {
	seed := []User{{ID: 9, Email: "off@example.com", IsActive: false}}
	app, _ := makeAuthApp(seed)

	token, err := GenerateToken(seed[0], testSecret)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	req := httptest.NewRequest("GET", "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("validate request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for inactive user, got %d", res.StatusCode)
	}
}
