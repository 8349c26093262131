package user

import (
	"errors"
	"regexp"

	"github.com/gofiber/fiber/v2"

	"github.com/neuralert/stroke-risk-backend/internal/httperr"
	"github.com/neuralert/stroke-risk-backend/internal/logger"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type Handler struct {
	service *Service
	secret  []byte
	log     *logger.Logger
}

type signupRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service *Service, secret []byte, log *logger.Logger) *Handler {
	return &Handler{service: service, secret: secret, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/auth/signup", h.signup)
	app.Post("/api/auth/login", h.login)
	app.Get("/api/auth/validate", h.validate)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Delete("/api/auth/account", h.deleteAccount)
}

func (h *Handler) signup(c *fiber.Ctx) error {
	payload := new(signupRequest)
	if err := c.BodyParser(payload); err != nil {
		return httperr.BadRequest(c, "Request must be JSON")
	}

	switch {
	case payload.Name == "":
		return httperr.BadRequest(c, "Name is required")
	case payload.Email == "":
		return httperr.BadRequest(c, "Email is required")
	case payload.Password == "":
		return httperr.BadRequest(c, "Password is required")
	}
	if !emailPattern.MatchString(payload.Email) {
		return httperr.BadRequest(c, "Invalid email format")
	}

	created, err := h.service.Register(User{
		Name:        payload.Name,
		Email:       payload.Email,
		Phone:       payload.Phone,
		DateOfBirth: payload.DateOfBirth,
	}, payload.Password)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return httperr.BadRequest(c, "Email already registered")
		}
		h.log.Error("signup failed", "email", payload.Email, "error", err)
		return httperr.Internal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "User registered successfully",
		"user":    created,
	})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return httperr.BadRequest(c, "Request must be JSON")
	}
	if payload.Email == "" || payload.Password == "" {
		return httperr.BadRequest(c, "Email and password required")
	}

	u, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInactiveAccount):
			return httperr.Unauthorized(c, "Account is deactivated")
		case errors.Is(err, ErrInvalidCredentials):
			return httperr.Unauthorized(c, "Invalid credentials")
		default:
			h.log.Error("login failed", "email", payload.Email, "error", err)
			return httperr.Internal(c)
		}
	}

	token, err := GenerateToken(u, h.secret)
	if err != nil {
		h.log.Error("token generation failed", "id", u.ID, "error", err)
		return httperr.Internal(c)
	}

	h.log.Info("user logged in", "email", u.Email, "id", u.ID)
	return c.JSON(fiber.Map{
		"status":       "success",
		"message":      "Login successful",
		"access_token": token,
		"user":         u,
	})
}

// validate answers token-validity probes from the frontend. It keeps the
// {valid, user} body shape instead of the error envelope so clients can
// treat it as a boolean check.
func (h *Handler) validate(c *fiber.Ctx) error {
	id, err := ParseBearer(c.Get(fiber.HeaderAuthorization), h.secret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"valid": false,
			"error": "Invalid token",
		})
	}

	u, err := h.service.GetActive(id)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"valid": false,
			"error": "Invalid token",
		})
	}

	return c.JSON(fiber.Map{
		"valid": true,
		"user":  u,
	})
}

func (h *Handler) deleteAccount(c *fiber.Ctx) error {
	id, err := UserIDFromCtx(c)
	if err != nil {
		return httperr.Unauthorized(c, "Authentication required")
	}

	if _, err := h.service.GetActive(id); err != nil {
		return httperr.Unauthorized(c, "Authentication required")
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, "User not found")
		}
		h.log.Error("account deletion failed", "id", id, "error", err)
		return httperr.Internal(c)
	}

	h.log.Info("account deleted", "id", id)
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Account and prediction history deleted",
	})
}
