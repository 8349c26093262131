package prediction

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/neuralert/stroke-risk-backend/internal/httperr"
	"github.com/neuralert/stroke-risk-backend/internal/logger"
	"github.com/neuralert/stroke-risk-backend/internal/predictor"
	"github.com/neuralert/stroke-risk-backend/internal/user"
)

type Handler struct {
	service   *Service
	users     *user.Service
	predictor *predictor.Predictor
	secret    []byte
	log       *logger.Logger
}

func NewHandler(service *Service, users *user.Service, pred *predictor.Predictor, secret []byte, log *logger.Logger) *Handler {
	return &Handler{service: service, users: users, predictor: pred, secret: secret, log: log}
}

// RegisterPublicRoutes registers /api/predict outside the JWT middleware:
// anonymous callers get a prediction too, only persistence requires a
// valid token.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/predict", h.predict)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/history", h.history)
	app.Get("/api/statistics", h.statistics)
	app.Delete("/api/predictions/:id", h.deletePrediction)
}

func (h *Handler) predict(c *fiber.Ctx) error {
	payload := new(predictRequest)
	if err := c.BodyParser(payload); err != nil {
		return httperr.BadRequest(c, "Request must be JSON")
	}

	if missing := payload.missingFields(); len(missing) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":          "Bad Request",
			"message":        "Missing required fields",
			"status_code":    fiber.StatusBadRequest,
			"missing_fields": missing,
		})
	}
	if err := payload.validateRanges(); err != nil {
		return httperr.BadRequest(c, err.Error())
	}

	patient := payload.patient()
	requestID := uuid.NewString()
	result := h.predictor.Predict(patient)

	h.log.Info("prediction completed",
		"request_id", requestID,
		"risk_level", result.RiskLevel,
		"probability", result.ProbabilityScore)

	// Persist only for authenticated, active users. A storage failure
	// must not fail the prediction itself.
	if current, ok := h.currentUser(c); ok {
		if _, err := h.service.Save(current.ID, requestID, patient, result); err != nil {
			h.log.Error("failed to save prediction", "request_id", requestID, "user_id", current.ID, "error", err)
		}
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
		"prediction": result,
		"patient_summary": fiber.Map{
			"age":           int(patient.Age),
			"gender":        patient.Gender,
			"bmi":           round1(patient.BMI),
			"glucose_level": round1(patient.AvgGlucoseLevel),
		},
	})
}

func (h *Handler) history(c *fiber.Ctx) error {
	current, err := h.activeUserFromCtx(c)
	if err != nil {
		return httperr.Unauthorized(c, "Authentication required")
	}

	predictions, err := h.service.History(current.ID)
	if err != nil {
		h.log.Error("failed to load history", "user_id", current.ID, "error", err)
		return httperr.Internal(c)
	}

	serialized := make([]map[string]any, 0, len(predictions))
	for _, p := range predictions {
		serialized = append(serialized, p.Serialize())
	}

	return c.JSON(fiber.Map{
		"status":      "success",
		"predictions": serialized,
		"total_count": len(serialized),
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) statistics(c *fiber.Ctx) error {
	current, err := h.activeUserFromCtx(c)
	if err != nil {
		return httperr.Unauthorized(c, "Authentication required")
	}

	stats, err := h.service.Statistics(current.ID)
	if err != nil {
		h.log.Error("failed to compute statistics", "user_id", current.ID, "error", err)
		return httperr.Internal(c)
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"statistics": stats,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) deletePrediction(c *fiber.Ctx) error {
	current, err := h.activeUserFromCtx(c)
	if err != nil {
		return httperr.Unauthorized(c, "Authentication required")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return httperr.BadRequest(c, "Prediction id must be numeric")
	}

	if err := h.service.Delete(id, current.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound(c, fmt.Sprintf("No prediction found with ID %d", id))
		}
		h.log.Error("failed to delete prediction", "id", id, "user_id", current.ID, "error", err)
		return httperr.Internal(c)
	}

	return c.JSON(fiber.Map{
		"status":    "success",
		"message":   fmt.Sprintf("Prediction %d deleted successfully", id),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// activeUserFromCtx resolves the JWT put in locals by the auth
// middleware and re-checks the account's active flag.
func (h *Handler) activeUserFromCtx(c *fiber.Ctx) (user.User, error) {
	id, err := user.UserIDFromCtx(c)
	if err != nil {
		return user.User{}, err
	}
	return h.users.GetActive(id)
}

// currentUser is the optional-auth variant used by predict: it parses
// the Authorization header directly and treats any failure as an
// anonymous caller.
func (h *Handler) currentUser(c *fiber.Ctx) (user.User, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return user.User{}, false
	}
	id, err := user.ParseBearer(header, h.secret)
	if err != nil {
		return user.User{}, false
	}
	current, err := h.users.GetActive(id)
	if err != nil {
		return user.User{}, false
	}
	return current, true
}
