package main

import (
	"context"
	"database/sql"
	stdlog "log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/neuralert/stroke-risk-backend/internal/config"
	"github.com/neuralert/stroke-risk-backend/internal/database"
	"github.com/neuralert/stroke-risk-backend/internal/httperr"
	"github.com/neuralert/stroke-risk-backend/internal/logger"
	"github.com/neuralert/stroke-risk-backend/internal/prediction"
	"github.com/neuralert/stroke-risk-backend/internal/predictor"
	"github.com/neuralert/stroke-risk-backend/internal/user"
)

const apiVersion = "2.0.0"

// main wires dependencies and starts the HTTP server.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		stdlog.Fatalf("logger init failed: %v", err)
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	secret := []byte(cfg.JWTSecret)

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database unavailable", "error", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatal("migrations failed", "error", err)
	}

	bundle, err := predictor.LoadBundle(cfg.ModelPath)
	if err != nil {
		log.Fatal("model bundle load failed", "error", err)
	}
	pred := predictor.New(bundle, log)
	log.Info("model loaded",
		"name", bundle.ModelName,
		"version", bundle.ModelVersion,
		"features", len(bundle.FeatureNames),
		"source", bundle.Source)

	app := fiber.New(fiber.Config{
		AppName:      "stroke-risk-backend",
		ErrorHandler: httperr.Handler(log),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(requestLogger(log))

	userService := user.NewService(user.NewPostgresRepository(db), log)
	userHandler := user.NewHandler(userService, secret, log)

	predictionService := prediction.NewService(prediction.NewPostgresRepository(db), log)
	predictionHandler := prediction.NewHandler(predictionService, userService, pred, secret, log)

	registerSystemRoutes(app, db, pred, cfg.Env)
	userHandler.RegisterPublicRoutes(app)
	predictionHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: secret,
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return httperr.Unauthorized(c, "Authentication required")
		},
	}))

	userHandler.RegisterProtectedRoutes(app)
	predictionHandler.RegisterProtectedRoutes(app)

	// unmatched authenticated paths fall through to here
	app.Use(func(c *fiber.Ctx) error {
		return httperr.NotFound(c, "The requested endpoint does not exist")
	})

	if cfg.SeedDemoData {
		seedDemoData(userService, predictionService, pred, log)
	}

	log.Info("starting server", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

func registerSystemRoutes(app *fiber.App, db *sql.DB, pred *predictor.Predictor, env string) {
	app.Get("/", func(c *fiber.Ctx) error {
		dbStatus := "connected"
		if err := db.Ping(); err != nil {
			dbStatus = "disconnected"
		}
		return c.JSON(fiber.Map{
			"status":      "healthy",
			"service":     "Brain Stroke Risk Prediction API",
			"version":     apiVersion,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"database":    dbStatus,
			"environment": env,
		})
	})

	app.Get("/api/info", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"api_version": apiVersion,
			"database":    "PostgreSQL",
			"endpoints": fiber.Map{
				"/":                     "Health check",
				"/api/info":             "API information",
				"/api/auth/signup":      "User registration",
				"/api/auth/login":       "User authentication",
				"/api/auth/validate":    "Token validation",
				"/api/predict":          "Stroke risk prediction",
				"/api/history":          "Get prediction history",
				"/api/statistics":       "Get user statistics",
				"/api/predictions/<id>": "Delete specific prediction",
			},
			"model_info": pred.Info(),
		})
	})
}

func requestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Debug("request",
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start))
		return err
	}
}

// seedDemoData creates the demo account with two sample assessments so
// a fresh environment has something to show. Safe to run repeatedly.
func seedDemoData(users *user.Service, predictions *prediction.Service, pred *predictor.Predictor, log *logger.Logger) {
	demo, err := users.Register(user.User{
		Name:  "Demo User",
		Email: "demo@strokeprediction.com",
	}, "demo123")
	if err != nil {
		if err != user.ErrEmailExists {
			log.Warn("demo seeding skipped", "error", err)
		}
		return
	}

	samples := []predictor.Patient{
		{
			Age: 28, Gender: "Female", EverMarried: "Yes", WorkType: "Private",
			ResidenceType: "Urban", AvgGlucoseLevel: 85.5, BMI: 22.3,
			SmokingStatus: "never smoked", AlcoholConsumption: "Occasionally",
		},
		{
			Age: 52, Gender: "Male", Hypertension: true, EverMarried: "Yes",
			WorkType: "Govt_job", ResidenceType: "Rural", AvgGlucoseLevel: 140.2,
			BMI: 28.7, SmokingStatus: "formerly smoked", FamilyHistoryStroke: true,
			AlcoholConsumption: "Regularly",
		},
	}
	for _, patient := range samples {
		result := pred.Predict(patient)
		if _, err := predictions.Save(demo.ID, uuid.NewString(), patient, result); err != nil {
			log.Warn("demo prediction seeding failed", "error", err)
		}
	}
	log.Info("demo data seeded", "user_id", demo.ID)
}
