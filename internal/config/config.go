package config

import "os"

type Config struct {
	Addr         string
	Env          string
	DatabaseURL  string
	JWTSecret    string
	ModelPath    string
	AllowOrigins string
	SeedDemoData bool
}

func Load() Config {
	return Config{
		Addr:         getenv("ADDR", ":8080"),
		Env:          getenv("APP_ENV", "development"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		ModelPath:    os.Getenv("MODEL_PATH"),
		AllowOrigins: getenv("ALLOW_ORIGINS", "*"),
		SeedDemoData: os.Getenv("SEED_DEMO_DATA") == "1",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
