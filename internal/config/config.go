package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Sessions
	JWTSecret       string
	SessionTTLHours int

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiTimeoutSeconds int
	GeminiConcurrentReqs int

	// Persona
	FAQPath         string
	PersonaName     string
	PersonaService  string
	PersonaLanguage string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		DatabaseURL:          mustGetEnv("DATABASE_URL"),
		RedisURL:             mustGetEnv("REDIS_URL"),
		JWTSecret:            mustGetEnv("JWT_SECRET"),
		SessionTTLHours:      getEnvAsIntOrDefault("SESSION_TTL_HOURS", 168),
		GeminiAPIKey:         mustGetEnv("GEMINI_API_KEY"),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTimeoutSeconds: getEnvAsIntOrDefault("GEMINI_TIMEOUT_SECONDS", 60),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		FAQPath:              getEnvOrDefault("FAQ_PATH", ""),
		PersonaName:          getEnvOrDefault("PERSONA_NAME", "Arogga"),
		PersonaService:       getEnvOrDefault("PERSONA_SERVICE", "a medicine delivery service"),
		PersonaLanguage:      getEnvOrDefault("PERSONA_LANGUAGE", ""),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
