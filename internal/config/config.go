package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all runtime configuration for the server
type AppConfig struct {
	Port              string
	LogLevel          string
	DatabasePath      string
	JWTSecret         string
	AccessTokenExpiry time.Duration

	// Simulated payment gateway latency; the settlement delay the flows
	// observe while in their processing step.
	GatewayLatency time.Duration

	// Abandoned flows are evicted from the registry after this long.
	FlowTTL time.Duration

	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// Starting wallet balance issued with a mock identity, in naira.
	StartingBalance int64
}

var Cfg *AppConfig

// LoadConfig reads configuration from the environment, falling back to
// development defaults. A .env file is honoured when present.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found. Relying on OS environment variables and defaults.")
	}

	jwtSecret := getEnv("JWT_SECRET", "loopital-dev-secret-do-not-use-in-production-32b")
	if jwtSecret == "loopital-dev-secret-do-not-use-in-production-32b" {
		log.Println("WARNING: Using default insecure JWT_SECRET. Set JWT_SECRET environment variable for production.")
	}

	accessTokenExpiry, err := time.ParseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "60m"))
	if err != nil {
		log.Printf("WARNING: Invalid ACCESS_TOKEN_EXPIRY format. Using default 60m. Error: %v", err)
		accessTokenExpiry = 60 * time.Minute
	}

	gatewayLatency, err := time.ParseDuration(getEnv("GATEWAY_LATENCY", "2s"))
	if err != nil {
		log.Printf("WARNING: Invalid GATEWAY_LATENCY format. Using default 2s. Error: %v", err)
		gatewayLatency = 2 * time.Second
	}

	flowTTL, err := time.ParseDuration(getEnv("FLOW_TTL", "15m"))
	if err != nil {
		log.Printf("WARNING: Invalid FLOW_TTL format. Using default 15m. Error: %v", err)
		flowTTL = 15 * time.Minute
	}

	geminiTimeout, err := time.ParseDuration(getEnv("GEMINI_TIMEOUT", "20s"))
	if err != nil {
		log.Printf("WARNING: Invalid GEMINI_TIMEOUT format. Using default 20s. Error: %v", err)
		geminiTimeout = 20 * time.Second
	}

	startingBalance, err := strconv.ParseInt(getEnv("STARTING_BALANCE", "15400000"), 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid STARTING_BALANCE format. Using default 15400000. Error: %v", err)
		startingBalance = 15400000
	}

	Cfg = &AppConfig{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabasePath:      getEnv("DATABASE_PATH", "./loopital.db"),
		JWTSecret:         jwtSecret,
		AccessTokenExpiry: accessTokenExpiry,
		GatewayLatency:    gatewayLatency,
		FlowTTL:           flowTTL,
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiTimeout:     geminiTimeout,
		StartingBalance:   startingBalance,
	}
	log.Println("Application configuration loaded.")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
