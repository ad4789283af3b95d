package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Transaction engine retry policy: how many times a conditional write is
	// retried after an optimistic-lock conflict, and the pause in between.
	TxnMaxRetries   int
	TxnRetryBackoff time.Duration

	// LoginRateLimit is a limiter format string like "10-M" (10 per minute).
	LoginRateLimit string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "eagle-bank-api")
	viper.SetDefault("TXN_MAX_RETRIES", 3)
	viper.SetDefault("TXN_RETRY_BACKOFF", "100ms")
	viper.SetDefault("LOGIN_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.TxnMaxRetries = viper.GetInt("TXN_MAX_RETRIES")
	if cfg.TxnMaxRetries <= 0 {
		cfg.TxnMaxRetries = 3
		log.Printf("Warning: TXN_MAX_RETRIES must be positive. Defaulting to %d.\n", cfg.TxnMaxRetries)
	}

	backoffStr := viper.GetString("TXN_RETRY_BACKOFF")
	backoff, err := time.ParseDuration(backoffStr)
	if err != nil || backoff < 0 {
		backoff = 100 * time.Millisecond
		log.Printf("Warning: Invalid value for TXN_RETRY_BACKOFF (%q). Defaulting to %s.\n", backoffStr, backoff)
	}
	cfg.TxnRetryBackoff = backoff

	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	return cfg, nil
}
