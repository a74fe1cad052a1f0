package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr       string
	CORSOrigin string
	// Database: "sqlite" (default) or "postgres"
	DBDriver    string
	DatabaseURL string
	// Redis change feed; empty keeps live updates in process
	RedisURL string
	// AI gateway
	AIGatewayURL     string
	AIGatewayKey     string
	AIGatewayTimeout time.Duration
	// Cognito
	AWSRegion           string
	CognitoUserPoolID   string
	CognitoClientID     string
	CognitoClientSecret string
	// Shared HS256 secret; when set it replaces Cognito JWKS verification
	JWTSecret string
	// Calendar days are computed in this zone
	Timezone string
}

func Load() Config {
	return Config{
		Addr:                getenv("API_ADDR", ":6060"),
		CORSOrigin:          getenv("CORS_ORIGIN", "*"),
		DBDriver:            getenv("DB_DRIVER", "sqlite"),
		DatabaseURL:         getenv("DATABASE_URL", "./database.db"),
		RedisURL:            getenv("REDIS_URL", ""),
		AIGatewayURL:        getenv("AI_GATEWAY_URL", "http://localhost:3001"),
		AIGatewayKey:        getenv("AI_GATEWAY_KEY", ""),
		AIGatewayTimeout:    time.Duration(getenvInt("AI_GATEWAY_TIMEOUT_SECONDS", 10)) * time.Second,
		AWSRegion:           getenv("AWS_REGION", "eu-central-1"),
		CognitoUserPoolID:   getenv("COGNITO_USER_POOL_ID", ""),
		CognitoClientID:     getenv("COGNITO_CLIENT_ID", ""),
		CognitoClientSecret: getenv("COGNITO_CLIENT_SECRET", ""),
		JWTSecret:           getenv("JWT_SECRET", ""),
		Timezone:            getenv("LIFEMATE_TIMEZONE", "Europe/Vienna"),
	}
}

// Location resolves Timezone, falling back to UTC when the zone is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
