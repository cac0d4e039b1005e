package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string

	// Midtrans Snap settings. Mode "sandbox" skips webhook signature
	// verification and points at the sandbox endpoint.
	MidtransServerKey string
	MidtransBaseURL   string
	MidtransMode      string

	// Upstream for the address-form region proxy.
	RegionAPIBaseURL string
}

func Load() *Config {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "nesti"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransMode:      getEnv("MIDTRANS_MODE", "sandbox"),
		RegionAPIBaseURL:  getEnv("REGION_API_BASE_URL", "https://wilayah.id/api"),
	}

	defaultSnap := "https://app.sandbox.midtrans.com"
	if cfg.MidtransMode == "production" {
		defaultSnap = "https://app.midtrans.com"
	}
	cfg.MidtransBaseURL = getEnv("MIDTRANS_BASE_URL", defaultSnap)

	return cfg
}

// DSN builds the Postgres connection string, preferring DATABASE_URL when set.
func (c *Config) DSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
