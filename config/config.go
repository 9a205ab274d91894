// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every knob the server reads at startup.
type Config struct {
	Port string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	JWTSecret   string
	TokenTTL    time.Duration
	AdminAPIKey string
	CORSOrigins []string

	UploadsDir      string
	BackupDir       string
	BackupRetention time.Duration
	BackupHour      int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AuthRateRPS   int
	AuthRateBurst int

	UPIVPA       string
	UPIPayeeName string
	Currency     string
	ShippingFlat float64
	TaxRate      float64

	FirebaseCredentialsJSON string
	FirebaseProjectID       string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func listenv(key, def string) []string {
	var out []string
	for _, part := range strings.Split(getenv(key, def), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads .env when present, then the environment, applying defaults.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL: getenv("DATABASE_URL", ""),
		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBUser:      getenv("DB_USER", "postgres"),
		DBPassword:  getenv("DB_PASSWORD", ""),
		DBName:      getenv("DB_NAME", "lokrise"),

		JWTSecret:   getenv("JWT_SECRET", ""),
		TokenTTL:    time.Duration(atoienv("TOKEN_TTL_HOURS", 24)) * time.Hour,
		AdminAPIKey: getenv("ADMIN_API_KEY", ""),
		CORSOrigins: listenv("CORS_ORIGINS", "*"),

		UploadsDir:      getenv("UPLOADS_DIR", "./uploads"),
		BackupDir:       getenv("BACKUP_DIR", "./backup/uploads"),
		BackupRetention: time.Duration(atoienv("BACKUP_RETENTION_DAYS", 4)) * 24 * time.Hour,
		BackupHour:      atoienv("BACKUP_HOUR", 2),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       atoienv("REDIS_DB", 0),

		AuthRateRPS:   atoienv("AUTH_RATE_RPS", 5),
		AuthRateBurst: atoienv("AUTH_RATE_BURST", 10),

		UPIVPA:       getenv("UPI_VPA", ""),
		UPIPayeeName: getenv("UPI_PAYEE_NAME", "LokRise"),
		Currency:     getenv("CURRENCY", "INR"),
		ShippingFlat: floatenv("SHIPPING_FLAT", 50),
		TaxRate:      floatenv("TAX_RATE", 0.18),

		FirebaseCredentialsJSON: getenv("FIREBASE_CREDENTIALS_JSON", ""),
		FirebaseProjectID:       getenv("FIREBASE_PROJECT_ID", ""),
	}
}

// DSN is DATABASE_URL when set, otherwise a postgres keyword/value string.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

// FirebaseEnabled reports whether Google sign-in can be wired.
func (c Config) FirebaseEnabled() bool {
	return c.FirebaseCredentialsJSON != "" && c.FirebaseProjectID != ""
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.BackupHour < 0 || c.BackupHour > 23 {
		return fmt.Errorf("BACKUP_HOUR must be between 0 and 23, got %d", c.BackupHour)
	}
	return nil
}
