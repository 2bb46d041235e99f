package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
)

// Config is loaded once at startup. Secrets have no fallback values:
// a missing secret is a startup error, not a silent default.
type Config struct {
	AppEnv     string
	Port       int
	AppBaseURL string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	JWTSecret         string
	MaintenanceAPIKey string

	PaymentStoreID       int
	PaymentAuthKey       string
	PaymentAPIURL        string
	PaymentMode          string
	PaymentWebhookSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	ShippingFlatCents int64
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "production"),
		Port:       cast.ToInt(getEnv("PORT", "8080")),
		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		MaintenanceAPIKey: os.Getenv("MAINTENANCE_API_KEY"),

		PaymentStoreID:       cast.ToInt(os.Getenv("PAYMENT_STORE_ID")),
		PaymentAuthKey:       os.Getenv("PAYMENT_AUTH_KEY"),
		PaymentAPIURL:        os.Getenv("PAYMENT_API_URL"),
		PaymentMode:          getEnv("PAYMENT_MODE", "live"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     cast.ToInt(getEnv("SMTP_PORT", "587")),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@veloracart.com"),

		ShippingFlatCents: cast.ToInt64(getEnv("SHIPPING_FLAT_CENTS", "0")),
	}

	var missing []string
	for name, val := range map[string]string{
		"JWT_SECRET":             cfg.JWTSecret,
		"MAINTENANCE_API_KEY":    cfg.MaintenanceAPIKey,
		"PAYMENT_AUTH_KEY":       cfg.PaymentAuthKey,
		"PAYMENT_API_URL":        cfg.PaymentAPIURL,
		"PAYMENT_WEBHOOK_SECRET": cfg.PaymentWebhookSecret,
	} {
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if cfg.DatabaseURL == "" && cfg.DBHost == "" {
		return nil, fmt.Errorf("database not configured: set DATABASE_URL or DB_HOST")
	}

	return cfg, nil
}

// DSN builds the postgres connection string from either DATABASE_URL or
// the discrete DB_* variables.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
