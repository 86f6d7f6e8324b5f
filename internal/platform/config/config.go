// Package config loads process configuration from the environment. A .env file
// in the working directory is read first when present; real environment
// variables always win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	AdminToken      string
	LogLevel        string
	LogFormat       string
}

// RedisConfig configures the one-time code store. An empty URL selects the
// in-memory store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig configures Postgres. An empty URL selects in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	TxTimeout       time.Duration
}

// KafkaConfig configures the notification publisher. No brokers selects the
// log-only notifier.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ResumeConfig governs save-and-resume codes and applicant sessions.
type ResumeConfig struct {
	SigningKey     string
	SessionTTL     time.Duration
	OTPTTL         time.Duration
	OTPMaxAttempts int
}

// RulesConfig holds the tunable business thresholds.
type RulesConfig struct {
	MatureEntryAge int
	MaxUploadBytes int64
	FeeIndividual  decimal.Decimal
	FeeOrg         decimal.Decimal
	FeeCurrency    string
}

// PaymentConfig configures the hosted payment gateway.
type PaymentConfig struct {
	InitiateURL    string
	IntegrationID  string
	IntegrationKey string
	ReturnURL      string
	CallbackURL    string
	Timeout        time.Duration
}

// BlobConfig points at the directory holding uploaded file bytes. Empty uses
// an in-memory store.
type BlobConfig struct {
	Dir string
}

// Config is the full process configuration.
type Config struct {
	Server   Server
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Resume   ResumeConfig
	Rules    RulesConfig
	Payment  PaymentConfig
	Blob     BlobConfig
}

const devSigningKey = "dev-resume-signing-key-change-in-production"

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	feeInd, err := decimalEnv("FEE_INDIVIDUAL", "50.00")
	if err != nil {
		return Config{}, err
	}
	feeOrg, err := decimalEnv("FEE_ORGANIZATION", "150.00")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server: Server{
			Addr:            stringEnv("AGENTREG_ADDR", ":8080"),
			ShutdownTimeout: durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
			AdminToken:      os.Getenv("ADMIN_API_TOKEN"),
			LogLevel:        stringEnv("LOG_LEVEL", "info"),
			LogFormat:       stringEnv("LOG_FORMAT", "json"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    intEnv("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    intEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: durationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			TxTimeout:       durationEnv("DB_TX_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: listEnv("KAFKA_BROKERS"),
			Topic:   stringEnv("KAFKA_NOTIFICATIONS_TOPIC", "agentreg.notifications"),
		},
		Resume: ResumeConfig{
			SigningKey:     stringEnv("RESUME_SIGNING_KEY", devSigningKey),
			SessionTTL:     durationEnv("RESUME_SESSION_TTL", 2*time.Hour),
			OTPTTL:         durationEnv("RESUME_OTP_TTL", 30*time.Minute),
			OTPMaxAttempts: intEnv("RESUME_OTP_MAX_ATTEMPTS", 3),
		},
		Rules: RulesConfig{
			MatureEntryAge: intEnv("MATURE_ENTRY_AGE", 27),
			MaxUploadBytes: int64(intEnv("MAX_UPLOAD_BYTES", 20<<20)),
			FeeIndividual:  feeInd,
			FeeOrg:         feeOrg,
			FeeCurrency:    stringEnv("FEE_CURRENCY", "USD"),
		},
		Payment: PaymentConfig{
			InitiateURL:    stringEnv("PAYMENT_INITIATE_URL", "https://www.paynow.co.zw/interface/initiatetransaction"),
			IntegrationID:  os.Getenv("PAYMENT_INTEGRATION_ID"),
			IntegrationKey: os.Getenv("PAYMENT_INTEGRATION_KEY"),
			ReturnURL:      os.Getenv("PAYMENT_RETURN_URL"),
			CallbackURL:    os.Getenv("PAYMENT_CALLBACK_URL"),
			Timeout:        durationEnv("PAYMENT_TIMEOUT", 10*time.Second),
		},
		Blob: BlobConfig{
			Dir: os.Getenv("BLOB_DIR"),
		},
	}

	if cfg.Resume.SigningKey == devSigningKey && os.Getenv("AGENTREG_ENV") == "production" {
		return Config{}, fmt.Errorf("RESUME_SIGNING_KEY must be set in production")
	}
	if cfg.Resume.OTPMaxAttempts <= 0 {
		return Config{}, fmt.Errorf("RESUME_OTP_MAX_ATTEMPTS must be positive")
	}
	return cfg, nil
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func durationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func listEnv(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func decimalEnv(key, def string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(stringEnv(key, def))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
