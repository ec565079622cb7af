package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is loaded once at startup. Every client handle (postgres, mongo,
// redis, storage, smtp) is constructed from it by the composition root;
// nothing reads the environment lazily after Load returns.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	PostgresURI string
	MongoURI    string
	MongoDB     string
	RedisAddr   string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	GCSBucket       string
	CredentialsFile string

	// Orchestration knobs.
	ResumeMinChars int
	SessionTimeout time.Duration
	ReapInterval   time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:      getenv("APP_ENV", "development"),
		Port:     getenv("PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		PostgresURI: os.Getenv("POSTGRES_URI"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     getenv("MONGO_DB", "voxhire"),
		RedisAddr:   firstenv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTIssuer:   os.Getenv("JWT_ISSUER"),
		JWTAudience: os.Getenv("JWT_AUDIENCE"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),

		GCSBucket:       os.Getenv("GCS_BUCKET"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		ResumeMinChars: 100,
		SessionTimeout: 30 * time.Minute,
		ReapInterval:   time.Minute,
	}

	cfg.SMTPPort = 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SMTP_PORT is not a number: %q", v)
		}
		cfg.SMTPPort = p
	}
	if v := os.Getenv("SESSION_TIMEOUT_MINUTES"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m <= 0 {
			return nil, fmt.Errorf("SESSION_TIMEOUT_MINUTES must be a positive number, got %q", v)
		}
		cfg.SessionTimeout = time.Duration(m) * time.Minute
	}

	required := map[string]string{
		"POSTGRES_URI": cfg.PostgresURI,
		"MONGO_URI":    cfg.MongoURI,
		"REDIS_ADDR":   cfg.RedisAddr,
		"JWT_SECRET":   cfg.JWTSecret,
		"SMTP_HOST":    cfg.SMTPHost,
		"SMTP_USER":    cfg.SMTPUser,
		"MAIL_FROM":    cfg.MailFrom,
		"GCS_BUCKET":   cfg.GCSBucket,
	}
	for name, val := range required {
		if val == "" {
			return nil, fmt.Errorf("%s environment variable is not set", name)
		}
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstenv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
