package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string
	LogMode string

	DBUser     string
	DBPassword string
	DBHost     string
	DBName     string
	DBMigrate  bool

	RedisAddr     string
	RedisPassword string

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string

	MailFrom   string
	AgencyName string
	Currency   string
}

// LoadEnv reads configuration from the process environment, loading a .env
// file first when one exists.
func LoadEnv() Env {
	_ = godotenv.Load()

	return Env{
		AppAddr: getEnv("APP_ADDR", ":8080"),
		GinMode: getEnv("GIN_MODE", ""),
		LogMode: getEnv("LOG_MODE", "development"),

		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "127.0.0.1:3306"),
		DBName:     getEnv("DB_NAME", "agence_voyage"),
		DBMigrate:  getBool("DB_MIGRATE", true),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		MailFrom:   getEnv("MAIL_FROM", "noreply@agence.local"),
		AgencyName: getEnv("AGENCY_NAME", "Agence de voyage"),
		Currency:   getEnv("CURRENCY", "TND"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
