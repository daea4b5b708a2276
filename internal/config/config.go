package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config reúne tudo que vem do ambiente. Integrações com valor vazio
// ficam desligadas; o servidor sobe só com o armazenamento local.
type Config struct {
	Port    string
	DataDir string

	CRMAPIURL       string
	SupabaseURL     string
	SupabaseAnonKey string
	DatabaseURL     string

	RedisURL string
	CacheTTL time.Duration

	RabbitMQURL string

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	AlertEmail string
}

func Load() Config {
	godotenv.Load()

	return Config{
		Port:            getEnv("PORT", "8080"),
		DataDir:         getEnv("DATA_DIR", "data"),
		CRMAPIURL:       os.Getenv("CRM_API_URL"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        getEnvInt("SMTP_PORT", 587),
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPass:        os.Getenv("SMTP_PASS"),
		AlertEmail:      os.Getenv("ALERT_EMAIL"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
