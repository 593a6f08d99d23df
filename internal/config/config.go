package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Editor   EditorConfig
	Keys     APIKeys
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type EditorConfig struct {
	ShareImageBaseURL        string
	SaveTopic                string
	ResolveTimeout           time.Duration
	SaveDebounce             time.Duration
	SessionTTL               time.Duration
	LinkCacheTTL             time.Duration
	CitationLiteralThreshold int
}

type APIKeys struct {
	JWTSecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Editor: EditorConfig{
			ShareImageBaseURL:        getEnv("EDITOR_SHARE_IMAGE_BASE_URL", "https://pecha.org/api/v1/share/image"),
			SaveTopic:                getEnv("EDITOR_SAVE_TOPIC", "SAVE_SHEET_CONTENT"),
			ResolveTimeout:           getEnvAsDuration("EDITOR_RESOLVE_TIMEOUT", 5*time.Second),
			SaveDebounce:             getEnvAsDuration("EDITOR_SAVE_DEBOUNCE", 2*time.Second),
			SessionTTL:               getEnvAsDuration("EDITOR_SESSION_TTL", time.Hour),
			LinkCacheTTL:             getEnvAsDuration("EDITOR_LINK_CACHE_TTL", 24*time.Hour),
			CitationLiteralThreshold: getEnvAsInt("EDITOR_CITATION_LITERAL_THRESHOLD", 15),
		},
		Keys: APIKeys{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("750ms", "2s").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}
