package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	ServerAddr string
	PublicURL  string // Base URL handed to pop-out mirrors, e.g. http://localhost:8080

	JWTSecret         string
	OwnerPasswordHash string // bcrypt hash; empty leaves the owner API open
	TokenTTL          time.Duration

	// Pop-out window geometry. The window is centered on a ScreenWidth x ScreenHeight screen.
	PopoutWidth  int
	PopoutHeight int
	ScreenWidth  int
	ScreenHeight int
	MaxPopouts   int

	DefaultBackground string
	PlaceholderCover  string
	DefaultVolume     float64

	LibraryDir     string // Directory scanned and watched for mp3 files
	UploadDir      string
	StaticDir      string // Covers, backgrounds and other assets served at /
	StorageBackend string // local or minio

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	RecentBackend string // memory or redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	AudioOutput        string // speaker or null
	TimeUpdateInterval time.Duration

	LogLevel      string
	LogFile       string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() does not override variables that are already set.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() *Config {
	uploadBase := getEnv("UPLOAD_DIR", "uploads")
	addr := getEnv("SERVER_ADDR", ":8080")

	return &Config{
		ServerAddr: addr,
		PublicURL:  getEnv("PUBLIC_URL", "http://localhost"+addr),

		JWTSecret:         getEnv("JWT_SECRET", "winamp7-dev-secret"),
		OwnerPasswordHash: os.Getenv("OWNER_PASSWORD_HASH"),
		TokenTTL:          getEnvDuration("TOKEN_TTL", 24*time.Hour),

		PopoutWidth:  getEnvInt("POPOUT_WIDTH", 400),
		PopoutHeight: getEnvInt("POPOUT_HEIGHT", 600),
		ScreenWidth:  getEnvInt("SCREEN_WIDTH", 1920),
		ScreenHeight: getEnvInt("SCREEN_HEIGHT", 1080),
		MaxPopouts:   getEnvInt("MAX_POPOUTS", 1),

		DefaultBackground: getEnv("DEFAULT_BACKGROUND", "/backgrounds/windows7-default.jpg"),
		PlaceholderCover:  getEnv("PLACEHOLDER_COVER", "/placeholder.svg?height=200&width=200"),
		DefaultVolume:     getEnvFloat("DEFAULT_VOLUME", 0.7),

		LibraryDir:     getEnv("LIBRARY_DIR", "music"),
		UploadDir:      uploadBase,
		StaticDir:      getEnv("STATIC_DIR", "public"),
		StorageBackend: getEnv("STORAGE_BACKEND", "local"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "winamp7"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		RecentBackend: getEnv("RECENT_BACKEND", "memory"),
		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AudioOutput:        getEnv("AUDIO_OUTPUT", "null"),
		TimeUpdateInterval: getEnvDuration("TIME_UPDATE_INTERVAL", 250*time.Millisecond),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", filepath.Join("logs", "winamp7.log")),
		LogMaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvInt("LOG_MAX_AGE", 28),
	}
}
