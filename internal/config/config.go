package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every externally supplied setting, read once at startup and
// passed into constructors instead of being pulled from the environment at
// request time.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string

	JWTSecret   string
	JWTExpires  time.Duration
	CookieLife  time.Duration
	FrontendURL string

	Minio MinioConfig

	TextbeltKey string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	return Config{
		Port:          getEnv("API_PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "hospital_management"),
		JWTSecret:     os.Getenv("JWT_SECRET_KEY"),
		JWTExpires:    time.Duration(getEnvInt("JWT_EXPIRES_DAYS", 7)) * 24 * time.Hour,
		CookieLife:    time.Duration(getEnvInt("COOKIE_EXPIRE_DAYS", 7)) * 24 * time.Hour,
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "doctor-avatars"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		TextbeltKey: os.Getenv("TEXTBELT_API_KEY"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
