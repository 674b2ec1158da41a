package config

import (
	"os"
	"strconv"
)

// Storage backend selectors for AppConfig.StorageBackend.
const (
	StorageFilesystem = "fs"
	StorageS3         = "s3"
)

// MinIOConfig holds object storage settings for MinIO. Only read when
// STORAGE_BACKEND=s3.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	// AppHost is the bind address; empty means all interfaces.
	AppHost  string
	Port     string
	LogLevel string

	// UploadsDir is the blob root for the filesystem backend; files land
	// under <UploadsDir>/<tenant_id>/.
	UploadsDir string

	// UsersFile optionally points at a JSON user directory. Empty means
	// the built-in demo directory.
	UsersFile string

	// BodyLimitMB caps the request body size, uploads included.
	BodyLimitMB int

	StorageBackend string
	MinIO          MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", ""),
		Port:           getEnv("PORT", "8080"), // default only for non-sensitive value
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),
		UsersFile:      getEnv("USERS_FILE", ""),
		BodyLimitMB:    getEnvInt("BODY_LIMIT_MB", 32),
		StorageBackend: getEnv("STORAGE_BACKEND", StorageFilesystem),
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *AppConfig) ListenAddr() string {
	return c.AppHost + ":" + c.Port
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
