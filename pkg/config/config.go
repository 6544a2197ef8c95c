package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	OpenAI   OpenAIConfig
	Upload   UploadConfig
	Storage  StorageConfig
	Auth     AuthConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"meeting_minutes"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	AccessSecret string        `envconfig:"JWT_ACCESS_SECRET" default:"your-access-secret-change-in-production"`
	AccessExpiry time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"168h"`
}

// OpenAIConfig holds speech-to-text and summarization provider settings.
// APIKey has no default on purpose: the process must refuse to start
// without it.
type OpenAIConfig struct {
	APIKey              string        `envconfig:"OPENAI_API_KEY"`
	BaseURL             string        `envconfig:"OPENAI_API_URL" default:"https://api.openai.com"`
	WhisperModel        string        `envconfig:"WHISPER_MODEL" default:"whisper-1"`
	ChatModel           string        `envconfig:"CHAT_MODEL" default:"gpt-4o"`
	Language            string        `envconfig:"TRANSCRIBE_LANGUAGE" default:"zh"`
	TranscribeTimeout   time.Duration `envconfig:"TRANSCRIBE_TIMEOUT" default:"120s"`
	SummarizeTimeout    time.Duration `envconfig:"SUMMARIZE_TIMEOUT" default:"60s"`
	TranscriptCharLimit int           `envconfig:"TRANSCRIPT_CHAR_LIMIT" default:"12000"`
}

// UploadConfig holds upload validation settings
type UploadConfig struct {
	MaxUploadMB       int64    `envconfig:"MAX_UPLOAD_MB" default:"25"`
	AllowedExtensions []string `envconfig:"ALLOWED_EXTENSIONS" default:"mp3,mp4,mpeg,mpga,m4a,wav,webm"`
	TempDir           string   `envconfig:"UPLOAD_TEMP_DIR" default:""`
}

// StorageConfig holds optional audio archival settings (MinIO)
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meeting-minutes"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// AuthConfig selects the identity resolution strategy: "token" for
// session tokens, "header" for trusted X-User-Id in service-to-service
// mode.
type AuthConfig struct {
	Mode string `envconfig:"AUTH_MODE" default:"token"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Auth.Mode != "token" && c.Auth.Mode != "header" {
		return fmt.Errorf("AUTH_MODE must be \"token\" or \"header\", got %q", c.Auth.Mode)
	}
	if c.Upload.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// MaxUploadBytes returns the upload size limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.Upload.MaxUploadMB * 1024 * 1024
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
