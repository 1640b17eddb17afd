package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jobtrack/jobtrack/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	Auth      AuthConfig
	AI        AIConfig
	Importer  ImporterConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MinIOConfig holds the document blob store connection. An empty Endpoint
// disables document uploads.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// AuthConfig covers both the locally minted HS256 access tokens and the
// optional OIDC bearer mode (when Issuer is set, tokens are verified
// against the external provider instead).
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SignInLinkTTL   time.Duration
	OIDCIssuer      string
	OIDCClientID    string
}

// AIConfig selects the generation provider once at startup.
// Provider is one of: openai | anthropic | local.
type AIConfig struct {
	Provider   string
	APIKey     string
	Model      string
	ExtractURL string
}

// ImporterConfig configures the URL import heuristic and job search client.
type ImporterConfig struct {
	ParseAPIURL string
	ReaderBase  string
	SearchURL   string
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_DATABASE", "jobtrack")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("JWT_ACCESS_TOKEN_TTL", 15)
	viper.SetDefault("JWT_REFRESH_TOKEN_TTL", 10080)
	viper.SetDefault("SIGNIN_LINK_TTL", 15)
	viper.SetDefault("MINIO_BUCKET", "jobtrack-documents")
	viper.SetDefault("AI_PROVIDER", "local")
	viper.SetDefault("READER_BASE_URL", "https://r.jina.ai")
	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("JWT_SECRET"),
			AccessTokenTTL:  time.Duration(viper.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
			RefreshTokenTTL: time.Duration(viper.GetInt("JWT_REFRESH_TOKEN_TTL")) * time.Minute,
			SignInLinkTTL:   time.Duration(viper.GetInt("SIGNIN_LINK_TTL")) * time.Minute,
			OIDCIssuer:      viper.GetString("OIDC_ISSUER"),
			OIDCClientID:    viper.GetString("OIDC_CLIENT_ID"),
		},
		AI: AIConfig{
			Provider:   viper.GetString("AI_PROVIDER"),
			APIKey:     os.Getenv("AI_API_KEY"),
			Model:      viper.GetString("AI_MODEL"),
			ExtractURL: viper.GetString("EXTRACT_API_URL"),
		},
		Importer: ImporterConfig{
			ParseAPIURL: viper.GetString("PARSE_API_URL"),
			ReaderBase:  viper.GetString("READER_BASE_URL"),
			SearchURL:   viper.GetString("JOB_SEARCH_URL"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	// Basic validation
	if cfg.Auth.JWTSecret == "" && cfg.Auth.OIDCIssuer == "" {
		logger.Warn("JWT_SECRET is not set; set a secure value in production")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode.
// Sign-in links are only echoed back to the caller in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}
