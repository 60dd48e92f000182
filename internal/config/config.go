package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	DB      DBConfig
	S3      S3Config
	Auth    AuthConfig
	Extract ExtractConfig
	CORS    CORSConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// StoreConfig selects the record store driver.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // memory | postgres
}

// DBConfig holds PostgreSQL connection settings (postgres store driver only).
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds document storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// AuthConfig holds login and JWT signing settings.
type AuthConfig struct {
	Password           string        `mapstructure:"password"`
	JWTSecret          string        `mapstructure:"jwt_secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// ExtractConfig holds LLM extraction provider settings.
type ExtractConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the SMARTINVOICE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SMARTINVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Store defaults
	v.SetDefault("store.driver", "memory")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "smartinvoice")
	v.SetDefault("db.password", "smartinvoice_secret")
	v.SetDefault("db.name", "smartinvoice_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "smartinvoice-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// Auth defaults
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.access_expiry", "15m")
	v.SetDefault("auth.refresh_expiry", "168h")
	v.SetDefault("auth.issuer", "smartinvoice")

	// Extraction defaults
	v.SetDefault("extract.provider", "gemini")
	v.SetDefault("extract.api_key", "")
	v.SetDefault("extract.default_model", "")
	v.SetDefault("extract.max_retries", 2)
	v.SetDefault("extract.timeout_secs", 120)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":           "SMARTINVOICE_SERVER_PORT",
		"server.read_timeout":   "SMARTINVOICE_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "SMARTINVOICE_SERVER_WRITE_TIMEOUT",
		"server.environment":    "SMARTINVOICE_SERVER_ENVIRONMENT",
		"store.driver":          "SMARTINVOICE_STORE_DRIVER",
		"db.host":               "SMARTINVOICE_DB_HOST",
		"db.port":               "SMARTINVOICE_DB_PORT",
		"db.user":               "SMARTINVOICE_DB_USER",
		"db.password":           "SMARTINVOICE_DB_PASSWORD",
		"db.name":               "SMARTINVOICE_DB_NAME",
		"db.sslmode":            "SMARTINVOICE_DB_SSLMODE",
		"db.max_open":           "SMARTINVOICE_DB_MAX_OPEN",
		"db.max_idle":           "SMARTINVOICE_DB_MAX_IDLE",
		"s3.region":             "SMARTINVOICE_S3_REGION",
		"s3.bucket":             "SMARTINVOICE_S3_BUCKET",
		"s3.endpoint":           "SMARTINVOICE_S3_ENDPOINT",
		"s3.access_key":         "SMARTINVOICE_S3_ACCESS_KEY",
		"s3.secret_key":         "SMARTINVOICE_S3_SECRET_KEY",
		"s3.max_file_size_mb":   "SMARTINVOICE_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":     "SMARTINVOICE_S3_PRESIGN_EXPIRY",
		"auth.password":         "SMARTINVOICE_AUTH_PASSWORD",
		"auth.jwt_secret":       "SMARTINVOICE_AUTH_JWT_SECRET",
		"auth.access_expiry":    "SMARTINVOICE_AUTH_ACCESS_EXPIRY",
		"auth.refresh_expiry":   "SMARTINVOICE_AUTH_REFRESH_EXPIRY",
		"auth.issuer":           "SMARTINVOICE_AUTH_ISSUER",
		"extract.provider":      "SMARTINVOICE_EXTRACT_PROVIDER",
		"extract.api_key":       "SMARTINVOICE_EXTRACT_API_KEY",
		"extract.default_model": "SMARTINVOICE_EXTRACT_DEFAULT_MODEL",
		"extract.max_retries":   "SMARTINVOICE_EXTRACT_MAX_RETRIES",
		"extract.timeout_secs":  "SMARTINVOICE_EXTRACT_TIMEOUT_SECS",
		"cors.allowed_origins":  "SMARTINVOICE_CORS_ALLOWED_ORIGINS",
		"log.level":             "SMARTINVOICE_LOG_LEVEL",
		"log.format":            "SMARTINVOICE_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SMARTINVOICE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SMARTINVOICE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Store = StoreConfig{
		Driver: v.GetString("store.driver"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Auth = AuthConfig{
		Password:           v.GetString("auth.password"),
		JWTSecret:          v.GetString("auth.jwt_secret"),
		AccessTokenExpiry:  v.GetDuration("auth.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("auth.refresh_expiry"),
		Issuer:             v.GetString("auth.issuer"),
	}
	cfg.Extract = ExtractConfig{
		Provider:     v.GetString("extract.provider"),
		APIKey:       v.GetString("extract.api_key"),
		DefaultModel: v.GetString("extract.default_model"),
		MaxRetries:   v.GetInt("extract.max_retries"),
		TimeoutSecs:  v.GetInt("extract.timeout_secs"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
