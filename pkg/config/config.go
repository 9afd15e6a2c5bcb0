package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	AI        AIConfig
	Storage   StorageConfig
	NATS      NATSConfig
	SMS       SMSConfig
	Tracing   TracingConfig
	Sentry    SentryConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
	Secrets   SecretsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Environment    string
	ServiceName    string
	Version        string
	ReadTimeout    int
	WriteTimeout   int
	CORSOrigins    string // Comma-separated list of allowed origins
	MaxUploadBytes int64
	LogLevel       string // debug, info, warn or error; empty picks by environment
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // postgres, sqlite or memory
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	MaxConns   int
	MinConns   int
	SQLitePath string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// AIConfig holds configuration for the language model provider
type AIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// StorageConfig holds receipt image storage configuration
type StorageConfig struct {
	Provider  string // s3 or local
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	BaseURL   string
	LocalPath string
}

// NATSConfig holds event bus configuration
type NATSConfig struct {
	URL     string
	Enabled bool
}

// SMSConfig holds Twilio configuration
type SMSConfig struct {
	Enabled    bool
	AccountSID string
	AuthToken  string
	FromNumber string
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRate   float64
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN string
}

// RateLimitConfig holds rate limiting for the analysis endpoints
type RateLimitConfig struct {
	Enabled       bool
	Limit         int
	WindowSeconds int
	RedisPrefix   string
}

// SeedConfig controls demo data loading
type SeedConfig struct {
	DemoData bool
}

// SecretsConfig points credentials at an external secrets backend.
// Each reference has the form [provider://]path[@version]#key.
type SecretsConfig struct {
	Provider           string // vault, aws, gcp, kubernetes or empty
	CacheTTLSeconds    int
	VaultAddress       string
	VaultToken         string
	VaultNamespace     string
	VaultMount         string
	AWSRegion          string
	AWSEndpoint        string
	GCPProjectID       string
	GCPCredentialsFile string
	MountPath          string
	Refs               SecretRefs
}

// SecretRefs names the secret holding each credential. Empty means keep the env value.
type SecretRefs struct {
	DatabasePassword string
	RedisPassword    string
	OpenAIAPIKey     string
	TwilioAuthToken  string
	StorageSecretKey string
	SentryDSN        string
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			ServiceName:    serviceName,
			Version:        getEnv("SERVICE_VERSION", "1.0.0"),
			ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 30),
			WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 30),
			CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:5173"),
			MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_MB", 10)) * 1024 * 1024,
			LogLevel:       getEnv("LOG_LEVEL", ""),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "memory"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "postgres"),
			DBName:     getEnv("DB_NAME", "backoffice"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			MaxConns:   getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:   getEnvAsInt("DB_MIN_CONNS", 5),
			SQLitePath: getEnv("SQLITE_PATH", "./dev.db"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		AI: AIConfig{
			APIKey:         firstEnv("OPENAI_API_KEY", "OPENAI_KEY"),
			BaseURL:        getEnv("OPENAI_BASE_URL", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o"),
			TimeoutSeconds: getEnvAsInt("AI_TIMEOUT_SECONDS", 30),
		},
		Storage: StorageConfig{
			Provider:  getEnv("STORAGE_PROVIDER", "local"),
			Bucket:    getEnv("STORAGE_BUCKET", "receipts"),
			Region:    getEnv("STORAGE_REGION", "us-east-1"),
			Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			BaseURL:   getEnv("STORAGE_BASE_URL", ""),
			LocalPath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnvAsBool("NATS_ENABLED", false),
		},
		SMS: SMSConfig{
			Enabled:    getEnvAsBool("SMS_ENABLED", false),
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvAsBool("TRACING_ENABLED", false),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			SampleRate:   getEnvAsFloat("TRACING_SAMPLE_RATE", 0.1),
		},
		Sentry: SentryConfig{
			DSN: getEnv("SENTRY_DSN", ""),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", false),
			Limit:         getEnvAsInt("RATE_LIMIT_ANALYSIS", 30),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			RedisPrefix:   getEnv("RATE_LIMIT_PREFIX", "rl"),
		},
		Seed: SeedConfig{
			DemoData: getEnvAsBool("SEED_DEMO_DATA", false),
		},
		Secrets: SecretsConfig{
			Provider:           getEnv("SECRETS_PROVIDER", ""),
			CacheTTLSeconds:    getEnvAsInt("SECRETS_CACHE_TTL_SECONDS", 300),
			VaultAddress:       getEnv("VAULT_ADDR", ""),
			VaultToken:         getEnv("VAULT_TOKEN", ""),
			VaultNamespace:     getEnv("VAULT_NAMESPACE", ""),
			VaultMount:         getEnv("VAULT_MOUNT", "secret"),
			AWSRegion:          getEnv("SECRETS_AWS_REGION", getEnv("AWS_REGION", "")),
			AWSEndpoint:        getEnv("SECRETS_AWS_ENDPOINT", ""),
			GCPProjectID:       getEnv("GCP_PROJECT_ID", ""),
			GCPCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			MountPath:          getEnv("SECRETS_MOUNT_PATH", "/var/run/secrets/backoffice"),
			Refs: SecretRefs{
				DatabasePassword: getEnv("DB_PASSWORD_SECRET", ""),
				RedisPassword:    getEnv("REDIS_PASSWORD_SECRET", ""),
				OpenAIAPIKey:     getEnv("OPENAI_API_KEY_SECRET", ""),
				TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN_SECRET", ""),
				StorageSecretKey: getEnv("STORAGE_SECRET_KEY_SECRET", ""),
				SentryDSN:        getEnv("SENTRY_DSN_SECRET", ""),
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Storage.Provider {
	case "s3", "local":
	default:
		return fmt.Errorf("unsupported STORAGE_PROVIDER %q", c.Storage.Provider)
	}
	switch c.Secrets.Provider {
	case "", "vault", "aws", "gcp", "kubernetes":
	default:
		return fmt.Errorf("unsupported SECRETS_PROVIDER %q", c.Secrets.Provider)
	}
	return nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Timeout returns the per-call deadline for model requests
func (c *AIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Window returns the rate limit window
func (c RateLimitConfig) Window() time.Duration {
	if c.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.WindowSeconds) * time.Second
}

// CacheTTL returns how long fetched secrets are reused
func (c SecretsConfig) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// AllowedOrigins splits CORSOrigins into a list
func (c *ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
