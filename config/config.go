package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.0"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	Security    SecurityConfig
	Builder     BuilderConfig
	Tracing     TracingConfig
	Environment string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port int
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// StorageConfig points at the S3 compatible bucket holding media assets.
type StorageConfig struct {
	Endpoint       string
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	Prefix         string
	ForcePathStyle bool
}

type SecurityConfig struct {
	// JWTSecret verifies the HS256 bearer tokens of the console
	JWTSecret string
}

// BuilderConfig bounds the in-memory editor sessions and the media cache.
type BuilderConfig struct {
	SessionTTL     time.Duration
	MaxSessions    int
	MediaCacheSize int
	MediaCacheTTL  time.Duration
	MaxEmbedBytes  int64
	PreviewTimeout time.Duration
	DragActivation float64
	// MediaRateLimit is the number of media fetches per user and minute
	MediaRateLimit int
	MediaRateBurst int
}

type TracingConfig struct {
	Enabled             bool
	ServiceName         string
	SamplingProbability float64

	// TraceExporter is one of "jaeger", "zipkin", "xray" or "none"
	TraceExporter  string
	JaegerEndpoint string
	ZipkinEndpoint string
	XRayRegion     string

	// MetricsExporter is "prometheus" or "none". Prometheus metrics are
	// served on /metrics of the API server.
	MetricsExporter string
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "emailbuilder")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_FORCE_PATH_STYLE", false)

	v.SetDefault("BUILDER_SESSION_TTL", "2h")
	v.SetDefault("BUILDER_MAX_SESSIONS", 1000)
	v.SetDefault("BUILDER_MEDIA_CACHE_SIZE", 128)
	v.SetDefault("BUILDER_MEDIA_CACHE_TTL", "10m")
	v.SetDefault("BUILDER_MAX_EMBED_BYTES", 5*1024*1024)
	v.SetDefault("BUILDER_PREVIEW_TIMEOUT", "5s")
	v.SetDefault("BUILDER_DRAG_ACTIVATION", 5)
	v.SetDefault("BUILDER_MEDIA_RATE_LIMIT", 60)
	v.SetDefault("BUILDER_MEDIA_RATE_BURST", 10)

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "emailbuilder-api")
	v.SetDefault("TRACING_SAMPLING_PROBABILITY", 0.1)
	v.SetDefault("TRACING_TRACE_EXPORTER", "none")
	v.SetDefault("TRACING_JAEGER_ENDPOINT", "http://localhost:14268/api/traces")
	v.SetDefault("TRACING_ZIPKIN_ENDPOINT", "http://localhost:9411/api/v2/spans")
	v.SetDefault("TRACING_XRAY_REGION", "us-east-1")
	v.SetDefault("TRACING_METRICS_EXPORTER", "none")

	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	config := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Storage: StorageConfig{
			Endpoint:       v.GetString("STORAGE_ENDPOINT"),
			Region:         v.GetString("STORAGE_REGION"),
			Bucket:         v.GetString("STORAGE_BUCKET"),
			AccessKey:      v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:      v.GetString("STORAGE_SECRET_KEY"),
			Prefix:         v.GetString("STORAGE_PREFIX"),
			ForcePathStyle: v.GetBool("STORAGE_FORCE_PATH_STYLE"),
		},
		Security: SecurityConfig{
			JWTSecret: jwtSecret,
		},
		Builder: BuilderConfig{
			SessionTTL:     v.GetDuration("BUILDER_SESSION_TTL"),
			MaxSessions:    v.GetInt("BUILDER_MAX_SESSIONS"),
			MediaCacheSize: v.GetInt("BUILDER_MEDIA_CACHE_SIZE"),
			MediaCacheTTL:  v.GetDuration("BUILDER_MEDIA_CACHE_TTL"),
			MaxEmbedBytes:  v.GetInt64("BUILDER_MAX_EMBED_BYTES"),
			PreviewTimeout: v.GetDuration("BUILDER_PREVIEW_TIMEOUT"),
			DragActivation: v.GetFloat64("BUILDER_DRAG_ACTIVATION"),
			MediaRateLimit: v.GetInt("BUILDER_MEDIA_RATE_LIMIT"),
			MediaRateBurst: v.GetInt("BUILDER_MEDIA_RATE_BURST"),
		},
		Tracing: TracingConfig{
			Enabled:             v.GetBool("TRACING_ENABLED"),
			ServiceName:         v.GetString("TRACING_SERVICE_NAME"),
			SamplingProbability: v.GetFloat64("TRACING_SAMPLING_PROBABILITY"),
			TraceExporter:       v.GetString("TRACING_TRACE_EXPORTER"),
			JaegerEndpoint:      v.GetString("TRACING_JAEGER_ENDPOINT"),
			ZipkinEndpoint:      v.GetString("TRACING_ZIPKIN_ENDPOINT"),
			XRayRegion:          v.GetString("TRACING_XRAY_REGION"),
			MetricsExporter:     v.GetString("TRACING_METRICS_EXPORTER"),
		},
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	if config.Builder.MaxSessions <= 0 {
		return nil, fmt.Errorf("BUILDER_MAX_SESSIONS must be positive, got %d", config.Builder.MaxSessions)
	}

	return config, nil
}

// HasStorage reports whether a media bucket is configured.
func (c *Config) HasStorage() bool {
	return c.Storage.Bucket != ""
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
