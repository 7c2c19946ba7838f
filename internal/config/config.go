package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Archive backends
const (
	ArchiveDisk = "disk"
	ArchiveR2   = "r2"
	ArchiveOff  = "off"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port" validate:"required,numeric"`
	Env             string        `json:"env" validate:"required"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" validate:"gt=0"`
	HTTPTimeout     time.Duration `json:"http_timeout" validate:"gt=0"`
	StaticDir       string        `json:"static_dir"`

	// Site metadata
	SiteURL         string `json:"site_url" validate:"required,url"`
	SiteName        string `json:"site_name" validate:"required"`
	SiteTitle       string `json:"site_title"`
	SiteDescription string `json:"site_description"`
	SiteImage       string `json:"site_image"`

	// Sanity content store
	SanityProjectID  string        `json:"sanity_project_id" validate:"required,alphanum"`
	SanityDataset    string        `json:"sanity_dataset" validate:"required"`
	SanityAPIVersion string        `json:"sanity_api_version" validate:"required,datetime=2006-01-02"`
	SanityUseCDN     bool          `json:"sanity_use_cdn"`
	SanityToken      string        `json:"-"`
	SanityTimeout    time.Duration `json:"sanity_timeout" validate:"gt=0"`
	SanityRetries    int           `json:"sanity_retries" validate:"gte=0,lte=10"`

	// Redis render cache. An empty URL selects the in-memory cache.
	RedisURL    string        `json:"redis_url"`
	RedisPrefix string        `json:"redis_prefix"`
	CacheTTL    time.Duration `json:"cache_ttl" validate:"gt=0"`

	// Document archive
	ArchiveBackend string `json:"archive_backend" validate:"oneof=disk r2 off"`
	ArchivePath    string `json:"archive_path"`
	MaxFileSize    int64  `json:"max_file_size" validate:"gt=0"`

	// CloudFlare R2 Configuration
	R2Endpoint   string        `json:"r2_endpoint"`
	R2AccessKey  string        `json:"-"`
	R2SecretKey  string        `json:"-"`
	R2Bucket     string        `json:"r2_bucket"`
	R2AccountID  string        `json:"r2_account_id"`
	R2PresignTTL time.Duration `json:"r2_presign_ttl" validate:"gt=0"`

	// Logging
	LogLevel  string `json:"log_level" validate:"oneof=debug info warn error fatal panic disabled"`
	LogFile   string `json:"log_file"`
	LogPretty bool   `json:"log_pretty"`

	// Security
	RevalidateSecret string `json:"-"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// FromEnv builds a Config from the process environment without validating it.
func FromEnv() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		StaticDir:       getEnv("STATIC_DIR", "./web/static"),

		SiteURL:         getEnv("SITE_URL", "https://example.com"),
		SiteName:        getEnv("SITE_NAME", "Laj Ketz"),
		SiteTitle:       getEnv("SITE_TITLE", "Laj Ketz — Wake Up for the Jungle | News, Analysis & Action on Guatemala's Selva Maya"),
		SiteDescription: getEnv("SITE_DESCRIPTION", "Laj Ketz reports on the Selva Maya and Guatemala's wild places. Youth-friendly news, weekly analysis, and practical ways to help protect forests and wildlife."),
		SiteImage:       getEnv("SITE_IMAGE", ""),

		SanityProjectID:  getEnv("SANITY_PROJECT_ID", "a9nysmmt"),
		SanityDataset:    getEnv("SANITY_DATASET", "production"),
		SanityAPIVersion: getEnv("SANITY_API_VERSION", "2025-11-10"),
		SanityUseCDN:     getEnvAsBool("SANITY_USE_CDN", true),
		SanityToken:      getEnv("SANITY_TOKEN", ""),
		SanityTimeout:    getEnvAsDuration("SANITY_TIMEOUT", 10*time.Second),
		SanityRetries:    getEnvAsInt("SANITY_RETRIES", 2),

		RedisURL:    getEnv("REDIS_URL", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "lajketz:"),
		CacheTTL:    getEnvAsDuration("CACHE_TTL", time.Hour),

		ArchiveBackend: strings.ToLower(getEnv("ARCHIVE_BACKEND", ArchiveDisk)),
		ArchivePath:    getEnv("ARCHIVE_PATH", "./data/documents"),
		MaxFileSize:    getEnvAsInt64("MAX_FILE_SIZE", 25<<20), // 25MB

		R2Endpoint:   getEnv("R2_ENDPOINT", ""),
		R2AccessKey:  getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey:  getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:     getEnv("R2_BUCKET", "lajketz-documents"),
		R2AccountID:  getEnv("CLOUDFLARE_ACCOUNT_ID", ""),
		R2PresignTTL: getEnvAsDuration("R2_PRESIGN_TTL", 15*time.Minute),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:   getEnv("LOG_FILE", ""),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),

		RevalidateSecret: getEnv("REVALIDATE_SECRET", ""),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.ArchiveBackend == ArchiveR2 {
		if c.R2AccessKey == "" || c.R2SecretKey == "" {
			return fmt.Errorf("config: r2 archive requires R2_ACCESS_KEY and R2_SECRET_ACCESS_KEY")
		}
		if c.R2Endpoint == "" && c.R2AccountID == "" {
			return fmt.Errorf("config: r2 archive requires R2_ENDPOINT or CLOUDFLARE_ACCOUNT_ID")
		}
	}
	return nil
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// R2EndpointURL returns the S3-compatible endpoint for the configured account.
func (c *Config) R2EndpointURL() string {
	if c.R2Endpoint != "" {
		return c.R2Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.R2AccountID)
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsInt64(name string, defaultVal int64) int64 {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %t", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
