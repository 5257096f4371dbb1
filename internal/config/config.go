package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/nfrund/portfolio/internal/domain"
)

// DefaultAPIVersion is the content API version used when none is configured.
const DefaultAPIVersion = "2026-01-14"

// Keys recognized by the resolver.
const (
	KeyProjectID      = "SANITY_PROJECT_ID"
	KeyDataset        = "SANITY_DATASET"
	KeyAPIVersion     = "SANITY_API_VERSION"
	KeyReadToken      = "SANITY_API_READ_TOKEN"
	KeyWriteToken     = "SANITY_API_WRITE_TOKEN"
	KeyWebhookSecret  = "SANITY_WEBHOOK_SECRET"
	KeyBlobToken      = "BLOB_READ_WRITE_TOKEN"
	KeyContentFile    = "CONTENT_FILE"
	KeyStudioUser     = "STUDIO_USER"
	KeyStudioPassword = "STUDIO_PASSWORD"

	// studioPrefix marks the standalone studio source.
	studioPrefix = "SANITY_STUDIO_"
)

// studioAliases maps a resolver key to its name in the standalone studio
// source. Server-only secrets have no studio alias.
var studioAliases = map[string]string{
	KeyProjectID:  studioPrefix + "PROJECT_ID",
	KeyDataset:    studioPrefix + "DATASET",
	KeyAPIVersion: studioPrefix + "API_VERSION",
}

// CoreKeys are required for the site to read any content at all.
var CoreKeys = []string{KeyProjectID, KeyDataset}

// Sanity holds the content lake connection settings.
type Sanity struct {
	ProjectID     string `env:"SANITY_PROJECT_ID"`
	Dataset       string `env:"SANITY_DATASET"`
	APIVersion    string `env:"SANITY_API_VERSION" envDefault:"2026-01-14"`
	ReadToken     string `env:"SANITY_API_READ_TOKEN"`
	WriteToken    string `env:"SANITY_API_WRITE_TOKEN"`
	WebhookSecret string `env:"SANITY_WEBHOOK_SECRET"`
	UseCDN        bool   `env:"SANITY_USE_CDN" envDefault:"true"`
}

// Blob holds the upload bridge and blob storage settings.
type Blob struct {
	Token       string        `env:"BLOB_READ_WRITE_TOKEN"`
	Backend     string        `env:"BLOB_BACKEND" envDefault:"local" validate:"oneof=local s3"`
	Dir         string        `env:"BLOB_DIR" envDefault:"data/blobs"`
	PublicURL   string        `env:"BLOB_PUBLIC_URL" validate:"omitempty,url"`
	TokenTTL    time.Duration `env:"UPLOAD_TOKEN_TTL" envDefault:"10m"`
	MaxBytes    int64         `env:"UPLOAD_MAX_BYTES" envDefault:"10485760" validate:"gte=0"`
	S3Bucket    string        `env:"BLOB_S3_BUCKET"`
	S3Region    string        `env:"BLOB_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string        `env:"BLOB_S3_ENDPOINT"`
	S3AccessKey string        `env:"BLOB_S3_ACCESS_KEY"`
	S3SecretKey string        `env:"BLOB_S3_SECRET_KEY"`
	S3PathStyle bool          `env:"BLOB_S3_PATH_STYLE"`
}

// Studio holds the authoring studio settings.
type Studio struct {
	User     string `env:"STUDIO_USER" envDefault:"admin"`
	Password string `env:"STUDIO_PASSWORD"`
}

// Config holds all configuration for the application.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	AppBaseURL      string        `env:"APP_BASE_URL" envDefault:"http://localhost:8080" validate:"url"`
	SessionSecret   string        `env:"SESSION_SECRET"`
	ContentFile     string        `env:"CONTENT_FILE"`
	RevalidateDelay time.Duration `env:"REVALIDATE_DELAY" envDefault:"3s"`
	RateLimit       int           `env:"RATE_LIMIT" envDefault:"10" validate:"gte=0"`

	Sanity Sanity
	Blob   Blob
	Studio Studio

	values map[string]string
}

// New loads configuration from the process environment, reading a .env file
// first when one exists. Only the core keys are required here; features
// check their own keys with Require when they boot.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	hosted, studio := splitEnviron(os.Environ())
	return Resolve(hosted, studio, CoreKeys)
}

// Resolve builds a Config from two optional sources: the hosted server
// environment and the standalone studio environment (SANITY_STUDIO_*). For
// each key the hosted value wins; the studio value is only a fallback.
// Missing required keys fail with every accepted name in the message.
func Resolve(hosted, studio map[string]string, required []string) (*Config, error) {
	merged := make(map[string]string, len(hosted)+len(studioAliases))
	for k, v := range hosted {
		if v = strings.TrimSpace(v); v != "" {
			merged[k] = v
		}
	}
	for key, alias := range studioAliases {
		if merged[key] != "" {
			continue
		}
		if v := strings.TrimSpace(studio[alias]); v != "" {
			merged[key] = v
		}
	}

	cfg := &Config{values: merged}
	if err := cfg.Require(required...); err != nil {
		return nil, err
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: merged}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Require reports every key that resolved to an empty value.
func (c *Config) Require(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if c.values[key] != "" {
			continue
		}
		if alias, ok := studioAliases[key]; ok {
			missing = append(missing, key+" or "+alias)
		} else {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing environment variable %s", domain.ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// Has reports whether the key resolved to a non-empty value.
func (c *Config) Has(key string) bool {
	return c.values[key] != ""
}

// splitEnviron separates KEY=VALUE pairs into the hosted source and the
// standalone studio source.
func splitEnviron(environ []string) (hosted, studio map[string]string) {
	hosted = make(map[string]string)
	studio = make(map[string]string)
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if strings.HasPrefix(k, studioPrefix) {
			studio[k] = v
			continue
		}
		hosted[k] = v
	}
	return hosted, studio
}
