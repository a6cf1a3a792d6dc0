package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	StorageGCS   = "gcs"
	StorageMinio = "minio"

	SpeechGoogle = "google"
	SpeechGemini = "gemini"
)

// Config is built once at startup and injected into every collaborator.
// Nothing below this package reads the process environment.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	Google  GoogleConfig  `yaml:"google"`
	Storage StorageConfig `yaml:"storage"`
	Speech  SpeechConfig  `yaml:"speech"`
	Upload  UploadConfig  `yaml:"upload"`
	Cache   CacheConfig   `yaml:"cache"`
}

type AppConfig struct {
	Env string `envconfig:"APP_ENV" default:"development" yaml:"env" validate:"oneof=development production test"`
}

type ServerConfig struct {
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0" yaml:"host"`
	Port         string        `envconfig:"SERVER_PORT" default:"3000" yaml:"port" validate:"required,numeric,max=5"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"2m" yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10m" yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"2m" yaml:"idle_timeout" validate:"gt=0"`
}

// GoogleConfig identifies the service account used by the GCS, Speech and
// Vertex AI clients.
type GoogleConfig struct {
	PrivateKey  string `envconfig:"GOOGLE_PRIVATE_KEY" yaml:"private_key"`
	ClientEmail string `envconfig:"GOOGLE_CLIENT_EMAIL" yaml:"client_email"`
	ProjectID   string `envconfig:"GOOGLE_PROJECT_ID" yaml:"project_id"`
	Location    string `envconfig:"GOOGLE_LOCATION" default:"us-central1" yaml:"location"`
}

type StorageConfig struct {
	Backend   string `envconfig:"STORAGE_BACKEND" default:"gcs" yaml:"backend" validate:"oneof=gcs minio"`
	Bucket    string `envconfig:"STORAGE_BUCKET" default:"users_drive_storage" yaml:"bucket" validate:"required"`
	Prefix    string `envconfig:"STORAGE_PREFIX" default:"audio/" yaml:"prefix"`
	URIScheme string `envconfig:"STORAGE_URI_SCHEME" default:"gs" yaml:"uri_scheme" validate:"required,alpha"`

	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000" yaml:"minio_endpoint"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY" yaml:"minio_access_key"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY" yaml:"minio_secret_key"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false" yaml:"minio_use_ssl"`
}

// SpeechConfig carries the recognition profile. The defaults reproduce the
// fixed MP3 / 8 kHz / ml-IN policy; anything else must be set explicitly.
type SpeechConfig struct {
	Provider        string        `envconfig:"SPEECH_PROVIDER" default:"google" yaml:"provider" validate:"oneof=google gemini"`
	Encoding        string        `envconfig:"SPEECH_ENCODING" default:"MP3" yaml:"encoding" validate:"required"`
	SampleRateHertz int32         `envconfig:"SPEECH_SAMPLE_RATE_HERTZ" default:"8000" yaml:"sample_rate_hertz" validate:"gte=0,lte=48000"`
	LanguageCode    string        `envconfig:"SPEECH_LANGUAGE_CODE" default:"ml-IN" yaml:"language_code" validate:"required"`
	LongRunning     bool          `envconfig:"SPEECH_LONG_RUNNING" default:"false" yaml:"long_running"`
	Timeout         time.Duration `envconfig:"SPEECH_TIMEOUT" default:"0" yaml:"timeout" validate:"gte=0"`
	GeminiModel     string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash" yaml:"gemini_model"`
}

type UploadConfig struct {
	FieldName string `envconfig:"UPLOAD_FIELD_NAME" default:"audio" yaml:"field_name" validate:"required"`
	TempDir   string `envconfig:"UPLOAD_TEMP_DIR" yaml:"temp_dir"`
	MaxBytes  int64  `envconfig:"UPLOAD_MAX_BYTES" default:"104857600" yaml:"max_bytes" validate:"gt=0"`
}

type CacheConfig struct {
	Enabled  bool          `envconfig:"CACHE_ENABLED" default:"false" yaml:"enabled"`
	Addr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379" yaml:"addr"`
	Password string        `envconfig:"REDIS_PASSWORD" yaml:"password"`
	DB       int           `envconfig:"REDIS_DB" default:"0" yaml:"db" validate:"gte=0"`
	TTL      time.Duration `envconfig:"CACHE_TTL" default:"24h" yaml:"ttl" validate:"gte=0"`
}

// Load reads .env files, the process environment and, when path is not
// empty, a YAML file whose values take precedence over the environment.
func Load(path string) (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.normalize()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	if c.Upload.TempDir == "" {
		c.Upload.TempDir = filepath.Join(os.TempDir(), "uploads")
	}
	// Keys pasted into a single-line env var arrive with literal \n sequences.
	c.Google.PrivateKey = strings.ReplaceAll(c.Google.PrivateKey, `\n`, "\n")
	c.Google.ClientEmail = strings.TrimSpace(c.Google.ClientEmail)
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// NeedsGoogleCredentials reports whether any selected backend talks to Google Cloud.
func (c *Config) NeedsGoogleCredentials() bool {
	return c.Storage.Backend == StorageGCS || c.Speech.Provider == SpeechGoogle || c.Speech.Provider == SpeechGemini
}

// CredentialsJSON assembles a service-account key document from the two
// configured secrets.
func (g GoogleConfig) CredentialsJSON() ([]byte, error) {
	if g.PrivateKey == "" || g.ClientEmail == "" {
		return nil, fmt.Errorf("GOOGLE_PRIVATE_KEY and GOOGLE_CLIENT_EMAIL must both be set")
	}
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   g.ProjectID,
		"private_key":  g.PrivateKey,
		"client_email": g.ClientEmail,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}
