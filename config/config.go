package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall client configuration.
type Config struct {
	API           APIConfig          `yaml:"api"`
	Storage       StorageConfig      `yaml:"storage"`
	Notifications NotificationConfig `yaml:"notifications"`
	Push          PushConfig         `yaml:"push"`
	WorkerPool    WorkerPoolConfig   `yaml:"worker_pool"`
	Reminders     ReminderConfig     `yaml:"reminders"`
	MockServer    MockServerConfig   `yaml:"mock_server"`
}

// APIConfig describes how to reach the reservation backend.
type APIConfig struct {
	BaseURL         string            `yaml:"base_url"`
	TimeoutSeconds  int               `yaml:"timeout_seconds"`
	Timeout         time.Duration     `yaml:"-"` // Ignored by YAML parser
	HTTPProxy       string            `yaml:"http_proxy"`
	Headers         map[string]string `yaml:"headers"`
	RateLimitPerSec float64           `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int               `yaml:"rate_limit_burst"`
	// Timezone used to read and render the backend's local date-times.
	Timezone string `yaml:"timezone"`
}

// StorageConfig holds the location of the persisted session record.
type StorageConfig struct {
	DSN        string `yaml:"dsn"`
	RecordName string `yaml:"record_name"`
	// HashKey and BlockKey enable signed (and optionally encrypted) records.
	HashKey  string `yaml:"hash_key"`
	BlockKey string `yaml:"block_key"`
}

// NotificationConfig controls how long notifications stay visible.
type NotificationConfig struct {
	TTLSeconds int           `yaml:"ttl_seconds"`
	TTL        time.Duration `yaml:"-"`
}

// PushConfig holds the VAPID keys and the browser subscriptions that receive
// notifications as web push messages.
type PushConfig struct {
	Enabled       bool               `yaml:"enabled"`
	PublicKey     string             `yaml:"vapid_public_key"`
	PrivateKey    string             `yaml:"vapid_private_key"`
	Subject       string             `yaml:"subject"`
	TTL           int                `yaml:"ttl"`
	Subscriptions []PushSubscription `yaml:"subscriptions"`
}

// PushSubscription is a browser push endpoint with its keys.
type PushSubscription struct {
	Endpoint string `yaml:"endpoint"`
	P256DH   string `yaml:"p256dh"`
	Auth     string `yaml:"auth"`
}

// WorkerPoolConfig holds the configuration for the push worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// ReminderConfig controls the upcoming reservation watcher.
type ReminderConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"`
	LeadMinutes     int           `yaml:"lead_minutes"`
	Lead            time.Duration `yaml:"-"`
}

// MockServerConfig configures the in-memory backend used for local development.
type MockServerConfig struct {
	Port            int     `yaml:"port"`
	JWTSecret       string  `yaml:"jwt_secret"`
	TokenTTLHours   int     `yaml:"token_ttl_hours"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheSeconds    int     `yaml:"cache_seconds"`
	// Timezone of the backend's local date-times, e.g. "America/Guayaquil".
	Timezone string `yaml:"timezone"`
}

// Load reads the configuration from the given path. Values from a .env file
// and the process environment override the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env file: %v", err)
	}

	var cfg Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
		log.Printf("config file %s not found; using defaults", path)
	default:
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Location resolves the configured timezone. "Local" and "" mean time.Local.
func (c APIConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ROOMBOOK_API_URL")); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ROOMBOOK_STORAGE_DSN")); v != "" {
		cfg.Storage.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("ROOMBOOK_TIMEZONE")); v != "" {
		cfg.API.Timezone = v
	}
	if v := os.Getenv("ROOMBOOK_STORAGE_HASH_KEY"); v != "" {
		cfg.Storage.HashKey = v
	}
	if v := os.Getenv("ROOMBOOK_STORAGE_BLOCK_KEY"); v != "" {
		cfg.Storage.BlockKey = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8080/api"
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 30
	}
	cfg.API.Timeout = time.Duration(cfg.API.TimeoutSeconds) * time.Second

	if cfg.API.RateLimitBurst <= 0 {
		cfg.API.RateLimitBurst = 5
	}
	if cfg.API.Timezone == "" {
		cfg.API.Timezone = "Local"
	}

	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "file:roombook.db"
	}
	if cfg.Storage.RecordName == "" {
		cfg.Storage.RecordName = "auth-storage"
	}

	if cfg.Notifications.TTLSeconds <= 0 {
		cfg.Notifications.TTLSeconds = 5
	}
	cfg.Notifications.TTL = time.Duration(cfg.Notifications.TTLSeconds) * time.Second

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Reminders.IntervalSeconds <= 0 {
		cfg.Reminders.IntervalSeconds = 60
	}
	cfg.Reminders.Interval = time.Duration(cfg.Reminders.IntervalSeconds) * time.Second
	if cfg.Reminders.LeadMinutes <= 0 {
		cfg.Reminders.LeadMinutes = 15
	}
	cfg.Reminders.Lead = time.Duration(cfg.Reminders.LeadMinutes) * time.Minute

	if cfg.MockServer.Port <= 0 {
		cfg.MockServer.Port = 8080
	}
	if cfg.MockServer.JWTSecret == "" {
		cfg.MockServer.JWTSecret = "mock-secret"
	}
	if cfg.MockServer.TokenTTLHours <= 0 {
		cfg.MockServer.TokenTTLHours = 24
	}
	if cfg.MockServer.RateLimitPerSec <= 0 {
		cfg.MockServer.RateLimitPerSec = 50
	}
	if cfg.MockServer.RateLimitBurst <= 0 {
		cfg.MockServer.RateLimitBurst = 100
	}
	if cfg.MockServer.CacheSeconds < 0 {
		cfg.MockServer.CacheSeconds = 0
	}
}
