package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Event log
	EventLog   EventLogConfig
	Webhook    WebhookConfig
	DeadLetter DeadLetterConfig

	// Integrations
	NATS  NATSConfig
	Ngrok NgrokConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type EventLogConfig struct {
	DataDir  string
	FileName string
	Capacity int
}

type WebhookConfig struct {
	Secret              string
	AllowedIPs          []string
	TrustedProxies      []string
	ReadRateLimitPerMin int
	DedupSize           int
	DedupTTL            time.Duration
}

type DeadLetterConfig struct {
	Enabled   bool
	Path      string
	Retention time.Duration
}

type NATSConfig struct {
	URL     string
	Subject string
}

type NgrokConfig struct {
	APIURL string
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/app/")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

// fromViper applies env overrides and defaults to v and builds the Config.
func fromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	if port := v.GetInt("port"); port != 0 {
		cfg.HTTPServer.Port = port
	}
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// Event log
	cfg.EventLog.DataDir = v.GetString("eventlog.data_dir")
	cfg.EventLog.FileName = v.GetString("eventlog.file_name")
	cfg.EventLog.Capacity = v.GetInt("eventlog.capacity")

	// Webhooks
	cfg.Webhook.Secret = v.GetString("webhook.secret")
	if webhookSecret := v.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.ReadRateLimitPerMin = v.GetInt("webhook.read_rate_limit_per_min")
	cfg.Webhook.DedupSize = v.GetInt("webhook.dedup_size")
	cfg.Webhook.DedupTTL = v.GetDuration("webhook.dedup_ttl")
	cfg.Webhook.AllowedIPs = stringList(v, "webhook.allowed_ips")
	cfg.Webhook.TrustedProxies = stringList(v, "webhook.trusted_proxies")

	// Dead letters
	cfg.DeadLetter.Enabled = v.GetBool("deadletter.enabled")
	cfg.DeadLetter.Path = v.GetString("deadletter.path")
	if cfg.DeadLetter.Path == "" {
		cfg.DeadLetter.Path = filepath.Join(cfg.EventLog.DataDir, "dead-letters.db")
	}
	cfg.DeadLetter.Retention = v.GetDuration("deadletter.retention")

	// Integrations
	cfg.NATS.URL = v.GetString("nats.url")
	cfg.NATS.Subject = v.GetString("nats.subject")
	cfg.Ngrok.APIURL = v.GetString("ngrok.api_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.HTTPServer.Port <= 0 || cfg.HTTPServer.Port > 65535 {
		return fmt.Errorf("http_server.port %d out of range", cfg.HTTPServer.Port)
	}
	if cfg.EventLog.Capacity <= 0 {
		return fmt.Errorf("eventlog.capacity must be positive, got %d", cfg.EventLog.Capacity)
	}
	if cfg.EventLog.FileName == "" {
		return errors.New("eventlog.file_name is required")
	}
	if cfg.DeadLetter.Enabled && cfg.DeadLetter.Retention <= 0 {
		return fmt.Errorf("deadletter.retention must be positive, got %s", cfg.DeadLetter.Retention)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 3001)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("eventlog.data_dir", "./data")
	v.SetDefault("eventlog.file_name", "github-events.json")
	v.SetDefault("eventlog.capacity", 100)

	v.SetDefault("webhook.read_rate_limit_per_min", 600)
	v.SetDefault("webhook.dedup_size", 10000)
	v.SetDefault("webhook.dedup_ttl", "24h")

	v.SetDefault("deadletter.enabled", true)
	v.SetDefault("deadletter.retention", "168h")

	v.SetDefault("nats.subject", "webhooks.github.push")
}

// stringList reads key as either a YAML list or a comma separated string.
func stringList(v *viper.Viper, key string) []string {
	switch raw := v.Get(key).(type) {
	case nil:
		return nil
	case string:
		return splitList(raw)
	default:
		return splitList(strings.Join(v.GetStringSlice(key), ","))
	}
}

// splitList parses a comma separated env/config value; viper does not split env arrays.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
