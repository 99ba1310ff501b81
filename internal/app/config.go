package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/logger"
	"github.com/morgancollado/mocingbird-task-manager/internal/utils"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Config struct {
	ServiceName      string
	Port             string
	LogMode          string
	JWTSecretKey     string
	AccessTokenTTL   time.Duration
	CORSAllowOrigins []string
	NotifyQueueSize  int
	NotifyWorkers    int
	TracingEnabled   bool
	Postgres         PostgresConfig
}

// fileConfig is the optional YAML overlay; any field left zero falls back to
// the environment-derived value.
type fileConfig struct {
	ServiceName        string   `yaml:"service_name"`
	Port               string   `yaml:"port"`
	LogMode            string   `yaml:"log_mode"`
	JWTSecretKey       string   `yaml:"jwt_secret_key"`
	AccessTokenTTLSecs int      `yaml:"access_token_ttl_seconds"`
	CORSAllowOrigins   []string `yaml:"cors_allow_origins"`
	NotifyQueueSize    int      `yaml:"notify_queue_size"`
	NotifyWorkers      int      `yaml:"notify_workers"`
	TracingEnabled     *bool    `yaml:"tracing_enabled"`
	Postgres           struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"ssl_mode"`
	} `yaml:"postgres"`
}

// LoadConfig reads the environment first and then, when CONFIG_FILE points at
// a YAML file, overlays the values it sets. The result is fixed for the
// process lifetime; nothing reloads it.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		ServiceName:     utils.GetEnv("SERVICE_NAME", "mocingbird-task-manager", log),
		Port:            utils.GetEnv("PORT", "8080", log),
		LogMode:         utils.GetEnv("LOG_MODE", "development", log),
		JWTSecretKey:    utils.GetEnv("JWT_SECRET_KEY", "", log),
		AccessTokenTTL:  time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 86400, log)) * time.Second,
		NotifyQueueSize: utils.GetEnvAsInt("NOTIFY_QUEUE_SIZE", 256, log),
		NotifyWorkers:   utils.GetEnvAsInt("NOTIFY_WORKERS", 2, log),
		TracingEnabled:  strings.EqualFold(utils.GetEnv("OTEL_ENABLED", "false", log), "true"),
		Postgres: PostgresConfig{
			Host:     utils.GetEnv("POSTGRES_HOST", "localhost", log),
			Port:     utils.GetEnv("POSTGRES_PORT", "5432", log),
			User:     utils.GetEnv("POSTGRES_USER", "postgres", log),
			Password: utils.GetEnv("POSTGRES_PASSWORD", "", log),
			Name:     utils.GetEnv("POSTGRES_NAME", "mocingbird", log),
			SSLMode:  utils.GetEnv("POSTGRES_SSLMODE", "disable", log),
		},
	}
	if origins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowOrigins = append(cfg.CORSAllowOrigins, origin)
			}
		}
	}

	if path := utils.GetEnv("CONFIG_FILE", "", log); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if cfg.JWTSecretKey == "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.ServiceName != "" {
		cfg.ServiceName = fc.ServiceName
	}
	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.LogMode != "" {
		cfg.LogMode = fc.LogMode
	}
	if fc.JWTSecretKey != "" {
		cfg.JWTSecretKey = fc.JWTSecretKey
	}
	if fc.AccessTokenTTLSecs > 0 {
		cfg.AccessTokenTTL = time.Duration(fc.AccessTokenTTLSecs) * time.Second
	}
	if len(fc.CORSAllowOrigins) > 0 {
		cfg.CORSAllowOrigins = fc.CORSAllowOrigins
	}
	if fc.NotifyQueueSize > 0 {
		cfg.NotifyQueueSize = fc.NotifyQueueSize
	}
	if fc.NotifyWorkers > 0 {
		cfg.NotifyWorkers = fc.NotifyWorkers
	}
	if fc.TracingEnabled != nil {
		cfg.TracingEnabled = *fc.TracingEnabled
	}
	if fc.Postgres.Host != "" {
		cfg.Postgres.Host = fc.Postgres.Host
	}
	if fc.Postgres.Port != "" {
		cfg.Postgres.Port = fc.Postgres.Port
	}
	if fc.Postgres.User != "" {
		cfg.Postgres.User = fc.Postgres.User
	}
	if fc.Postgres.Password != "" {
		cfg.Postgres.Password = fc.Postgres.Password
	}
	if fc.Postgres.Name != "" {
		cfg.Postgres.Name = fc.Postgres.Name
	}
	if fc.Postgres.SSLMode != "" {
		cfg.Postgres.SSLMode = fc.Postgres.SSLMode
	}
	return nil
}
