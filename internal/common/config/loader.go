package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml,
// applies environment overrides and validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional per-environment overlay

	return finish(v)
}

// LoadFromFile reads a single config file; used by tools and tests.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	registerDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// registerDefaults also makes every key visible to AutomaticEnv, so
// DATABASE_MONGO_URI works without a config file.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "recruitment-portal")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.recruitment_year", "2025-2026")

	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.read_header_timeout", 5000)
	v.SetDefault("server.shutdown_timeout", 10000)
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("storage.driver", DriverMongo)
	v.SetDefault("storage.dev_mode", false)

	v.SetDefault("database.mongo.uri", "")
	v.SetDefault("database.mongo.database", "standards_recruitment")
	v.SetDefault("database.mongo.collection", "applications")
	v.SetDefault("database.mongo.timeout", 10000)

	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "standards_recruitment")
	v.SetDefault("database.postgres.user", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.max_connections", 25)
	v.SetDefault("database.postgres.max_idle", 5)
	v.SetDefault("database.postgres.sslmode", "disable")

	v.SetDefault("database.elasticsearch.addresses", []string{})
	v.SetDefault("database.elasticsearch.username", "")
	v.SetDefault("database.elasticsearch.password", "")
	v.SetDefault("database.elasticsearch.index", "applications")

	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("submission.strict_positions", true)
	v.SetDefault("submission.id_attempts", 5)

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests", 10)
	v.SetDefault("rate_limit.window", 60000)
	v.SetDefault("rate_limit.prefix", "portal:ratelimit")

	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.phone", "")

	v.SetDefault("catalog.path", "")

	v.SetDefault("integrations.aws.region", "ap-south-1")
	v.SetDefault("integrations.aws.ses.enabled", false)
	v.SetDefault("integrations.aws.sns.enabled", false)
	v.SetDefault("integrations.aws.sns.default_sms_sender_id", "STDCLB")
	v.SetDefault("integrations.smtp.host", "smtp.gmail.com")
	v.SetDefault("integrations.smtp.port", 587)
	v.SetDefault("integrations.smtp.username", "")
	v.SetDefault("integrations.smtp.password", "")
	v.SetDefault("integrations.smtp.use_tls", true)
	v.SetDefault("integrations.nats.url", "")
	v.SetDefault("integrations.nats.subject", "recruitment.applications.submitted")
	v.SetDefault("integrations.nats.queue", "notification-dispatchers")

	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.provider", ProviderSMTP)
	v.SetDefault("notifications.queue", QueueLocal)
	v.SetDefault("notifications.workers", 2)
	v.SetDefault("notifications.buffer", 100)
	v.SetDefault("notifications.timeout", 30000)
	v.SetDefault("notifications.from_name", "Standards Club VIT")
	v.SetDefault("notifications.from_email", "")
	v.SetDefault("notifications.cc", "support@standardsvit.live")
	v.SetDefault("notifications.subject", "Standards Club Board Recruitment 2025-2026 - Application Received ✓")
	v.SetDefault("notifications.support_email", "support@standardsvit.live")
	v.SetDefault("notifications.website_url", "https://www.standardsvit.live/")
	v.SetDefault("notifications.sms.enabled", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			v.Set(key, os.ExpandEnv(strVal))
		}
	}
}

// overrideEmptyConfig maps the variable names the portal has always been
// deployed with onto the structured config.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Database.Mongo.URI, "MONGODB_URI")
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")

	if val := os.Getenv("NODEMAILER_HOST"); val != "" {
		cfg.Integrations.SMTP.Host = val
	}
	if val := os.Getenv("NODEMAILER_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Integrations.SMTP.Port = port
		}
	}
	setIfEmpty(&cfg.Integrations.SMTP.Username, "NODEMAILER_USER")
	setIfEmpty(&cfg.Integrations.SMTP.Password, "NODEMAILER_PASS")

	setIfEmpty(&cfg.Admin.Email, "ADMIN_EMAIL")
	setIfEmpty(&cfg.Admin.Password, "ADMIN_PASSWORD")
	setIfEmpty(&cfg.Admin.Phone, "ADMIN_PHONE")

	if os.Getenv("DEV_MODE") == "true" {
		cfg.Storage.DevMode = true
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Address = ":" + port
	}
}

func setIfEmpty(dst *string, envKey string) {
	if *dst != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*dst = val
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.DevMode {
		cfg.Storage.Driver = DriverMemory
		cfg.Notifications.Provider = ProviderLog
		cfg.Notifications.Queue = QueueLocal
	}
	if cfg.Notifications.FromEmail == "" {
		cfg.Notifications.FromEmail = cfg.Integrations.SMTP.Username
	}
	if cfg.Notifications.FromEmail == "" && cfg.Notifications.Provider == ProviderLog {
		cfg.Notifications.FromEmail = "recruitment@localhost"
	}
	if cfg.Submission.IDAttempts <= 0 {
		cfg.Submission.IDAttempts = 1
	}
	if cfg.Notifications.Workers <= 0 {
		cfg.Notifications.Workers = 1
	}
	if cfg.Notifications.Buffer < 0 {
		cfg.Notifications.Buffer = 0
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Storage.Driver {
	case DriverMongo:
		if cfg.Database.Mongo.URI == "" {
			return fmt.Errorf("database.mongo.uri is required (or set MONGODB_URI / DEV_MODE=true)")
		}
	case DriverPostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	case DriverElasticsearch:
		if len(cfg.Database.Elasticsearch.Addresses) == 0 {
			return fmt.Errorf("database.elasticsearch.addresses is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q", cfg.Storage.Driver)
	}

	if cfg.RateLimit.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when rate_limit.enabled")
	}

	if cfg.Notifications.Enabled {
		switch cfg.Notifications.Provider {
		case ProviderSMTP:
			if cfg.Integrations.SMTP.Host == "" {
				return fmt.Errorf("integrations.smtp.host is required for the smtp provider")
			}
		case ProviderSES, ProviderLog:
		default:
			return fmt.Errorf("unknown notifications.provider %q", cfg.Notifications.Provider)
		}

		switch cfg.Notifications.Queue {
		case QueueLocal:
		case QueueNATS:
			if cfg.Integrations.NATS.URL == "" {
				return fmt.Errorf("integrations.nats.url is required for the nats queue")
			}
		default:
			return fmt.Errorf("unknown notifications.queue %q", cfg.Notifications.Queue)
		}
	}

	return nil
}
