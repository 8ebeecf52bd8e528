package config

import (
	"fmt"
	"time"
)

type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Submission    SubmissionConfig   `mapstructure:"submission"`
	RateLimit     RateLimitConfig    `mapstructure:"rate_limit"`
	Admin         AdminConfig        `mapstructure:"admin"`
	Catalog       CatalogConfig      `mapstructure:"catalog"`
	Integrations  IntegrationConfig  `mapstructure:"integrations"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

type AppConfig struct {
	Name            string `mapstructure:"name"`
	Version         string `mapstructure:"version"`
	Environment     string `mapstructure:"environment"`
	RecruitmentYear string `mapstructure:"recruitment_year"`
}

type ServerConfig struct {
	Address           string `mapstructure:"address"`
	ReadHeaderTimeout int    `mapstructure:"read_header_timeout"` // milliseconds
	ShutdownTimeout   int    `mapstructure:"shutdown_timeout"`    // milliseconds
	MaxBodyBytes      int64  `mapstructure:"max_body_bytes"`
}

// Storage drivers.
const (
	DriverMongo         = "mongo"
	DriverPostgres      = "postgres"
	DriverElasticsearch = "elasticsearch"
	DriverMemory        = "memory"
)

type StorageConfig struct {
	Driver  string `mapstructure:"driver"`
	DevMode bool   `mapstructure:"dev_mode"`
}

type DatabaseConfig struct {
	Mongo         MongoConfig         `mapstructure:"mongo"`
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SubmissionConfig struct {
	// StrictPositions checks position names against the catalog and rejects
	// repeated names or preferences.
	StrictPositions bool `mapstructure:"strict_positions"`
	IDAttempts      int  `mapstructure:"id_attempts"`
}

type RateLimitConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Requests int    `mapstructure:"requests"`
	Window   int    `mapstructure:"window"` // milliseconds
	Prefix   string `mapstructure:"prefix"`
}

type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Phone    string `mapstructure:"phone"`
}

type CatalogConfig struct {
	// Path overrides the embedded position catalog when set.
	Path string `mapstructure:"path"`
}

type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled bool `mapstructure:"enabled"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled            bool   `mapstructure:"enabled"`
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseTLS   bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`

	NATS struct {
		URL     string `mapstructure:"url"`
		Subject string `mapstructure:"subject"`
		Queue   string `mapstructure:"queue"`
	} `mapstructure:"nats"`
}

// Notification providers and queues.
const (
	ProviderSMTP = "smtp"
	ProviderSES  = "ses"
	ProviderLog  = "log"

	QueueLocal = "local"
	QueueNATS  = "nats"
)

type NotificationConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Provider     string `mapstructure:"provider"`
	Queue        string `mapstructure:"queue"`
	Workers      int    `mapstructure:"workers"`
	Buffer       int    `mapstructure:"buffer"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
	FromName     string `mapstructure:"from_name"`
	FromEmail    string `mapstructure:"from_email"`
	CC           string `mapstructure:"cc"`
	Subject      string `mapstructure:"subject"`
	SupportEmail string `mapstructure:"support_email"`
	WebsiteURL   string `mapstructure:"website_url"`
	SMS          struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"sms"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
