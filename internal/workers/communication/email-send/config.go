package emailsend

import (
	"fmt"
	"time"

	"recruitment-portal/internal/common/config"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
	Timeout  time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Port:    587,
		UseTLS:  true,
		Timeout: 30 * time.Second,
	}
}

func LoadConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	smtp := cfg.Integrations.SMTP
	c.Host = smtp.Host
	if smtp.Port > 0 {
		c.Port = smtp.Port
	}
	c.Username = smtp.Username
	c.Password = smtp.Password
	c.UseTLS = smtp.UseTLS
	if cfg.Notifications.Timeout > 0 {
		c.Timeout = config.GetDuration(cfg.Notifications.Timeout)
	}
	return c
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("smtp port must be between 1 and 65535")
	}
	return nil
}

func (c *Config) address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
