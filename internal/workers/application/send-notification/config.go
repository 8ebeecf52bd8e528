package sendnotification

import (
	"fmt"
	"net/mail"
	"time"
	_ "time/tzdata"

	"recruitment-portal/internal/common/config"
)

const displayTimeZone = "Asia/Kolkata"

type Config struct {
	EmailEnabled    bool
	SMSEnabled      bool
	SMSSenderID     string
	FromName        string
	FromEmail       string
	CC              string
	Subject         string
	SupportEmail    string
	WebsiteURL      string
	AdminEmail      string
	AdminPhone      string
	RecruitmentYear string
	Location        *time.Location
	Timeout         time.Duration
	Workers         int
	Buffer          int
}

func LoadConfig(cfg *config.Config) *Config {
	loc, err := time.LoadLocation(displayTimeZone)
	if err != nil {
		loc = time.FixedZone("IST", 5*60*60+30*60)
	}
	n := cfg.Notifications
	return &Config{
		EmailEnabled:    n.Enabled,
		SMSEnabled:      n.SMS.Enabled,
		SMSSenderID:     cfg.Integrations.AWS.SNS.DefaultSMSSenderID,
		FromName:        n.FromName,
		FromEmail:       n.FromEmail,
		CC:              n.CC,
		Subject:         n.Subject,
		SupportEmail:    n.SupportEmail,
		WebsiteURL:      n.WebsiteURL,
		AdminEmail:      cfg.Admin.Email,
		AdminPhone:      cfg.Admin.Phone,
		RecruitmentYear: cfg.App.RecruitmentYear,
		Location:        loc,
		Timeout:         config.GetDuration(n.Timeout),
		Workers:         n.Workers,
		Buffer:          n.Buffer,
	}
}

// From renders the sender header, e.g. "Standards Club VIT" <club@vit.ac.in>.
func (c *Config) From() string {
	addr := mail.Address{Name: c.FromName, Address: c.FromEmail}
	return addr.String()
}

func (c *Config) Validate() error {
	if c.EmailEnabled && c.FromEmail == "" {
		return fmt.Errorf("from_email is required when email notifications are enabled")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Buffer < 0 {
		return fmt.Errorf("buffer must not be negative")
	}
	return nil
}
