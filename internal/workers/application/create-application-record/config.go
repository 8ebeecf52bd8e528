package createapplicationrecord

import "recruitment-portal/internal/common/config"

const defaultIDAttempts = 5

type Config struct {
	// IDAttempts bounds how many generated IDs are tried when the store
	// reports one as taken.
	IDAttempts int
}

func LoadConfig(sub config.SubmissionConfig) *Config {
	attempts := sub.IDAttempts
	if attempts <= 0 {
		attempts = defaultIDAttempts
	}
	return &Config{IDAttempts: attempts}
}
