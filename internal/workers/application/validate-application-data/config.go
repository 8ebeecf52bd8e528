package validateapplicationdata

import "recruitment-portal/internal/common/config"

type Config struct {
	// StrictPositions rejects position names missing from the catalog and
	// repeated names or preferences within one application.
	StrictPositions bool
}

func LoadConfig(sub config.SubmissionConfig) *Config {
	return &Config{
		StrictPositions: sub.StrictPositions,
	}
}
