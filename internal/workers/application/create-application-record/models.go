package createapplicationrecord

import (
	"time"

	"recruitment-portal/internal/models"
)

type Input struct {
	// Application is the validated draft; ID, status and timestamps are
	// filled in here.
	Application *models.Application
}

type Output struct {
	ApplicationID     string                   `json:"applicationId"`
	ApplicationStatus models.ApplicationStatus `json:"applicationStatus"`
	SubmittedAt       time.Time                `json:"submittedAt"`
	Application       *models.Application      `json:"-"`
}
