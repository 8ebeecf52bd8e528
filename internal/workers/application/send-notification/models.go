package sendnotification

import "recruitment-portal/internal/models"

type Input struct {
	Application *models.Application `json:"application"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SMSStatus      string `json:"smsStatus,omitempty"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
