package models

// Notification records one delivery attempt for a submitted application.
type Notification struct {
	ID            string `json:"id"`
	ApplicationID string `json:"applicationId"`
	Channel       string `json:"channel"` // "email", "sms"
	Recipient     string `json:"recipient"`
	Status        string `json:"status"` // "sent", "failed", "disabled"
	Error         string `json:"error,omitempty"`
	SentAt        string `json:"sentAt"`
}

// ConfirmationMessage is a rendered email ready for any mail transport.
type ConfirmationMessage struct {
	From     string `json:"from"`
	To       string `json:"to"`
	CC       string `json:"cc,omitempty"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"htmlBody"`
	TextBody string `json:"textBody"`
}
