package models

import "time"

type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusSelected    ApplicationStatus = "selected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusShortlisted, StatusSelected:
		return true
	}
	return false
}

// Application is one stored board application. JSON and BSON field names
// match the existing applications collection, and DomainAnswers decodes
// both stored answer shapes (pair array or flattened string).
type Application struct {
	ApplicationID string            `json:"applicationId" bson:"applicationId"`
	Name          string            `json:"name" bson:"name"`
	Email         string            `json:"email" bson:"email"`
	Mobile        string            `json:"mobile" bson:"mobile"`
	RegNumber     string            `json:"regNumber" bson:"regNumber"`
	Positions     []PositionEntry   `json:"positions" bson:"positions"`
	ResumeLink    string            `json:"resumeLink" bson:"resumeLink"`
	PortfolioLink string            `json:"portfolioLink,omitempty" bson:"portfolioLink,omitempty"`
	GithubLink    string            `json:"githubLink,omitempty" bson:"githubLink,omitempty"`
	LinkedinLink  string            `json:"linkedinLink,omitempty" bson:"linkedinLink,omitempty"`
	AgreedToTerms bool              `json:"agreedToTerms" bson:"agreedToTerms"`
	Status        ApplicationStatus `json:"status" bson:"status"`
	SubmittedAt   time.Time         `json:"submittedAt" bson:"submittedAt"`
	LastUpdated   time.Time         `json:"lastUpdated" bson:"lastUpdated"`
}

type PositionEntry struct {
	PositionName  string        `json:"positionName" bson:"positionName"`
	Preference    int           `json:"preference" bson:"preference"`
	Motivation    string        `json:"motivation" bson:"motivation"`
	DomainAnswers DomainAnswers `json:"domainAnswers" bson:"domainAnswers"`
}
