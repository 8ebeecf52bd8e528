package validateapplicationdata

import "recruitment-portal/internal/models"

// Input is the decoded request body, field names as the form sends them.
type Input struct {
	Raw map[string]interface{}
}

// Output carries the sanitized application. ID, status and timestamps are
// assigned when the record is created.
type Output struct {
	Application *models.Application
}

// PositionCatalog answers whether a position name exists.
type PositionCatalog interface {
	Has(name string) bool
}

// Field names of the submission form.
const (
	fieldName          = "name"
	fieldEmail         = "email"
	fieldMobile        = "mobile"
	fieldRegNumber     = "regNumber"
	fieldPositions     = "positions"
	fieldResumeLink    = "resumeLink"
	fieldPortfolioLink = "portfolioLink"
	fieldGithubLink    = "githubLink"
	fieldLinkedinLink  = "linkedinLink"
	fieldAgreedToTerms = "agreedToTerms"

	fieldPositionName      = "positionName"
	fieldPreference        = "preference"
	fieldMotivation        = "motivation"
	fieldDomainAnswers     = "domainAnswers"
	fieldDomainAnswersText = "domainAnswersText"
)

var requiredFields = []string{fieldName, fieldEmail, fieldMobile, fieldRegNumber, fieldPositions, fieldResumeLink}

const (
	msgMissingFields    = "All required fields must be filled"
	msgInvalidName      = "Name must be between 3 and 100 characters"
	msgInvalidEmail     = "Please use a valid VIT email address (@vitstudent.ac.in)"
	msgInvalidPhone     = "Please enter a valid 10-digit mobile number"
	msgInvalidRegNumber = "Please enter a valid registration number (e.g., 20BCE1234)"
	msgInvalidResume    = "Please provide a valid URL for your resume/portfolio"
	msgPositionCount    = "Please select between 1 and 3 positions"
	msgIncomplete       = "All position fields are required"
	msgTermsNotAgreed   = "You must agree to the terms and conditions"
)
