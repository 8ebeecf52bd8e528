package validateapplicationdata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	apperrors "recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/validation"
	"recruitment-portal/internal/models"
)

const (
	TaskType = "validate-application-data"
)

// Validator runs the intake checks in order and stops at the first failure.
type Validator struct {
	config  *Config
	catalog PositionCatalog
	logger  logger.Logger
}

func NewValidator(config *Config, catalog PositionCatalog, log logger.Logger) *Validator {
	return &Validator{
		config:  config,
		catalog: catalog,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute returns a *errors.StandardError in the validation category when
// the input is rejected.
func (v *Validator) Execute(_ context.Context, input *Input) (*Output, error) {
	app, err := v.validate(input.Raw)
	if err != nil {
		if se, ok := apperrors.As(err); ok {
			v.logger.Info("application rejected", map[string]interface{}{
				"code": string(se.Code),
			})
		}
		return nil, err
	}

	v.logger.Debug("application validated", map[string]interface{}{
		"email":     app.Email,
		"positions": len(app.Positions),
	})
	return &Output{Application: app}, nil
}

func (v *Validator) validate(raw map[string]interface{}) (*models.Application, error) {
	for _, field := range requiredFields {
		if !truthy(raw[field]) {
			return nil, apperrors.NewValidationError(apperrors.ErrCodeMissingFields, msgMissingFields)
		}
	}

	name := sanitizedString(raw[fieldName])
	email := validation.Sanitize(strings.ToLower(asString(raw[fieldEmail])))
	mobile := sanitizedString(raw[fieldMobile])
	regNumber := validation.Sanitize(strings.ToUpper(asString(raw[fieldRegNumber])))
	resumeLink := sanitizedString(raw[fieldResumeLink])

	if !validation.NameLengthOK(name) {
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidName, msgInvalidName)
	}
	if !validation.IsValidInstitutionalEmail(email) {
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidEmail, msgInvalidEmail)
	}
	if !validation.IsValidPhone(mobile) {
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidPhone, msgInvalidPhone)
	}
	if !validation.IsValidRegistrationNumber(regNumber) {
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidRegNumber, msgInvalidRegNumber)
	}
	if !validation.IsValidURL(resumeLink) {
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidResumeLink, msgInvalidResume)
	}

	rawPositions, ok := raw[fieldPositions].([]interface{})
	if !ok || len(rawPositions) < validation.MinPositions || len(rawPositions) > validation.MaxPositions {
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidPositionCount, msgPositionCount)
	}

	positions, err := v.validatePositions(rawPositions)
	if err != nil {
		return nil, err
	}

	if agreed, ok := raw[fieldAgreedToTerms].(bool); !ok || !agreed {
		return nil, apperrors.NewValidationError(apperrors.ErrCodeTermsNotAgreed, msgTermsNotAgreed)
	}

	return &models.Application{
		Name:          name,
		Email:         email,
		Mobile:        mobile,
		RegNumber:     regNumber,
		Positions:     positions,
		ResumeLink:    resumeLink,
		PortfolioLink: optionalLink(raw[fieldPortfolioLink]),
		GithubLink:    optionalLink(raw[fieldGithubLink]),
		LinkedinLink:  optionalLink(raw[fieldLinkedinLink]),
		AgreedToTerms: true,
	}, nil
}

func (v *Validator) validatePositions(rawPositions []interface{}) ([]models.PositionEntry, error) {
	entries := make([]models.PositionEntry, 0, len(rawPositions))
	seenNames := make(map[string]bool, len(rawPositions))
	seenPrefs := make(map[int]bool, len(rawPositions))

	for _, item := range rawPositions {
		pos, ok := item.(map[string]interface{})
		if !ok {
			return nil, apperrors.NewValidationError(apperrors.ErrCodeIncompletePositionData, msgIncomplete)
		}
		if !truthy(pos[fieldPositionName]) || !truthy(pos[fieldPreference]) ||
			!truthy(pos[fieldMotivation]) || !truthy(pos[fieldDomainAnswers]) {
			return nil, apperrors.NewValidationError(apperrors.ErrCodeIncompletePositionData, msgIncomplete)
		}

		positionName, nameOK := pos[fieldPositionName].(string)
		motivation, motivationOK := pos[fieldMotivation].(string)
		preference, prefOK := parsePreference(pos[fieldPreference])
		if !nameOK || !motivationOK || !prefOK {
			return nil, apperrors.NewValidationError(apperrors.ErrCodeIncompletePositionData, msgIncomplete)
		}
		positionName = validation.Sanitize(positionName)
		motivation = validation.Sanitize(motivation)

		if v.config.StrictPositions {
			if !v.catalog.Has(positionName) {
				return nil, apperrors.NewValidationError(apperrors.ErrCodeUnknownPosition,
					fmt.Sprintf("%s is not an open position", positionName))
			}
			if seenNames[positionName] {
				return nil, apperrors.NewValidationError(apperrors.ErrCodeDuplicatePosition,
					fmt.Sprintf("%s was selected more than once", positionName))
			}
			if seenPrefs[preference] {
				return nil, apperrors.NewValidationError(apperrors.ErrCodeDuplicatePosition,
					fmt.Sprintf("Preference %d is used for more than one position", preference))
			}
			seenNames[positionName] = true
			seenPrefs[preference] = true
		}

		if words := validation.WordCount(motivation); words < validation.MinMotivationWords || words > validation.MaxMotivationWords {
			return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidMotivationLength,
				fmt.Sprintf("Motivation for %s must be between %d-%d words (currently %d words)",
					positionName, validation.MinMotivationWords, validation.MaxMotivationWords, words))
		}

		answers := ParseDomainAnswers(pos[fieldDomainAnswers], pos[fieldDomainAnswersText])
		if words := answers.WordCount(); words < validation.MinDomainAnswerWords {
			return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidDomainAnswersLength,
				fmt.Sprintf("Domain answers for %s must be at least %d words (currently %d words)",
					positionName, validation.MinDomainAnswerWords, words))
		}

		entries = append(entries, models.PositionEntry{
			PositionName:  positionName,
			Preference:    preference,
			Motivation:    motivation,
			DomainAnswers: answers,
		})
	}
	return entries, nil
}

// ParseDomainAnswers classifies a raw domainAnswers value. Arrays become
// structured pairs, strings the flattened form, and anything else falls back
// to the sibling text field.
func ParseDomainAnswers(value, fallbackText interface{}) models.DomainAnswers {
	switch val := value.(type) {
	case []interface{}:
		pairs := make([]models.QuestionAnswer, 0, len(val))
		for _, item := range val {
			qa, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			pairs = append(pairs, models.QuestionAnswer{
				Question: sanitizedString(qa["question"]),
				Answer:   sanitizedString(qa["answer"]),
			})
		}
		return models.StructuredAnswers(pairs)
	case string:
		return models.FlattenedAnswers(validation.Sanitize(val))
	default:
		return models.FallbackAnswers(sanitizedString(fallbackText))
	}
}

// truthy reports whether a decoded JSON value counts as provided. Missing,
// null, empty string, false and zero do not.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	case int64:
		return val != 0
	}
	return true
}

// parsePreference takes the integer part of a number, or the leading
// integer of a numeric string ("2nd" is 2).
func parsePreference(v interface{}) (int, bool) {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i), true
		}
		f, err := val.Float64()
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return int(math.Trunc(f)), true
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return 0, false
		}
		return int(math.Trunc(val)), true
	case int:
		return val, true
	case int64:
		return int(val), true
	case string:
		return leadingInt(val)
	}
	return 0, false
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func sanitizedString(v interface{}) string {
	return validation.Sanitize(asString(v))
}

func optionalLink(v interface{}) string {
	if !truthy(v) {
		return ""
	}
	return sanitizedString(v)
}
