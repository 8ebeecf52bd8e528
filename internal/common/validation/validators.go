// Package validation holds the pure field checks and the sanitizer used by
// the submission pipeline. Nothing in here performs I/O.
package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	institutionalEmailPattern = regexp.MustCompile(`(?i)^[a-z0-9._-]+@(vitstudent\.ac\.in|vit\.ac\.in)$`)
	phonePattern              = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	regNumberPattern          = regexp.MustCompile(`(?i)^[0-9]{2}[a-z]{3}[0-9]{4,5}$`)
)

// Field bounds.
const (
	MinMotivationWords   = 200
	MaxMotivationWords   = 500
	MinDomainAnswerWords = 50
	MinNameLength        = 3
	MaxNameLength        = 100
	MinPositions         = 1
	MaxPositions         = 3
)

// IsValidInstitutionalEmail accepts only student and staff addresses.
func IsValidInstitutionalEmail(s string) bool {
	return institutionalEmailPattern.MatchString(s)
}

// IsValidPhone checks a 10 digit Indian mobile number.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// IsValidRegistrationNumber matches e.g. 21BCE1234 or 21bce12345.
func IsValidRegistrationNumber(s string) bool {
	return regNumberPattern.MatchString(s)
}

// IsValidURL requires an absolute http or https URL with a host.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// WordCount counts whitespace separated tokens. Empty or blank text is 0.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// NameLengthOK reports whether name has between 3 and 100 characters.
func NameLengthOK(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= MinNameLength && n <= MaxNameLength
}
