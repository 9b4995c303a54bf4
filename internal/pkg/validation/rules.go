package validation

import "regexp"

// Validation rule patterns
var (
	// EmailPattern is the standard email-shape check applied to optional
	// contact addresses before submission.
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// OfferingCodePattern constrains offering codes to the short
	// letters-digits-dashes identifiers the catalog uses.
	OfferingCodePattern = `^[A-Za-z0-9\-]{2,32}$`

	NameMinLength = 1
	NameMaxLength = 200
)

// CompiledPatterns caches compiled regex patterns.
var CompiledPatterns = struct {
	Email        *regexp.Regexp
	OfferingCode *regexp.Regexp
}{
	Email:        regexp.MustCompile(EmailPattern),
	OfferingCode: regexp.MustCompile(OfferingCodePattern),
}

// ValidEmail reports whether s has the expected email shape. Empty strings
// are not valid; callers decide whether the field is optional.
func ValidEmail(s string) bool {
	return CompiledPatterns.Email.MatchString(s)
}

// ValidOfferingCode reports whether s is an acceptable offering code.
func ValidOfferingCode(s string) bool {
	return CompiledPatterns.OfferingCode.MatchString(s)
}
