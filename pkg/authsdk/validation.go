package authsdk

import (
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Password policy bounds. The upper bound is bcrypt's input limit, counted in
// bytes, not characters.
const (
	MinPasswordBytes = 8
	MaxPasswordBytes = 72

	// PasswordSpecialChars lists the characters that satisfy the special
	// character requirement.
	PasswordSpecialChars = "@$!%*?&"
)

// Letter and digit classes are Unicode-aware, so "Ä" counts as uppercase and
// "٣" as a digit.
var (
	reLower   = regexp.MustCompile(`\p{Ll}`)
	reUpper   = regexp.MustCompile(`\p{Lu}`)
	reDigit   = regexp.MustCompile(`\p{Nd}`)
	reSpecial = regexp.MustCompile(`[` + regexp.QuoteMeta(PasswordSpecialChars) + `]`)
)

// PasswordRules is the password policy shared by signup and the admin CLI.
var PasswordRules = []validation.Rule{
	validation.Required,
	byteLength(MinPasswordBytes, MaxPasswordBytes),
	validation.Match(reLower).Error("must contain a lowercase letter"),
	validation.Match(reUpper).Error("must contain an uppercase letter"),
	validation.Match(reDigit).Error("must contain a digit"),
	validation.Match(reSpecial).Error("must contain one of " + PasswordSpecialChars),
}

// EmailRules validates an email address.
var EmailRules = []validation.Rule{
	validation.Required,
	validation.Length(3, 254),
	is.Email,
}

// ValidatePassword checks pw against PasswordRules.
func ValidatePassword(pw string) error {
	return validation.Validate(pw, PasswordRules...)
}

// ValidateEmail checks email against EmailRules.
func ValidateEmail(email string) error {
	return validation.Validate(email, EmailRules...)
}

// byteLength is validation.Length measured in bytes; Length counts runes.
func byteLength(minBytes, maxBytes int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if len(s) < minBytes || len(s) > maxBytes {
			return fmt.Errorf("the length must be between %d and %d bytes", minBytes, maxBytes)
		}
		return nil
	})
}

// Validate checks the signup fields. The returned error is a
// validation.Errors keyed by JSON field name.
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, EmailRules...),
		validation.Field(&r.Password, PasswordRules...),
		validation.Field(&r.Token, validation.Required),
	)
}

// Validate checks the invite fields.
func (r InviteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, EmailRules...),
	)
}

// Validate only checks presence; the password policy is not applied at
// login.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// NewValidationError converts the result of a Validate call into a
// *ValidationError. It returns nil when err is nil.
func NewValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}

	var fields validation.Errors
	if !errors.As(err, &fields) {
		return &ValidationError{Message: err.Error()}
	}

	details := make(map[string]string, len(fields))
	for field, ferr := range fields {
		details[field] = ferr.Error()
	}
	return &ValidationError{
		Message: "request validation failed",
		Details: details,
	}
}
