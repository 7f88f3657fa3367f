package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// E.164-like: optional leading +, 7 to 15 digits, no leading zero
	phoneRegex = regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`)
	emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// ValidatePhone validates an E.164-like phone number
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone %q: expected E.164 format such as +79001231239", phone)
	}
	return nil
}

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}

// ValidateOptionalEmail validates an email only when one is set
func ValidateOptionalEmail(email *string) error {
	if email == nil {
		return nil
	}
	return ValidateEmail(*email)
}

// ValidateRating validates that a rating is within [0, 5]
func ValidateRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating must be between 0.0 and 5.0, got %v", rating)
	}
	return nil
}

// ValidateNonNegativeFloat validates that a float is non-negative
func ValidateNonNegativeFloat(value float64, fieldName string) error {
	if value < 0 {
		return fmt.Errorf("%s must be non-negative", fieldName)
	}
	return nil
}

// ValidateStringNotEmpty validates that a string is not blank
func ValidateStringNotEmpty(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateOneOf validates that value is one of the allowed values
func ValidateOneOf(value, fieldName string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q: must be one of %v", fieldName, value, allowed)
}

// ValidatePositiveID validates a row identifier
func ValidatePositiveID(id int64, fieldName string) error {
	if id <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}
