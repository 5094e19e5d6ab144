package validator

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidUsername    = errors.New("username must be 3-30 letters, digits or underscores")
	ErrInvalidPassword    = errors.New("password must be 8-72 bytes long")
	ErrAccountNameMissing = errors.New("name is required")
	ErrAccountNameLength  = errors.New("name must be at most 50 characters")
	ErrDescriptionLength  = errors.New("description must be at most 255 characters")
)

const (
	maxAccountName = 50
	maxEmail       = 100
	maxDescription = 255
	minPassword    = 8
	// bcrypt refuses longer input.
	maxPassword = 72
)

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
)

// NormalizeEmail lowercases and trims so lookups are case insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if len(email) > maxEmail || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < minPassword || len(password) > maxPassword {
		return ErrInvalidPassword
	}
	return nil
}

// AccountName returns the trimmed name.
func AccountName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrAccountNameMissing
	}
	if utf8.RuneCountInString(trimmed) > maxAccountName {
		return "", ErrAccountNameLength
	}
	return trimmed, nil
}

// Description trims the input and maps blank to nil.
func Description(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > maxDescription {
		return nil, ErrDescriptionLength
	}
	return &trimmed, nil
}
