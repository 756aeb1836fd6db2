package auth

import (
	"net/mail"
	"strings"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a bare address such as "a@b.co".
func ValidateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Msg: "email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return &ValidationError{Field: "email", Msg: "enter a valid email address"}
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Msg: "password is required"}
	}
	if len([]rune(password)) < MinPasswordLength {
		return &ValidationError{Field: "password", Msg: "password must be at least 6 characters"}
	}
	return nil
}

// ValidateName checks that a display name was given.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Msg: "name is required"}
	}
	return nil
}
