package auth

import (
	"fmt"
	"regexp"
	"strings"
)

// Field length rules, matching the backend's column constraints.
const (
	usernameMinLen = 3
	usernameMaxLen = 80
	passwordMinLen = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError is a local, pre-network rejection of form input. Only the
// first violated rule is reported.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// validateCredentials checks login/register input and returns the first
// violated rule, or nil. Email is only checked when requireEmail is set
// (registration).
func validateCredentials(username, email, password string, requireEmail bool) *ValidationError {
	username = strings.TrimSpace(username)
	if username == "" {
		return invalid("username", "Username is required")
	}
	if len(username) < usernameMinLen {
		return invalid("username", "Username must be at least %d characters", usernameMinLen)
	}
	if len(username) > usernameMaxLen {
		return invalid("username", "Username must be less than %d characters", usernameMaxLen)
	}

	if requireEmail {
		email = strings.TrimSpace(email)
		if email == "" {
			return invalid("email", "Email is required")
		}
		if !emailPattern.MatchString(email) {
			return invalid("email", "Email must be a valid email address")
		}
	}

	if password == "" {
		return invalid("password", "Password is required")
	}
	if len(password) < passwordMinLen {
		return invalid("password", "Password must be at least %d characters long", passwordMinLen)
	}

	return nil
}
