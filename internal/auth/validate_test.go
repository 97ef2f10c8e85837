package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name         string
		username     string
		email        string
		password     string
		requireEmail bool
		wantField    string
		wantMessage  string
	}{
		{
			name:     "valid login",
			username: "Adi",
			password: "secret1",
		},
		{
			name:         "valid registration",
			username:     "Adi",
			email:        "adi@example.com",
			password:     "secret1",
			requireEmail: true,
		},
		{
			name:        "missing username",
			username:    "",
			password:    "secret1",
			wantField:   "username",
			wantMessage: "Username is required",
		},
		{
			name:        "whitespace username",
			username:    "   ",
			password:    "secret1",
			wantField:   "username",
			wantMessage: "Username is required",
		},
		{
			name:        "short username",
			username:    "ab",
			password:    "secret1",
			wantField:   "username",
			wantMessage: "Username must be at least 3 characters",
		},
		{
			name:        "long username",
			username:    strings.Repeat("x", 81),
			password:    "secret1",
			wantField:   "username",
			wantMessage: "Username must be less than 80 characters",
		},
		{
			name:         "missing email on registration",
			username:     "Adi",
			email:        "",
			password:     "secret1",
			requireEmail: true,
			wantField:    "email",
			wantMessage:  "Email is required",
		},
		{
			name:         "malformed email",
			username:     "Adi",
			email:        "not-an-email",
			password:     "secret1",
			requireEmail: true,
			wantField:    "email",
			wantMessage:  "Email must be a valid email address",
		},
		{
			name:         "email missing domain dot",
			username:     "Adi",
			email:        "adi@localhost",
			password:     "secret1",
			requireEmail: true,
			wantField:    "email",
		},
		{
			name:        "missing password",
			username:    "Adi",
			password:    "",
			wantField:   "password",
			wantMessage: "Password is required",
		},
		{
			name:        "short password",
			username:    "Adi",
			password:    "12345",
			wantField:   "password",
			wantMessage: "Password must be at least 6 characters long",
		},
		{
			// Two rules violated at once: only the first is reported.
			name:        "username checked before password",
			username:    "",
			password:    "",
			wantField:   "username",
			wantMessage: "Username is required",
		},
		{
			// Email check runs before the password check on registration.
			name:         "email checked before password",
			username:     "Adi",
			email:        "",
			password:     "",
			requireEmail: true,
			wantField:    "email",
		},
		{
			// Email is ignored entirely for login.
			name:     "bad email ignored on login",
			username: "Adi",
			email:    "not-an-email",
			password: "secret1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := validateCredentials(tt.username, tt.email, tt.password, tt.requireEmail)

			if tt.wantField == "" {
				assert.Nil(t, verr)
				return
			}
			require.NotNil(t, verr)
			assert.Equal(t, tt.wantField, verr.Field)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, verr.Message)
			}
			assert.Equal(t, verr.Message, verr.Error())
		})
	}
}
