package domain

import "regexp"

// SignInProviders are the identity providers accepted at login/sign-up.
var SignInProviders = []string{"google.com", "password"}

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// IsValidEmail checks the contact identifier shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidUsername enforces the 4-15 character handle alphabet.
func IsValidUsername(username string) bool {
	return len(username) >= 4 && len(username) <= 15 && usernamePattern.MatchString(username)
}

// IsValidName enforces the display-name length bounds.
func IsValidName(name string) bool {
	return len(name) > 0 && len(name) <= 35
}

// IsValidProvider checks membership in SignInProviders.
func IsValidProvider(provider string) bool {
	for _, p := range SignInProviders {
		if p == provider {
			return true
		}
	}
	return false
}
