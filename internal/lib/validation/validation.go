// Package validation holds the explicit request validators. Each validator
// returns the ordered list of violations; callers report the first one.
package validation

import (
	"net/mail"
	"unicode/utf8"
)

const minPasswordLen = 6

type Violation struct {
	Field   string
	Message string
}

// Register validates a registration request.
func Register(name, email, password string) []Violation {
	var vs []Violation

	if name == "" {
		vs = append(vs, Violation{Field: "name", Message: "Name is required"})
	}
	if !validEmail(email) {
		vs = append(vs, Violation{Field: "email", Message: "Invalid email"})
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		vs = append(vs, Violation{Field: "password", Message: "Password must be at least 6 characters"})
	}

	return vs
}

// Login validates a login request.
func Login(email, password string) []Violation {
	var vs []Violation

	if !validEmail(email) {
		vs = append(vs, Violation{Field: "email", Message: "Invalid email"})
	}
	if password == "" {
		vs = append(vs, Violation{Field: "password", Message: "Password is required"})
	}

	return vs
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}

	addr, err := mail.ParseAddress(email)

	// mail.ParseAddress accepts display names ("Ann <a@x.com>"); only a bare
	// address is a valid credential.
	return err == nil && addr.Address == email
}
