package service

import (
	"regexp"
	"strings"
)

// usernamePattern: 3–30 characters, leading letter, then letters, digits, or
// underscore. Matching is done on the folded form.
var usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{2,29}$`)

// reservedUsernames blocks names that would collide with product surfaces or
// impersonate the operator. Checked case-insensitively.
var reservedUsernames = map[string]bool{
	"about":         true,
	"abuse":         true,
	"account":       true,
	"admin":         true,
	"administrator": true,
	"api":           true,
	"contact":       true,
	"help":          true,
	"info":          true,
	"login":         true,
	"logout":        true,
	"mail":          true,
	"me":            true,
	"moderator":     true,
	"official":      true,
	"postmaster":    true,
	"profile":       true,
	"register":      true,
	"root":          true,
	"security":      true,
	"settings":      true,
	"signin":        true,
	"signup":        true,
	"staff":         true,
	"support":       true,
	"system":        true,
	"user":          true,
	"users":         true,
	"www":           true,
}

// ValidUsernameFormat reports whether s is a well-formed username.
func ValidUsernameFormat(s string) bool {
	return usernamePattern.MatchString(strings.ToLower(strings.TrimSpace(s)))
}

// IsReservedUsername reports whether s is on the reserved list,
// case-insensitively.
func IsReservedUsername(s string) bool {
	return reservedUsernames[strings.ToLower(strings.TrimSpace(s))]
}

// normalizeFreeText trims s and collapses internal whitespace runs to single
// spaces. Used on mutable profile fields before persistence.
func normalizeFreeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
