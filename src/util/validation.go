package util

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	emailRe   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	lowerRe   = regexp.MustCompile("[a-z]")
	upperRe   = regexp.MustCompile("[A-Z]")
	digitRe   = regexp.MustCompile("[0-9]")
	specialRe = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidateName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= 1 && n <= 100
}

func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return lowerRe.MatchString(password) &&
		upperRe.MatchString(password) &&
		digitRe.MatchString(password) &&
		specialRe.MatchString(password)
}

// ParseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates, the latter
// read as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation("2006-01-02", value, loc)
}
