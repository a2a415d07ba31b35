package utils

import (
	"errors"
	"regexp"
	"time"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]{2,64}$`)

func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return errors.New("username must be 2-64 characters: letters, digits, dot, dash, underscore")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD value, the only date shape accepted on the
// HTTP surface for filters and due dates.
func ValidateDate(value string) error {
	_, err := time.Parse("2006-01-02", value)
	return err
}

func NowUTC() time.Time {
	return time.Now().UTC()
}
