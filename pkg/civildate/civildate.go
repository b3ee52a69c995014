// Package civildate parses calendar dates coming from API payloads.
package civildate

import (
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const Layout = "2006-01-02"

var ErrInvalid = errors.New("invalid date")

// Parse accepts YYYY-MM-DD or an RFC 3339 timestamp and drops the time of day.
func Parse(raw string) (datatypes.Date, error) {
	value := strings.TrimSpace(raw)
	parsed, err := time.Parse(Layout, value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return datatypes.Date{}, ErrInvalid
		}
	}
	y, m, d := parsed.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)), nil
}

// ParseOptional returns nil for blank input.
func ParseOptional(raw string) (*datatypes.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	date, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
