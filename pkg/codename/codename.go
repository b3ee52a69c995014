// Package codename normalizes free-text labels into UPPER_SNAKE codes.
package codename

import (
	"strings"

	"github.com/gosimple/slug"
)

// Normalize maps "Private Clinic" and "private-clinic" to "PRIVATE_CLINIC".
// It returns an empty string when nothing usable remains.
func Normalize(raw string) string {
	s := slug.Make(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
}
