package codename

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Hospital":        "HOSPITAL",
		" private clinic": "PRIVATE_CLINIC",
		"Private-Clinic":  "PRIVATE_CLINIC",
		"PRIVATE_CLINIC":  "PRIVATE_CLINIC",
		"   ":             "",
		"!!!":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), in)
	}
}
