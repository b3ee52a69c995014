package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)
)

const DefaultLeadCodeTemplate = "LEAD-{SEQ6}"

// FormatLeadCode renders a human-readable lead code from a template, the
// creation time and a monotonic sequence number.
//
// Supported tokens: {YYYY} {YY} {MM} {DD} {SEQ} and {SEQn} for a sequence
// zero-padded to n digits.
func FormatLeadCode(
	template string,
	createdAt time.Time,
	seq int64,
) (string, error) {

	if template == "" {
		return "", fmt.Errorf("lead code template is empty")
	}

	if seq <= 0 {
		return "", fmt.Errorf("invalid lead sequence: %d", seq)
	}

	out := template

	out = strings.ReplaceAll(out, "{YYYY}", createdAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", createdAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", createdAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", createdAt.Format("02"))

	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}

		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}

		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in lead code template: %s", out)
	}

	return out, nil
}
