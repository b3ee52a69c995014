package civildate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	date, err := Parse("2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), time.Time(date))

	date, err = Parse("2025-03-31T18:45:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), time.Time(date))

	_, err = Parse("31/03/2025")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseOptional(t *testing.T) {
	date, err := ParseOptional("  ")
	require.NoError(t, err)
	assert.Nil(t, date)

	date, err = ParseOptional("2025-01-02")
	require.NoError(t, err)
	require.NotNil(t, date)
}
