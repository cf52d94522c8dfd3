package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
	}{
		{"00:00", 0},
		{"9:30", 9*60 + 30},
		{"09:30", 9*60 + 30},
		{"22:00", 22 * 60},
		{"23:59", 23*60 + 59},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.minutes, got, tc.in)
	}
}

func TestParseClockInvalid(t *testing.T) {
	for _, in := range []string{"", "24:00", "12:60", "noon", "12", "12:3a", "-1:00"} {
		_, err := ParseClock(in)
		assert.Error(t, err, in)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:05", FormatClock(9*60+5))
	assert.Equal(t, "23:59", FormatClock(23*60+59))
	assert.Equal(t, "02:00", FormatClock(26*60), "minutes past midnight wrap into the next day")
}

func TestIsClock(t *testing.T) {
	assert.True(t, IsClock("20:00"))
	assert.False(t, IsClock("25:00"))
}
