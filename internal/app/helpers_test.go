package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimezoneLocation(t *testing.T) {
	loc, err := parseTimezoneLocation("+07:00")
	require.NoError(t, err)
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 7*3600, offset)

	loc, err = parseTimezoneLocation("-03:30")
	require.NoError(t, err)
	_, offset = time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, -(3*3600 + 30*60), offset)

	loc, err = parseTimezoneLocation("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = parseTimezoneLocation("+25:00")
	assert.Error(t, err)
	_, err = parseTimezoneLocation("Not/AZone")
	assert.Error(t, err)
}

func TestResolveJWTSecret(t *testing.T) {
	s, generated, err := resolveJWTSecret("  configured  ")
	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, "configured", s)

	a, generated, err := resolveJWTSecret("")
	require.NoError(t, err)
	assert.True(t, generated)
	assert.Len(t, a, 64)

	b, _, err := resolveJWTSecret(" ")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHumanizeDuration(t *testing.T) {
	cases := map[time.Duration]string{
		30*time.Second + 400*time.Millisecond: "30s",
		90 * time.Second:                      "1m0s",
		3*time.Hour + 5*time.Minute:           "3h0m0s",
		50 * time.Hour:                        "48h0m0s",
	}
	for in, want := range cases {
		assert.Equal(t, want, humanizeDuration(in), in.String())
	}
}
