package utils_test

import (
	"testing"
	"time"

	"ms-marketplace/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateCalendarForm(t *testing.T) {
	parsed, err := utils.ParseDate("2026-06-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC), parsed)
}

func TestParseDateRFC3339Form(t *testing.T) {
	parsed, err := utils.ParseDate("2026-06-05T14:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.June, 5, 12, 30, 0, 0, time.UTC), parsed)
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := utils.ParseDate("June 5th 2026")
	assert.Error(t, err)
}

func TestEndOfDay(t *testing.T) {
	in := time.Date(2026, time.June, 5, 9, 15, 0, 0, time.UTC)
	out := utils.EndOfDay(in)
	assert.Equal(t, 23, out.Hour())
	assert.Equal(t, 59, out.Minute())
	assert.Equal(t, in.Year(), out.Year())
	assert.Equal(t, in.Day(), out.Day())
}
