package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateString(t *testing.T) {
	// Время и зона отбрасываются, дата берется в UTC
	loc := time.FixedZone("UTC+5", 5*3600)
	moment := time.Date(2025, 10, 15, 2, 30, 0, 0, loc) // 2025-10-14 21:30 UTC

	assert.Equal(t, DateString("2025-10-14"), NewDateString(moment))
}

func TestNewDateStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid date", "2025-10-15", false},
		{"leap day", "2024-02-29", false},
		{"invalid format", "15.10.2025", true},
		{"not a date", "hello", true},
		{"invalid day", "2025-02-30", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDateStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, d.String())
		})
	}
}

func TestDateString_AddDays(t *testing.T) {
	d := DateString("2025-10-30")

	next, err := d.AddDays(3)
	require.NoError(t, err)
	assert.Equal(t, DateString("2025-11-02"), next)

	prev, err := d.AddDays(-30)
	require.NoError(t, err)
	assert.Equal(t, DateString("2025-09-30"), prev)

	_, err = DateString("garbage").AddDays(1)
	assert.Error(t, err)
}

func TestDateString_Compare(t *testing.T) {
	a := DateString("2025-10-15")
	b := DateString("2025-10-16")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
}

func TestDateString_Time(t *testing.T) {
	d := DateString("2025-10-15")

	moment, err := d.Time()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), moment)
}

func TestDateString_IsZero(t *testing.T) {
	assert.True(t, DateString("").IsZero())
	assert.False(t, DateString("2025-10-15").IsZero())
}
