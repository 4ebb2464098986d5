package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLapDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"1:23.456", 83456 * time.Millisecond, false},
		{"0:59.999", 59999 * time.Millisecond, false},
		{"12:00.000", 12 * time.Minute, false},
		{"2:05.010", 125010 * time.Millisecond, false},
		{"1:23.45", 0, true},
		{"1:23.4567", 0, true},
		{"1:23,456", 0, true},
		{"1:3.456", 0, true},
		{"1:60.000", 0, true},
		{"83.456", 0, true},
		{"", 0, true},
		{"lap", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLapDuration(tt.input)
			if tt.wantErr {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, tt.input, pe.Text)
				assert.Equal(t, "lap time", pe.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePitStopDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"23.456", 23456 * time.Millisecond, false},
		{"02.100", 2100 * time.Millisecond, false},
		{"2.100", 0, true},
		{"23.45", 0, true},
		{"23,456", 0, true},
		{"23", 0, true},
		{"1:23.456", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePitStopDuration(tt.input)
			if tt.wantErr {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, "pit stop duration", pe.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWallTime(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
		h, m, s int
	}{
		{input: "14:05:09", h: 14, m: 5, s: 9},
		{input: "00:00:00"},
		{input: "23:59:59", h: 23, m: 59, s: 59},
		{input: "14:05", wantErr: true},
		{input: "24:00:00", wantErr: true},
		{input: "14:05:09.123", wantErr: true},
		{input: "14:05:09,123", wantErr: true},
		{input: "9:05:09", wantErr: true},
		{input: "14:5:09", wantErr: true},
		{input: "09:05:09", h: 9, m: 5, s: 9},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWallTime(tt.input)
			if tt.wantErr {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, tt.input, pe.Text)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.h, got.Hour())
			assert.Equal(t, tt.m, got.Minute())
			assert.Equal(t, tt.s, got.Second())
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseLapDuration("1:23.45")
	require.Error(t, err)
	assert.Equal(t, `invalid lap time ("1:23.45")`, err.Error())
}

func TestFormatDurations(t *testing.T) {
	assert.Equal(t, "1:23.456", FormatLapDuration(83456*time.Millisecond))
	assert.Equal(t, "0:09.005", FormatLapDuration(9005*time.Millisecond))
	assert.Equal(t, "23.456", FormatPitStopDuration(23456*time.Millisecond))
	assert.Equal(t, "2.100", FormatPitStopDuration(2100*time.Millisecond))
}

func TestLapDurationRoundTrip(t *testing.T) {
	for _, s := range []string{"1:23.456", "0:59.999", "10:00.001"} {
		d, err := ParseLapDuration(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatLapDuration(d))
	}
}
