package core

// duration.go parses the time formats found in timing sheets.
//
// All three formats are read by a single 24-hour clock grammar. Lap times and
// pit stop durations are zero-padded up to a full clock reading and measured
// as time elapsed since midnight, so field widths are exact: two-digit
// seconds and three-digit milliseconds.

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// clockLayout is the generic grammar: hour, minute (one or two digits),
// two-digit seconds, exactly three fractional digits.
const clockLayout = "15:4:05.000"

// wallLayout is a strict time of day without fraction.
const wallLayout = "15:04:05"

var errFractionSeparator = errors.New("fraction must follow a dot")

// ParseError reports text that does not match its expected time format.
type ParseError struct {
	Kind string // "lap time", "time of day", "pit stop duration"
	Text string // the offending input, as given
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s (%q)", e.Kind, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// parseClock reads a full clock reading and returns the time since midnight.
func parseClock(s string) (time.Duration, error) {
	// time.Parse also takes a comma before the fraction.
	if strings.ContainsRune(s, ',') {
		return 0, errFractionSeparator
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, err
	}
	return sinceMidnight(t), nil
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

// ParseLapDuration parses "M:SS.mmm", e.g. "1:23.456".
func ParseLapDuration(s string) (time.Duration, error) {
	d, err := parseClock("00:" + s)
	if err != nil {
		return 0, &ParseError{Kind: "lap time", Text: s, Err: err}
	}
	return d, nil
}

// ParsePitStopDuration parses "SS.mmm", e.g. "23.456".
func ParsePitStopDuration(s string) (time.Duration, error) {
	d, err := parseClock("00:00:" + s)
	if err != nil {
		return 0, &ParseError{Kind: "pit stop duration", Text: s, Err: err}
	}
	return d, nil
}

// ParseWallTime parses a 24-hour "HH:MM:SS" time of day. Only the clock
// fields of the returned time are meaningful.
func ParseWallTime(s string) (time.Time, error) {
	// time.Parse accepts a trailing fraction even when the layout has none,
	// and a single-digit hour for "15".
	if strings.ContainsAny(s, ".,") || len(s) != len(wallLayout) {
		return time.Time{}, &ParseError{Kind: "time of day", Text: s}
	}
	t, err := time.Parse(wallLayout, s)
	if err != nil {
		return time.Time{}, &ParseError{Kind: "time of day", Text: s, Err: err}
	}
	return t, nil
}

// FormatLapDuration renders d as "M:SS.mmm".
func FormatLapDuration(d time.Duration) string {
	minutes := d / time.Minute
	seconds := (d % time.Minute) / time.Second
	millis := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%d:%02d.%03d", minutes, seconds, millis)
}

// FormatPitStopDuration renders d as "S.mmm".
func FormatPitStopDuration(d time.Duration) string {
	seconds := d / time.Second
	millis := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%d.%03d", seconds, millis)
}
