package codec

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNegativeDuration is returned for durations below zero. Care
// intervals are always non-negative; zero is the "no reminder" sentinel.
var ErrNegativeDuration = errors.New("duration must not be negative")

// Duration is a time.Duration that serializes as an ISO-8601 duration
// string (e.g. "PT72H", "P3DT5H30M", "PT3.5S") instead of raw ticks.
// Values round-trip exactly through format/parse.
type Duration time.Duration

// Std returns the plain time.Duration value.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	s, err := FormatISODuration(time.Duration(d))
	if err != nil {
		return nil, err
	}
	return []byte(strconv.Quote(s)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("duration is not a string: %w", err)
	}
	parsed, err := ParseISODuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// FormatISODuration renders a non-negative duration as ISO-8601.
// Hours are the largest emitted unit, matching the legacy documents.
func FormatISODuration(d time.Duration) (string, error) {
	if d < 0 {
		return "", ErrNegativeDuration
	}
	if d == 0 {
		return "PT0S", nil
	}

	var b strings.Builder
	b.WriteString("PT")

	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d.Seconds()

	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	if seconds > 0 {
		b.WriteString(strconv.FormatFloat(seconds, 'f', -1, 64))
		b.WriteString("S")
	}
	return b.String(), nil
}

// isoDurationPattern accepts the P[nD][T[nH][nM][nS]] shape with an
// optional fractional seconds component.
var isoDurationPattern = regexp.MustCompile(
	`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseISODuration parses an ISO-8601 duration string. Days, hours,
// minutes and fractional seconds are accepted; negative or malformed
// input is an error.
func ParseISODuration(s string) (time.Duration, error) {
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+-") {
		return 0, ErrNegativeDuration
	}
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "" && m[4] == "") {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", s)
	}

	var total time.Duration
	if m[1] != "" {
		days, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid days in %q: %w", s, err)
		}
		total += time.Duration(days) * 24 * time.Hour
	}
	if m[2] != "" {
		hours, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hours in %q: %w", s, err)
		}
		total += time.Duration(hours) * time.Hour
	}
	if m[3] != "" {
		minutes, err := strconv.ParseInt(m[3], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid minutes in %q: %w", s, err)
		}
		total += time.Duration(minutes) * time.Minute
	}
	if m[4] != "" {
		seconds, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid seconds in %q: %w", s, err)
		}
		total += time.Duration(seconds * float64(time.Second))
	}
	return total, nil
}
