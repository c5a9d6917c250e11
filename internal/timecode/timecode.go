// Package timecode provides the millisecond-precision media time value used
// by cues, segments, and every caption format cuecraft reads or writes.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cuecraft/internal/services"
)

// TimeCode is a non-negative offset from the start of a track, stored as
// integer milliseconds so repeated arithmetic stays drift-free.
type TimeCode int64

// Zero is the start of the track.
const Zero TimeCode = 0

// FromMilliseconds builds a TimeCode from a millisecond count. Negative
// values are clamped to zero; media time has no negative offsets.
func FromMilliseconds(ms int64) TimeCode {
	if ms < 0 {
		return Zero
	}
	return TimeCode(ms)
}

// FromDuration converts a time.Duration, truncating to millisecond precision.
func FromDuration(d time.Duration) TimeCode {
	return FromMilliseconds(d.Milliseconds())
}

// FromSeconds converts fractional seconds (the unit transcription engines
// report) to a TimeCode, rounding to the nearest millisecond.
func FromSeconds(s float64) TimeCode {
	if s <= 0 {
		return Zero
	}
	return TimeCode(int64(s*1000 + 0.5))
}

// Milliseconds returns the raw millisecond count.
func (t TimeCode) Milliseconds() int64 { return int64(t) }

// Duration converts the TimeCode to a time.Duration.
func (t TimeCode) Duration() time.Duration { return time.Duration(t) * time.Millisecond }

// Seconds returns the offset as fractional seconds.
func (t TimeCode) Seconds() float64 { return float64(t) / 1000 }

// Add returns the TimeCode offset by d. Results below zero clamp to zero.
func (t TimeCode) Add(d time.Duration) TimeCode {
	return FromMilliseconds(int64(t) + d.Milliseconds())
}

// AddMilliseconds returns the TimeCode offset by ms milliseconds.
func (t TimeCode) AddMilliseconds(ms int64) TimeCode {
	return FromMilliseconds(int64(t) + ms)
}

// Sub returns the duration from other to t. Subtracting a later TimeCode from
// an earlier one is a caller mistake and fails instead of going negative.
func (t TimeCode) Sub(other TimeCode) (time.Duration, error) {
	if other > t {
		return 0, services.Wrap(services.ErrInvalidInterval, "timecode", "sub",
			fmt.Sprintf("cannot subtract %s from earlier %s", other, t), nil)
	}
	return time.Duration(int64(t)-int64(other)) * time.Millisecond, nil
}

// Before reports whether t is strictly earlier than other.
func (t TimeCode) Before(other TimeCode) bool { return t < other }

// String renders the WebVTT form; it is the canonical human-readable form.
func (t TimeCode) String() string { return t.VTT() }

// VTT renders HH:MM:SS.mmm.
func (t TimeCode) VTT() string {
	h, m, s, ms := t.split()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// SRT renders HH:MM:SS,mmm (comma decimal separator per SubRip).
func (t TimeCode) SRT() string {
	h, m, s, ms := t.split()
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// SBV renders H:MM:SS.mmm (single-digit hour field per YouTube SBV).
func (t TimeCode) SBV() string {
	h, m, s, ms := t.split()
	return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms)
}

func (t TimeCode) split() (hours, minutes, seconds, millis int64) {
	total := int64(t)
	millis = total % 1000
	total /= 1000
	seconds = total % 60
	total /= 60
	minutes = total % 60
	hours = total / 60
	return
}

// Parse reads a caption timestamp in any of the supported framings
// (HH:MM:SS.mmm, HH:MM:SS,mmm, H:MM:SS.mmm). Comma and dot millisecond
// separators are both accepted, matching the tolerant parsing of the formats
// this tool exchanges files with.
func Parse(value string) (TimeCode, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Zero, services.Wrap(services.ErrInvalidInterval, "timecode", "parse", "empty timestamp", nil)
	}
	normalized := strings.ReplaceAll(trimmed, ",", ".")

	fields := strings.Split(normalized, ":")
	if len(fields) != 3 {
		return Zero, services.Wrap(services.ErrInvalidInterval, "timecode", "parse",
			fmt.Sprintf("invalid timestamp %q", value), nil)
	}

	hours, errH := strconv.ParseInt(fields[0], 10, 64)
	minutes, errM := strconv.ParseInt(fields[1], 10, 64)
	if errH != nil || errM != nil || hours < 0 || minutes < 0 || minutes > 59 {
		return Zero, services.Wrap(services.ErrInvalidInterval, "timecode", "parse",
			fmt.Sprintf("invalid timestamp %q", value), nil)
	}

	secPart := fields[2]
	var seconds, millis int64
	if dot := strings.IndexByte(secPart, '.'); dot >= 0 {
		var errS, errMS error
		seconds, errS = strconv.ParseInt(secPart[:dot], 10, 64)
		fraction := secPart[dot+1:]
		// Normalize fractional digits to milliseconds.
		switch {
		case len(fraction) == 0:
			millis = 0
		case len(fraction) > 3:
			fraction = fraction[:3]
			millis, errMS = strconv.ParseInt(fraction, 10, 64)
		default:
			millis, errMS = strconv.ParseInt(fraction, 10, 64)
			for i := len(fraction); i < 3; i++ {
				millis *= 10
			}
		}
		if errS != nil || errMS != nil {
			return Zero, services.Wrap(services.ErrInvalidInterval, "timecode", "parse",
				fmt.Sprintf("invalid timestamp %q", value), nil)
		}
	} else {
		var errS error
		seconds, errS = strconv.ParseInt(secPart, 10, 64)
		if errS != nil {
			return Zero, services.Wrap(services.ErrInvalidInterval, "timecode", "parse",
				fmt.Sprintf("invalid timestamp %q", value), nil)
		}
	}
	if seconds < 0 || seconds > 59 || millis < 0 {
		return Zero, services.Wrap(services.ErrInvalidInterval, "timecode", "parse",
			fmt.Sprintf("invalid timestamp %q", value), nil)
	}

	total := ((hours*60+minutes)*60+seconds)*1000 + millis
	return TimeCode(total), nil
}
