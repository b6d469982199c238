package domain

import (
	"errors"
	"time"
)

var ErrInvalidDate = errors.New("invalid_date")

const dateKeyLayout = "2006-01-02"

// MaxOffsetMinutes bounds the client-supplied UTC offset (UTC±14:00).
const MaxOffsetMinutes = 14 * 60

// ToDateKey returns the YYYY-MM-DD calendar date that the instant falls into
// when shifted by a fixed offset (minutes, east-positive). The offset is a
// plain number, not a named timezone: no DST rules apply, which can drift the
// apparent local date by up to the DST delta around a transition. Accepted
// trade-off; the offset comes from the client on every request.
func ToDateKey(t time.Time, offsetMinutes int) string {
	if t.IsZero() {
		return ""
	}
	shifted := t.UTC().Add(time.Duration(offsetMinutes) * time.Minute)
	return shifted.Format(dateKeyLayout)
}

// StartOfDayLocalAsUTC returns the UTC instant of 00:00 local time of the day
// containing t in the shifted frame.
func StartOfDayLocalAsUTC(t time.Time, offsetMinutes int) time.Time {
	offset := time.Duration(offsetMinutes) * time.Minute
	shifted := t.UTC().Add(offset)
	midnight := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Add(-offset)
}

// AddDaysUTC shifts an instant by n whole days of wall-clock arithmetic.
func AddDaysUTC(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * 24 * time.Hour)
}

// ParseDateKey validates a YYYY-MM-DD string and returns its UTC midnight.
func ParseDateKey(s string) (time.Time, error) {
	t, err := time.Parse(dateKeyLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// AddDaysToKey shifts a date key by n days. Invalid keys come back unchanged
// so callers iterating windows never panic on corrupted input.
func AddDaysToKey(key string, n int) string {
	t, err := ParseDateKey(key)
	if err != nil {
		return key
	}
	return AddDaysUTC(t, n).Format(dateKeyLayout)
}

// DateKeyWindow returns the date keys for the `days` local days ending at
// endKey, oldest first.
func DateKeyWindow(endKey string, days int) []string {
	if days <= 0 {
		return nil
	}
	keys := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		keys = append(keys, AddDaysToKey(endKey, -i))
	}
	return keys
}

// ClampOffset forces a client-supplied offset into the valid UTC range.
func ClampOffset(offsetMinutes int) int {
	if offsetMinutes > MaxOffsetMinutes {
		return MaxOffsetMinutes
	}
	if offsetMinutes < -MaxOffsetMinutes {
		return -MaxOffsetMinutes
	}
	return offsetMinutes
}
