package domain

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("invalid time range: start must be before end")

// TimeRange is a half-open UTC interval [Start, End). All comparisons are on
// the instant; timezone-local arithmetic is a presentation concern and never
// happens here.
type TimeRange struct {
	Start time.Time `json:"startAt"`
	End   time.Time `json:"endAt"`
}

// NewTimeRange builds a TimeRange, normalising both instants to UTC.
// Fails with ErrInvalidRange when start >= end.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	start = start.UTC()
	end = end.UTC()
	if !start.Before(end) {
		return TimeRange{}, ErrInvalidRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Overlaps reports whether the two ranges share at least one instant.
// Strict inequality on both sides: abutting ranges do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Duration returns End - Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Contains reports whether t falls inside the half-open interval.
func (r TimeRange) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(r.Start) && t.Before(r.End)
}

// DayRange returns the UTC day [00:00, +24h) containing day's date.
func DayRange(day time.Time) TimeRange {
	day = day.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return TimeRange{Start: start, End: start.AddDate(0, 0, 1)}
}
