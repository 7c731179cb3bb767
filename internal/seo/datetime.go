package seo

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	isoDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRE   = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// MalformedTimestampError reports a date or time component that failed
// strict format validation.
type MalformedTimestampError struct {
	Field string
	Value string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed %s %q", e.Field, e.Value)
}

// DateTimeRange holds composed local timestamps in ISO-8601 form without
// a zone offset. Empty strings mean the instant could not be derived.
type DateTimeRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// ComposeDateTimes builds start/end timestamps from separate date
// (YYYY-MM-DD) and time (HH:MM) strings. Missing date or startTime yields
// an empty range and no error. Components are validated strictly; a
// malformed one is reported and its timestamp left empty rather than
// emitting a corrupt value. End reuses date unless endDate is given. No
// next-day rollover is inferred: a same-day end earlier than start is
// treated as malformed, overnight events must carry an explicit endDate.
func ComposeDateTimes(date, startTime, endTime, endDate string) (DateTimeRange, error) {
	var rng DateTimeRange
	date = strings.TrimSpace(date)
	startTime = strings.TrimSpace(startTime)
	endTime = strings.TrimSpace(endTime)
	endDate = strings.TrimSpace(endDate)

	if date == "" || startTime == "" {
		return rng, nil
	}
	if err := validDate("date", date); err != nil {
		return rng, err
	}
	start, err := validClock("start_time", startTime)
	if err != nil {
		return rng, err
	}
	rng.Start = date + "T" + startTime + ":00"

	if endTime == "" {
		return rng, nil
	}
	end, err := validClock("end_time", endTime)
	if err != nil {
		return rng, err
	}
	endDay := date
	if endDate != "" {
		if err := validDate("end_date", endDate); err != nil {
			return rng, err
		}
		endDay = endDate
	}
	if endDay == date && end.Before(start) {
		return rng, &MalformedTimestampError{Field: "end_time", Value: endTime}
	}
	rng.End = endDay + "T" + endTime + ":00"
	return rng, nil
}

func validDate(field, value string) error {
	if !isoDateRE.MatchString(value) {
		return &MalformedTimestampError{Field: field, Value: value}
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return &MalformedTimestampError{Field: field, Value: value}
	}
	return nil
}

func validClock(field, value string) (time.Time, error) {
	if !clockRE.MatchString(value) {
		return time.Time{}, &MalformedTimestampError{Field: field, Value: value}
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, &MalformedTimestampError{Field: field, Value: value}
	}
	return t, nil
}
