package services

import (
	"strings"
	"time"

	"pos-api/models"
	"pos-api/store"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

const (
	FilterToday = "today"
	FilterWeek  = "week"
	FilterMonth = "month"
	FilterAll   = "all"
)

var allTimeStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// WindowStart maps a dashboard filter to the first instant it covers.
func WindowStart(filter string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day := startOfDay(now, loc)
	switch strings.ToLower(filter) {
	case FilterToday:
		return day, nil
	case FilterWeek:
		return day.AddDate(0, 0, -7), nil
	case FilterMonth:
		return day.AddDate(0, -1, 0), nil
	case FilterAll:
		return allTimeStart, nil
	default:
		return time.Time{}, models.InvalidArgument("invalid filter %q, use today, week, month or all", filter)
	}
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp. The
// boolean reports whether only a date was given.
func parseDate(raw string, loc *time.Location) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(store.DayLayout, raw, loc); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, models.InvalidArgument("invalid date %q, use YYYY-MM-DD", raw)
}

// statisticsRange turns optional start/end strings into a half-open range.
// A date-only end covers that whole day.
func statisticsRange(start, end string, loc *time.Location) (store.DateRange, error) {
	var r store.DateRange
	if start != "" {
		from, _, err := parseDate(start, loc)
		if err != nil {
			return r, err
		}
		r.From = &from
	}
	if end != "" {
		to, dateOnly, err := parseDate(end, loc)
		if err != nil {
			return r, err
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1)
		} else {
			to = to.Add(time.Nanosecond)
		}
		r.To = &to
	}
	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return r, models.InvalidArgument("startDate must be before endDate")
	}
	return r, nil
}
