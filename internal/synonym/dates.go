package synonym

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/paperbase-labs/paperbase/internal/core/domain"
)

var (
	lastNPattern = regexp.MustCompile(`last\s+(\d+)\s+(day|week|month|year)s?`)
	nextNPattern = regexp.MustCompile(`next\s+(\d+)\s+(day|week|month|year)s?`)
)

// ParseRelativeDate recognises relative date phrases ("last 30 days",
// "next 2 weeks", "yesterday", "this month") and maps them to a
// concrete range anchored at now. The caller supplies now so tests can
// inject a fixed clock. Returns a zero range when no phrase matches.
func ParseRelativeDate(query string, now time.Time) domain.DateRange {
	lower := strings.ToLower(query)
	today := startOfDay(now)

	if m := lastNPattern.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return domain.DateRange{From: shift(today, m[2], -n), To: now}
	}
	if m := nextNPattern.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return domain.DateRange{From: now, To: shift(today, m[2], n).AddDate(0, 0, 1)}
	}

	switch {
	case strings.Contains(lower, "yesterday"):
		y := today.AddDate(0, 0, -1)
		return domain.DateRange{From: y, To: today}
	case strings.Contains(lower, "today"):
		return domain.DateRange{From: today, To: today.AddDate(0, 0, 1)}
	case strings.Contains(lower, "tomorrow"):
		t := today.AddDate(0, 0, 1)
		return domain.DateRange{From: t, To: t.AddDate(0, 0, 1)}
	case strings.Contains(lower, "this week"):
		return domain.DateRange{From: startOfWeek(today), To: now}
	case strings.Contains(lower, "this month"):
		return domain.DateRange{From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), To: now}
	case strings.Contains(lower, "this year"):
		return domain.DateRange{From: time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), To: now}
	}

	return domain.DateRange{}
}

// shift moves t by n units of the named calendar unit.
func shift(t time.Time, unit string, n int) time.Time {
	switch unit {
	case "day":
		return t.AddDate(0, 0, n)
	case "week":
		return t.AddDate(0, 0, 7*n)
	case "month":
		return t.AddDate(0, n, 0)
	case "year":
		return t.AddDate(n, 0, 0)
	}
	return t
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek treats Monday as the first day of the week.
func startOfWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
