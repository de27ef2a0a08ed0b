// Package week implements the Saturday-to-Friday week arithmetic that
// timesheet periods are keyed by.
//
// Week numbers follow the payroll calendar convention: week-of-year is
// computed with Saturday as the first day of the week (a week containing
// January 1 counts as week 1 of the new year), then decremented by one.
// External consumers of week numbers depend on that offset, so it is
// preserved here exactly.
package week

import "time"

// Boundary is one Saturday-to-Friday span. Start and End are UTC midnight
// dates; End is always Start plus six days.
type Boundary struct {
	Start      time.Time
	End        time.Time
	WeekNumber int
}

const daysPerWeek = 7

// Current returns the boundary of the week containing now: End is the
// Friday on or after now within its week, Start the Saturday six days
// earlier. Pure function of now.
func Current(now time.Time) Boundary {
	day := midnight(now)
	offset := (int(time.Friday) - int(day.Weekday()) + daysPerWeek) % daysPerWeek
	end := day.AddDate(0, 0, offset)
	start := end.AddDate(0, 0, -(daysPerWeek - 1))
	return Boundary{
		Start:      start,
		End:        end,
		WeekNumber: NumberOf(start),
	}
}

// ForNumber returns the boundary of the given week number within the given
// year. A bare week number does not determine a year, so the reference year
// is always explicit; callers resolving "this year" pass the year of the
// current instant.
func ForNumber(weekNumber, year int) Boundary {
	start := firstWeekStart(year).AddDate(0, 0, daysPerWeek*weekNumber)
	return Boundary{
		Start:      start,
		End:        start.AddDate(0, 0, daysPerWeek-1),
		WeekNumber: weekNumber,
	}
}

// NumberOf returns the week number of the week whose Saturday start is
// given. The week containing January 1 of the following year already counts
// as week 1 (number 0) of that year.
func NumberOf(start time.Time) int {
	start = midnight(start)

	nextJan1 := time.Date(start.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !start.After(nextJan1) && !nextJan1.After(start.AddDate(0, 0, daysPerWeek-1)) {
		return 0
	}

	weeks := int(start.Sub(firstWeekStart(start.Year())).Hours()) / (24 * daysPerWeek)
	return weeks
}

// firstWeekStart is the Saturday on or before January 1 of the year, i.e.
// the start of week 1.
func firstWeekStart(year int) time.Time {
	return saturdayOnOrBefore(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
}

func saturdayOnOrBefore(t time.Time) time.Time {
	day := midnight(t)
	back := (int(day.Weekday()) - int(time.Saturday) + daysPerWeek) % daysPerWeek
	return day.AddDate(0, 0, -back)
}

func midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
