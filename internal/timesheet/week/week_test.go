package week

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCurrentSpansSaturdayToFriday(t *testing.T) {
	now := date(2026, time.January, 1)
	for i := 0; i < 400; i++ {
		b := Current(now.AddDate(0, 0, i))

		if b.Start.Weekday() != time.Saturday {
			t.Errorf("start of week for %v is %v, want Saturday", now.AddDate(0, 0, i), b.Start.Weekday())
		}
		if b.End.Weekday() != time.Friday {
			t.Errorf("end of week for %v is %v, want Friday", now.AddDate(0, 0, i), b.End.Weekday())
		}
		if got := b.End.Sub(b.Start); got != 6*24*time.Hour {
			t.Errorf("week span is %v, want 144h", got)
		}
	}
}

func TestCurrentContainsNow(t *testing.T) {
	now := time.Date(2026, time.August, 30, 15, 42, 7, 0, time.UTC)
	b := Current(now)

	day := date(2026, time.August, 30)
	if day.Before(b.Start) || day.After(b.End) {
		t.Errorf("week [%v, %v] does not contain %v", b.Start, b.End, day)
	}
}

func TestCurrentIsPureFunctionOfNow(t *testing.T) {
	now := time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)
	a := Current(now)
	b := Current(now)

	if a != b {
		t.Errorf("Current is not deterministic: %+v vs %+v", a, b)
	}
}

func TestCurrentOnBoundaryDays(t *testing.T) {
	// 2026-08-22 is a Saturday, 2026-08-28 the following Friday.
	saturday := date(2026, time.August, 22)
	friday := date(2026, time.August, 28)

	forSaturday := Current(saturday)
	if !forSaturday.Start.Equal(saturday) || !forSaturday.End.Equal(friday) {
		t.Errorf("week for Saturday = [%v, %v], want [%v, %v]",
			forSaturday.Start, forSaturday.End, saturday, friday)
	}

	forFriday := Current(friday)
	if !forFriday.Start.Equal(saturday) || !forFriday.End.Equal(friday) {
		t.Errorf("week for Friday = [%v, %v], want [%v, %v]",
			forFriday.Start, forFriday.End, saturday, friday)
	}
}

func TestWeekContainingJanuaryFirstIsNumberZero(t *testing.T) {
	// 2025-12-27 is the Saturday starting the week that contains 2026-01-01.
	if got := NumberOf(date(2025, time.December, 27)); got != 0 {
		t.Errorf("NumberOf(2025-12-27) = %d, want 0", got)
	}
	if got := NumberOf(date(2026, time.January, 3)); got != 1 {
		t.Errorf("NumberOf(2026-01-03) = %d, want 1", got)
	}
}

func TestNumberOfMidYear(t *testing.T) {
	// 35 full weeks separate 2026-08-29 from the start of week zero.
	if got := NumberOf(date(2026, time.August, 29)); got != 35 {
		t.Errorf("NumberOf(2026-08-29) = %d, want 35", got)
	}
}

func TestForNumberRoundTrip(t *testing.T) {
	for wn := 0; wn < 52; wn++ {
		b := ForNumber(wn, 2026)

		if b.Start.Weekday() != time.Saturday {
			t.Fatalf("ForNumber(%d, 2026) starts on %v", wn, b.Start.Weekday())
		}
		if got := NumberOf(b.Start); got != wn {
			t.Errorf("NumberOf(ForNumber(%d, 2026).Start) = %d", wn, got)
		}
	}
}

func TestCurrentRoundTripsThroughForNumber(t *testing.T) {
	// Mid-year weeks carry no year ambiguity, so resolving the current
	// week's number within the current year must land on the same span.
	now := date(2026, time.June, 15)
	b := Current(now)

	resolved := ForNumber(b.WeekNumber, now.Year())
	if !resolved.Start.Equal(b.Start) || !resolved.End.Equal(b.End) {
		t.Errorf("ForNumber(%d, 2026) = [%v, %v], want [%v, %v]",
			b.WeekNumber, resolved.Start, resolved.End, b.Start, b.End)
	}
}

func TestForNumberKnownWeek(t *testing.T) {
	b := ForNumber(34, 2026)

	if !b.Start.Equal(date(2026, time.August, 22)) {
		t.Errorf("ForNumber(34, 2026).Start = %v, want 2026-08-22", b.Start)
	}
	if !b.End.Equal(date(2026, time.August, 28)) {
		t.Errorf("ForNumber(34, 2026).End = %v, want 2026-08-28", b.End)
	}
}

func TestBoundariesAreMidnightUTC(t *testing.T) {
	b := Current(time.Date(2026, time.April, 3, 23, 59, 59, 0, time.FixedZone("CEST", 2*3600)))

	for _, tm := range []time.Time{b.Start, b.End} {
		if tm.Location() != time.UTC {
			t.Errorf("boundary %v is not UTC", tm)
		}
		if tm.Hour() != 0 || tm.Minute() != 0 || tm.Second() != 0 {
			t.Errorf("boundary %v is not midnight", tm)
		}
	}
}
