package utils

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
	"time"
)

// ISTZone is the single timezone policy for the whole app. All month keys and
// "today" values are derived in Asia/Kolkata regardless of server locale; a
// fixed offset avoids a tzdata dependency (IST has no DST).
var ISTZone = time.FixedZone("IST", 5*3600+30*60)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// MonthKeyOf returns the YYYY-MM key for a time, evaluated in IST.
func MonthKeyOf(t time.Time) string {
	return t.In(ISTZone).Format("2006-01")
}

func CurrentMonthKey() string { return MonthKeyOf(time.Now()) }

// TodayISO is today's date in IST as YYYY-MM-DD.
func TodayISO() string { return time.Now().In(ISTZone).Format("2006-01-02") }

func IsValidMonthKey(s string) bool { return monthKeyPattern.MatchString(s) }

// SanitizeMonthKey returns the key unchanged when valid, otherwise the
// current month.
func SanitizeMonthKey(s string) string {
	raw := strings.TrimSpace(s)
	if IsValidMonthKey(raw) {
		return raw
	}
	return CurrentMonthKey()
}

// ParseISODate parses a strict YYYY-MM-DD calendar date in IST. Anything
// else is an error; callers must not treat bad input as an open interval.
func ParseISODate(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)
	t, err := time.ParseInLocation("2006-01-02", raw, ISTZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.In(ISTZone).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, ISTZone)
}

// LeasesOverlap reports whether two date intervals intersect. Comparison is
// on calendar dates; time-of-day is ignored.
func LeasesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	as, ae := dateOnly(aStart), dateOnly(aEnd)
	bs, be := dateOnly(bStart), dateOnly(bEnd)
	return !as.After(be) && !ae.Before(bs)
}

// MonthSpan returns the first and last calendar day of a month key.
func MonthSpan(monthKey string) (time.Time, time.Time, error) {
	if !IsValidMonthKey(monthKey) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month key %q", monthKey)
	}
	first, err := time.ParseInLocation("2006-01", monthKey, ISTZone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month key %q", monthKey)
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// LeaseMonths yields the month keys a lease covers, from start's month
// through end's month inclusive, even for mid-month dates. The sequence is
// finite, ascending and restartable.
func LeaseMonths(start, end time.Time) iter.Seq[string] {
	return func(yield func(string) bool) {
		cursor := time.Date(start.In(ISTZone).Year(), start.In(ISTZone).Month(), 1, 0, 0, 0, 0, ISTZone)
		endMonth := time.Date(end.In(ISTZone).Year(), end.In(ISTZone).Month(), 1, 0, 0, 0, 0, ISTZone)
		for !cursor.After(endMonth) {
			if !yield(cursor.Format("2006-01")) {
				return
			}
			cursor = cursor.AddDate(0, 1, 0)
		}
	}
}

// MonthsCoveredByLease collects LeaseMonths into a slice.
func MonthsCoveredByLease(start, end time.Time) []string {
	months := []string{}
	for monthKey := range LeaseMonths(start, end) {
		months = append(months, monthKey)
	}
	return months
}

// FormatMonth renders a month key as "January 2006"; invalid keys come back
// unchanged.
func FormatMonth(monthKey string) string {
	t, err := time.ParseInLocation("2006-01", monthKey, ISTZone)
	if err != nil {
		return monthKey
	}
	return t.Format("January 2006")
}

// FormatMonthShort renders a month key as "Jan 2006".
func FormatMonthShort(monthKey string) string {
	t, err := time.ParseInLocation("2006-01", monthKey, ISTZone)
	if err != nil {
		return monthKey
	}
	return t.Format("Jan 2006")
}

// FormatDateDDMMYYYY renders an ISO date as DD/MM/YYYY for receipts. Empty
// input renders as "-"; anything not date-shaped passes through.
func FormatDateDDMMYYYY(isoDate string) string {
	raw := strings.TrimSpace(isoDate)
	if raw == "" {
		return "-"
	}
	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return raw
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
