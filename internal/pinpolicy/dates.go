package pinpolicy

import (
	"fmt"
	"strconv"
	"time"
)

// CalendarDate is a (year, month, day) triple. It may describe an impossible
// date such as February 30; such dates never match any PIN.
type CalendarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// NewCalendarDate builds a CalendarDate from a time.Time.
func NewCalendarDate(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// IsValid reports whether the triple is a real Gregorian date.
func (d CalendarDate) IsValid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	return d.Day <= daysInMonth(d.Year, d.Month)
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func daysInMonth(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// ProjectDate returns every 4- or 6-digit string a person could derive from d:
// DDMM and MMDD, plus DDMMYY, MMDDYY and YYMMDD for each plausible two-digit
// year, in both zero-padded and bare day/month spellings. now anchors the
// current and previous century. An invalid date projects to an empty set.
func ProjectDate(d CalendarDate, now time.Time) map[string]struct{} {
	pins := make(map[string]struct{})
	if !d.IsValid() {
		return pins
	}

	dd := fmt.Sprintf("%02d", d.Day)
	mm := fmt.Sprintf("%02d", d.Month)
	day := strconv.Itoa(d.Day)
	month := strconv.Itoa(d.Month)

	candidates := []string{dd + mm, mm + dd}

	var years []string
	century := now.Year() / 100 * 100
	for _, base := range []int{century - 100, century} {
		if offset := d.Year - base; offset >= 0 && offset < 100 {
			years = append(years, fmt.Sprintf("%02d", offset))
		}
	}
	// Covers years outside both century windows; usually duplicates a bucket.
	years = append(years, fmt.Sprintf("%02d", ((d.Year%100)+100)%100))

	for _, yy := range years {
		candidates = append(candidates,
			dd+mm+yy, mm+dd+yy, yy+mm+dd,
			day+month+yy, month+day+yy, yy+month+day,
		)
	}

	for _, c := range candidates {
		if ValidFormat(c) {
			pins[c] = struct{}{}
		}
	}
	return pins
}
