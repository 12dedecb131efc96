package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Bank exports disagree wildly on date formats, so parsing is a fixed
// strategy chain: combined date+12h-time (Korean or English meridiem),
// bare date, 8-digit compact date, then a generic layout list.
var (
	dateTimeRe = regexp.MustCompile(
		`^(\d{4})[./-](\d{1,2})[./-](\d{1,2})\s+(?:(오전|오후|AM|PM|am|pm)\s*)?(\d{1,2}):(\d{2})(?::(\d{2}))?(?:\s*(오전|오후|AM|PM|am|pm))?$`)
	dateOnlyRe = regexp.MustCompile(`^(\d{4})[./-](\d{1,2})[./-](\d{1,2})$`)
	compactRe  = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
)

// fallbackLayouts is the deterministic last-resort attempt order.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"Jan 2, 2006",
	"2 Jan 2006",
	"01/02/2006",
}

// ParseWhen parses a source date string into a UTC instant. Date-only inputs
// land on midnight.
func ParseWhen(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := dateTimeRe.FindStringSubmatch(s); m != nil {
		meridiem := m[4]
		if meridiem == "" {
			meridiem = m[8]
		}
		hour := atoi(m[5])
		if !applyMeridiem(&hour, meridiem) {
			return time.Time{}, false
		}
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), hour, atoi(m[6]), atoi(m[7]))
	}

	if m := dateOnlyRe.FindStringSubmatch(s); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), 0, 0, 0)
	}

	if m := compactRe.FindStringSubmatch(s); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), 0, 0, 0)
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// applyMeridiem converts a 12-hour clock reading to 24-hour. PM adds 12
// unless the hour already is 12; AM at 12 wraps to 0. An empty marker means
// the clock was already 24-hour.
func applyMeridiem(hour *int, meridiem string) bool {
	switch strings.ToUpper(meridiem) {
	case "":
		return *hour <= 23
	case "PM", "오후":
		if *hour > 12 {
			return false
		}
		if *hour != 12 {
			*hour += 12
		}
		return true
	case "AM", "오전":
		if *hour > 12 {
			return false
		}
		if *hour == 12 {
			*hour = 0
		}
		return true
	}
	return false
}

// makeDate builds a UTC time and rejects field values that time.Date would
// silently normalize (month 13, day 32).
func makeDate(year, month, day, hour, min, sec int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || min > 59 || sec > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
	if int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
