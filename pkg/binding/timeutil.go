package binding

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CST is the fixed UTC+8 offset applied to inputs without an explicit zone.
var CST = time.FixedZone("UTC+8", 8*60*60)

var (
	epochPattern = regexp.MustCompile(`^\d{10}$`)
	zonePattern  = regexp.MustCompile(`([zZ]|[+-]\d\d:?\d\d)$`)
)

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ToTs normalises input to epoch seconds. A 10-digit string is taken as an
// epoch value already; anything else must be a date or datetime
// ("2026-02-12", "2026-02-12 19:00", "2026-02-12T19:00:00+08:00").
// A missing time means midnight and a missing zone means UTC+8.
func ToTs(input string) (int64, error) {
	s := strings.TrimSpace(input)
	if epochPattern.MatchString(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDatetime, input)
		}
		return n, nil
	}

	s = strings.Replace(s, " ", "T", 1)
	loc := CST
	if zone := zonePattern.FindString(s); zone != "" {
		parsed, err := parseZone(zone)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDatetime, input)
		}
		loc = parsed
		s = strings.TrimSuffix(s, zone)
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDatetime, input)
}

func parseZone(zone string) (*time.Location, error) {
	if zone == "Z" || zone == "z" {
		return time.UTC, nil
	}
	sign := 1
	if zone[0] == '-' {
		sign = -1
	}
	digits := strings.ReplaceAll(zone[1:], ":", "")
	hh, err := strconv.Atoi(digits[:2])
	if err != nil {
		return nil, err
	}
	mm, err := strconv.Atoi(digits[2:])
	if err != nil {
		return nil, err
	}
	if hh > 23 || mm > 59 {
		return nil, fmt.Errorf("zone offset out of range: %s", zone)
	}
	return time.FixedZone(zone, sign*(hh*3600+mm*60)), nil
}

// Hours returns the span between two epoch values in hours, rounded to two
// decimals and printed in its shortest form ("8", "3.5", "2.25").
func Hours(start, end int64) (string, error) {
	if end <= start {
		return "", ErrInvalidRange
	}
	h := float64(end-start) / 3600
	return strconv.FormatFloat(math.Round(h*100)/100, 'f', -1, 64), nil
}

// FormatCN renders ts as "2026/2/12 19:00" in UTC+8.
func FormatCN(ts int64) string {
	return time.Unix(ts, 0).In(CST).Format("2006/1/2 15:04")
}

// FormatCNDate renders ts as "2026/2/12" in UTC+8.
func FormatCNDate(ts int64) string {
	return time.Unix(ts, 0).In(CST).Format("2006/1/2")
}

// FormatDate renders ts as "2026-02-12" in UTC+8.
func FormatDate(ts int64) string {
	return time.Unix(ts, 0).In(CST).Format("2006-01-02")
}

// IsWeekend reports whether ts falls on a Saturday or Sunday in UTC+8.
func IsWeekend(ts int64) bool {
	switch time.Unix(ts, 0).In(CST).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// DayStart returns midnight, UTC+8, of the calendar day containing ts.
func DayStart(ts int64) int64 {
	t := time.Unix(ts, 0).In(CST)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, CST).Unix()
}
