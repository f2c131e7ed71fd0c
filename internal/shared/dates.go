package shared

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseCutoff parses a YYMMDD string into midnight of that day in the local time zone.
//
// The century is taken from now; a year more than one year past now.Year() falls back one century,
// so "99" typed in early 2000 means 1999.
func ParseCutoff(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if len(input) != 6 {
		return time.Time{}, fmt.Errorf("%w: got %q", ErrInvalidDateFormat, input)
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return time.Time{}, fmt.Errorf("%w: got %q", ErrInvalidDateFormat, input)
		}
	}

	yy, _ := strconv.Atoi(input[:2])
	month, _ := strconv.Atoi(input[2:4])
	day, _ := strconv.Atoi(input[4:6])

	year := now.Year()/100*100 + yy
	if year > now.Year()+1 {
		year -= 100
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %02d", ErrInvalidDate, month)
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if day < 1 || date.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	return date, nil
}
