package utils

import (
	"strconv"
	"strings"
	"time"
)

type DateFormat string

// Formats the farm API has been observed to emit, most specific first.
const (
	FormatISO8601     DateFormat = "2006-01-02T15:04:05Z07:00"
	FormatISO8601Date DateFormat = "2006-01-02"
	FormatDateTime    DateFormat = "2006-01-02 15:04:05"
	FormatUSDate      DateFormat = "01/02/2006"
	FormatDashDate    DateFormat = "02-01-2006"
)

var supportedDateFormats = []DateFormat{
	FormatISO8601,
	FormatISO8601Date,
	FormatDateTime,
	FormatUSDate,
	FormatDashDate,
}

// ParseDate parses a date string in any supported format, including bare
// unix timestamps. The second return is false when no format matched.
func ParseDate(input string) (time.Time, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, false
	}

	if unixTime, err := strconv.ParseInt(input, 10, 64); err == nil {
		// Valid range: 1970-2100.
		if unixTime > 0 && unixTime < 4102444800 {
			return time.Unix(unixTime, 0).UTC(), true
		}
		return time.Time{}, false
	}

	for _, format := range supportedDateFormats {
		if parsed, err := time.Parse(string(format), input); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

// FormatDate renders a time in the standard wire format.
func FormatDate(t time.Time) string {
	return t.Format(string(FormatISO8601Date))
}
