package canonical

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("issuedDate is not a valid date")

// isoMillis is the Date#toISOString layout.
const isoMillis = "2006-01-02T15:04:05.000Z"

// maxDateMillis is the largest magnitude a JavaScript Date can hold.
const maxDateMillis = 8.64e15

// Layouts accepted for string dates. Values without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	time.RFC1123,
	time.RFC1123Z,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 2 2006 15:04:05 GMT-0700",
}

// zoneSuffix strips the " (Central European Standard Time)" tail of Date#toString.
var zoneSuffix = regexp.MustCompile(`\s*\([^)]*\)$`)

// IssuedAt converts an issuedDate value to ISO-8601 UTC with milliseconds.
// Numbers are epoch milliseconds and null is the epoch, as with new Date(x).
func IssuedAt(f Field) (string, error) {
	if !f.Present() {
		return "", ErrInvalidDate
	}
	if f.isNull() {
		return time.UnixMilli(0).UTC().Format(isoMillis), nil
	}

	raw := f.Raw()
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", ErrInvalidDate
		}
		t, err := parseDate(s)
		if err != nil {
			return "", err
		}
		return t.UTC().Format(isoMillis), nil
	case '{', '[', 't', 'f':
		return "", ErrInvalidDate
	default:
		var ms float64
		if err := json.Unmarshal(raw, &ms); err != nil || math.Abs(ms) > maxDateMillis {
			return "", ErrInvalidDate
		}
		return time.UnixMilli(int64(ms)).UTC().Format(isoMillis), nil
	}
}

func parseDate(s string) (time.Time, error) {
	s = zoneSuffix.ReplaceAllString(strings.TrimSpace(s), "")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
