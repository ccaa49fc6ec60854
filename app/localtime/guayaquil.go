// Package localtime converts between UTC instants and Guayaquil civil time.
//
// Guayaquil observes a constant UTC-05:00 offset with no daylight saving, so the zone is
// a fixed offset rather than a tz database lookup. Stored values are always UTC; this
// package is used for display labels, grouping keys and parsing form input.
package localtime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	ZoneName      = "America/Guayaquil"
	utcOffsetSecs = -5 * 60 * 60
)

// Zone is the fixed -05:00 offset applied to every conversion.
var Zone = time.FixedZone("-05", utcOffsetSecs)

// DateInput is accepted by every formatter: a structured timestamp or an ISO-8601 string.
type DateInput interface {
	time.Time | string
}

var now = time.Now

var localInputPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2})(?::(\d{2}))?$`)

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07",
}

// Zone-less layouts are read as UTC.
var utcLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var shortMonthNames = [...]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sept", "oct", "nov", "dic",
}

var weekdayNames = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

// ParseInstant reads an ISO-8601 timestamp. Values without an offset are taken as UTC.
func ParseInstant(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	for _, layout := range utcLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func toLocal[T DateInput](value T) (time.Time, bool) {
	switch v := any(value).(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v.In(Zone), true
	case string:
		t, ok := ParseInstant(v)
		if !ok {
			return time.Time{}, false
		}
		return t.In(Zone), true
	}
	return time.Time{}, false
}

// ToLocalInput renders YYYY-MM-DDTHH:mm for a datetime-local form field.
func ToLocalInput[T DateInput](value T) string {
	t, ok := toLocal(value)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02T15:04")
}

func NowLocalInput() string {
	return ToLocalInput(now())
}

// ParseLocalInput interprets YYYY-MM-DDTHH:mm[:ss] as Guayaquil civil time and returns
// the matching UTC instant. Days past the end of the month are rejected.
func ParseLocalInput(text string) (time.Time, bool) {
	match := localInputPattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return time.Time{}, false
	}

	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])
	hour, _ := strconv.Atoi(match[4])
	minute, _ := strconv.Atoi(match[5])
	second := 0
	if match[6] != "" {
		second, _ = strconv.Atoi(match[6])
	}

	if month < 1 || month > 12 ||
		day < 1 || day > 31 ||
		hour < 0 || hour > 23 ||
		minute < 0 || minute > 59 ||
		second < 0 || second > 59 {
		return time.Time{}, false
	}
	if day > daysIn(time.Month(month), year) {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, Zone).UTC(), true
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthLabel renders e.g. "Marzo de 2024".
func MonthLabel[T DateInput](value T) string {
	t, ok := toLocal(value)
	if !ok {
		return ""
	}
	return capitalize(fmt.Sprintf("%s de %d", monthNames[t.Month()-1], t.Year()))
}

// DayLabel renders e.g. "Lunes 4".
func DayLabel[T DateInput](value T) string {
	t, ok := toLocal(value)
	if !ok {
		return ""
	}
	return capitalize(fmt.Sprintf("%s %d", weekdayNames[t.Weekday()], t.Day()))
}

func MonthKey[T DateInput](value T) string {
	t, ok := toLocal(value)
	if !ok {
		return ""
	}
	return t.Format("2006-01")
}

func DayKey[T DateInput](value T) string {
	t, ok := toLocal(value)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// TimeLabel renders HH:mm on a 24-hour clock.
func TimeLabel[T DateInput](value T) string {
	t, ok := toLocal(value)
	if !ok {
		return ""
	}
	return t.Format("15:04")
}

// ChartLabel renders a compact axis tick, e.g. "04 mar 08:30".
func ChartLabel[T DateInput](value T) string {
	t, ok := toLocal(value)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d %s %s", t.Day(), shortMonthNames[t.Month()-1], t.Format("15:04"))
}

// FullLabel renders a tooltip label, e.g. "04 de marzo, 08:30".
func FullLabel[T DateInput](value T) string {
	t, ok := toLocal(value)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d de %s, %s", t.Day(), monthNames[t.Month()-1], t.Format("15:04"))
}

func capitalize(value string) string {
	r, size := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError {
		return value
	}
	// Casers keep state, so one is built per call.
	return cases.Upper(language.Spanish).String(string(r)) + value[size:]
}
