package localtime

import (
	"testing"
	"time"
)

func TestParseLocalInputConvertsToUTC(t *testing.T) {
	got, ok := ParseLocalInput("2024-03-04T08:30")
	if !ok {
		t.Fatalf("expected local input to parse")
	}
	want := time.Date(2024, time.March, 4, 13, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %s", got.Location())
	}
}

func TestParseLocalInputWithSeconds(t *testing.T) {
	got, ok := ParseLocalInput("  2024-03-04T23:15:45 ")
	if !ok {
		t.Fatalf("expected local input with seconds to parse")
	}
	want := time.Date(2024, time.March, 5, 4, 15, 45, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseLocalInputRejectsInvalid(t *testing.T) {
	cases := []string{
		"",
		"not-a-date",
		"2024-13-01T00:00",
		"2024-00-10T00:00",
		"2024-03-00T00:00",
		"2024-03-32T00:00",
		"2024-03-04T24:00",
		"2024-03-04T10:60",
		"2024-03-04T10:30:60",
		"2024-03-04 10:30",
		"2024-3-04T10:30",
		"2024-03-04T8:30",
		"2024-03-04T08:30Z",
		"2023-02-29T10:00",
		"2024-02-30T10:00",
		"2024-04-31T10:00",
	}
	for _, input := range cases {
		if got, ok := ParseLocalInput(input); ok {
			t.Fatalf("expected %q to be rejected, got %s", input, got)
		}
	}
}

func TestParseLocalInputAcceptsLeapDay(t *testing.T) {
	if _, ok := ParseLocalInput("2024-02-29T10:00"); !ok {
		t.Fatalf("expected leap day to parse")
	}
}

func TestLocalInputRoundTrip(t *testing.T) {
	for _, input := range []string{"2024-03-04T08:30", "2024-01-01T00:00", "2023-12-31T23:59", "2024-02-29T19:05"} {
		instant, ok := ParseLocalInput(input)
		if !ok {
			t.Fatalf("expected %q to parse", input)
		}
		if got := ToLocalInput(instant); got != input {
			t.Fatalf("round trip mismatch: %q -> %q", input, got)
		}
	}
}

func TestToLocalInputAcceptsStrings(t *testing.T) {
	if got := ToLocalInput("2024-03-04T13:30:00Z"); got != "2024-03-04T08:30" {
		t.Fatalf("expected 2024-03-04T08:30, got %q", got)
	}
	if got := ToLocalInput("2024-03-04T13:30:00.123+00:00"); got != "2024-03-04T08:30" {
		t.Fatalf("expected 2024-03-04T08:30, got %q", got)
	}
	if got := ToLocalInput("garbage"); got != "" {
		t.Fatalf("expected empty string for garbage, got %q", got)
	}
	if got := ToLocalInput(time.Time{}); got != "" {
		t.Fatalf("expected empty string for zero time, got %q", got)
	}
}

func TestNowLocalInputUsesClock(t *testing.T) {
	orig := now
	t.Cleanup(func() { now = orig })
	now = func() time.Time { return time.Date(2024, time.March, 4, 2, 10, 0, 0, time.UTC) }

	if got := NowLocalInput(); got != "2024-03-03T21:10" {
		t.Fatalf("expected 2024-03-03T21:10, got %q", got)
	}
}

func TestKeysAcrossDayBoundary(t *testing.T) {
	a := time.Date(2024, time.March, 4, 4, 59, 0, 0, time.UTC)
	b := time.Date(2024, time.March, 3, 23, 59, 0, 0, time.UTC)

	if DayKey(a) != "2024-03-03" || DayKey(b) != "2024-03-03" {
		t.Fatalf("expected both day keys to be 2024-03-03, got %q and %q", DayKey(a), DayKey(b))
	}
	if MonthKey(a) != MonthKey(b) || MonthKey(a) != "2024-03" {
		t.Fatalf("expected month key 2024-03, got %q and %q", MonthKey(a), MonthKey(b))
	}

	c := time.Date(2024, time.March, 4, 5, 0, 0, 0, time.UTC)
	if DayKey(c) != "2024-03-04" {
		t.Fatalf("expected 2024-03-04 at local midnight, got %q", DayKey(c))
	}
}

func TestMonthKeyAcrossYearBoundary(t *testing.T) {
	instant := "2024-01-01T03:00:00Z"
	if got := MonthKey(instant); got != "2023-12" {
		t.Fatalf("expected 2023-12, got %q", got)
	}
	if got := MonthLabel(instant); got != "Diciembre de 2023" {
		t.Fatalf("expected Diciembre de 2023, got %q", got)
	}
}

func TestLabels(t *testing.T) {
	instant := time.Date(2024, time.March, 4, 13, 30, 0, 0, time.UTC)

	if got := MonthLabel(instant); got != "Marzo de 2024" {
		t.Fatalf("unexpected month label %q", got)
	}
	if got := DayLabel(instant); got != "Lunes 4" {
		t.Fatalf("unexpected day label %q", got)
	}
	if got := TimeLabel(instant); got != "08:30" {
		t.Fatalf("unexpected time label %q", got)
	}
	if got := ChartLabel(instant); got != "04 mar 08:30" {
		t.Fatalf("unexpected chart label %q", got)
	}
	if got := FullLabel(instant); got != "04 de marzo, 08:30" {
		t.Fatalf("unexpected full label %q", got)
	}
}

func TestDayLabelCapitalizesAccentedWeekday(t *testing.T) {
	// 2024-03-06 is a Wednesday.
	if got := DayLabel("2024-03-06T15:00:00Z"); got != "Miércoles 6" {
		t.Fatalf("unexpected day label %q", got)
	}
	// 2024-03-09 is a Saturday.
	if got := DayLabel("2024-03-09T15:00:00Z"); got != "Sábado 9" {
		t.Fatalf("unexpected day label %q", got)
	}
}

func TestDayKeyMatchesTimeLabel(t *testing.T) {
	instant := time.Date(2024, time.March, 4, 4, 30, 0, 0, time.UTC)
	if DayKey(instant) != "2024-03-03" || TimeLabel(instant) != "23:30" {
		t.Fatalf("inconsistent derivations: %q %q", DayKey(instant), TimeLabel(instant))
	}
	if DayLabel(instant) != "Domingo 3" {
		t.Fatalf("expected Domingo 3, got %q", DayLabel(instant))
	}
}

func TestFormattersReturnEmptyOnInvalidInput(t *testing.T) {
	for name, got := range map[string]string{
		"month label": MonthLabel("nope"),
		"day label":   DayLabel("nope"),
		"month key":   MonthKey("nope"),
		"day key":     DayKey(time.Time{}),
		"time label":  TimeLabel(""),
		"chart label": ChartLabel("2024-99-99"),
		"full label":  FullLabel("nope"),
	} {
		if got != "" {
			t.Fatalf("%s: expected empty string, got %q", name, got)
		}
	}
}

func TestParseInstant(t *testing.T) {
	want := time.Date(2024, time.March, 4, 13, 30, 0, 0, time.UTC)
	for _, input := range []string{
		"2024-03-04T13:30:00Z",
		"2024-03-04T08:30:00-05:00",
		"2024-03-04 13:30:00+00",
		"2024-03-04T13:30:00.000000+00:00",
		"2024-03-04T13:30:00",
	} {
		got, ok := ParseInstant(input)
		if !ok {
			t.Fatalf("expected %q to parse", input)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: expected %s, got %s", input, want, got)
		}
	}
	if _, ok := ParseInstant("04/03/2024"); ok {
		t.Fatalf("expected non-ISO date to be rejected")
	}
}
