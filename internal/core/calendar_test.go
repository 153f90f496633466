package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseWeekNormalizesToMonday(t *testing.T) {
	cases := map[string]string{
		"2025-01-06": "2025-01-06", // Monday
		"2025-01-08": "2025-01-06", // Wednesday
		"2025-01-12": "2025-01-06", // Sunday
		"2025-01-01": "2024-12-30", // crosses the year
	}
	for in, want := range cases {
		w, err := ParseWeek(in)
		if err != nil {
			t.Fatalf("ParseWeek(%q): %v", in, err)
		}
		if w.ID() != want {
			t.Errorf("ParseWeek(%q) = %s, want %s", in, w.ID(), want)
		}
	}
	if _, err := ParseWeek("06/01/2025"); !errors.Is(err, ErrInvalidWeek) {
		t.Fatalf("expected ErrInvalidWeek, got %v", err)
	}
}

func TestWeekDaysAndIndex(t *testing.T) {
	w, _ := ParseWeek("2025-01-06")
	days := w.Days()
	if FormatDate(days[0]) != "2025-01-06" || FormatDate(days[6]) != "2025-01-12" {
		t.Fatalf("unexpected days %v..%v", days[0], days[6])
	}
	if FormatDate(w.End()) != "2025-01-12" {
		t.Fatalf("End() = %s", FormatDate(w.End()))
	}
	tue := time.Date(2025, 1, 7, 15, 0, 0, 0, time.UTC)
	if w.DayIndex(tue) != 1 {
		t.Fatalf("DayIndex(tue) = %d", w.DayIndex(tue))
	}
	if w.Contains(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("next Monday should be outside the week")
	}
	if w.Contains(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("previous Sunday should be outside the week")
	}
}

func TestWeeksInMonth(t *testing.T) {
	// January 2025 starts on a Wednesday and ends on a Friday.
	weeks := WeeksInMonth(2025, time.January)
	if len(weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(weeks))
	}
	if weeks[0].ID() != "2024-12-30" || weeks[4].ID() != "2025-01-27" {
		t.Fatalf("unexpected bounds %s..%s", weeks[0].ID(), weeks[4].ID())
	}
	// February 2021 is exactly four Monday-start weeks.
	if got := len(WeeksInMonth(2021, time.February)); got != 4 {
		t.Fatalf("expected 4 weeks, got %d", got)
	}
}

func TestWeeksInYear(t *testing.T) {
	weeks := WeeksInYear(2025)
	if weeks[0].ID() != "2024-12-30" {
		t.Fatalf("first week = %s", weeks[0].ID())
	}
	if last := weeks[len(weeks)-1]; !last.Contains(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("last week %s does not contain Dec 31", last.ID())
	}
}

func TestParseSlot(t *testing.T) {
	s, err := ParseSlot("2025-01-06-09:30")
	if err != nil {
		t.Fatalf("ParseSlot: %v", err)
	}
	if s.Minute != 9*60+30 || s.DateID() != "2025-01-06" || s.Clock() != "09:30" {
		t.Fatalf("unexpected slot %+v", s)
	}
	if s.ID() != "2025-01-06-09:30" {
		t.Fatalf("ID() = %s", s.ID())
	}

	for _, bad := range []string{"", "2025-01-06", "2025-01-06-09:15", "2025-01-06-25:00", "2025-13-06-09:00", "2025-01-06T09:00"} {
		if _, err := ParseSlot(bad); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("ParseSlot(%q) expected ErrInvalidSlot, got %v", bad, err)
		}
	}
}

func TestSlotJSON(t *testing.T) {
	s, _ := SlotAt("2025-01-07", "10:00")
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-01-07-10:00"` {
		t.Fatalf("marshal = %s", b)
	}
	var back Slot
	if err := json.Unmarshal([]byte(`"2025-01-07-10:00"`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != s {
		t.Fatalf("round trip %v != %v", back, s)
	}
}

func TestDefaultDayTimes(t *testing.T) {
	times := DefaultDayTimes()
	if len(times) != 26 || times[0] != "07:00" || times[len(times)-1] != "19:30" {
		t.Fatalf("unexpected grid %v", times)
	}
}
