package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// DaysPerWeek is the length of a timesheet week, Monday to Sunday.
	DaysPerWeek = 7
)

// Week is a Monday-start calendar week identified by its Monday.
type Week struct {
	Start time.Time
}

// Slot is a 30 minute cell of a calendar day.
type Slot struct {
	Date time.Time
	// Minute of the day the slot starts at, always a multiple of 30.
	Minute int
}

// WeekOf returns the Monday-start week containing t.
func WeekOf(t time.Time) Week {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := int(d.Weekday())
	if offset == 0 {
		offset = 7
	}
	return Week{Start: d.AddDate(0, 0, -offset+1)}
}

// ParseWeek accepts any yyyy-MM-dd date and returns the week containing it.
func ParseWeek(s string) (Week, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Week{}, fmt.Errorf("%w: %q", ErrInvalidWeek, s)
	}
	return WeekOf(d), nil
}

// ID is the Monday formatted as yyyy-MM-dd.
func (w Week) ID() string {
	return w.Start.Format(dateLayout)
}

func (w Week) String() string {
	return w.ID()
}

// Days returns Monday through Sunday.
func (w Week) Days() [DaysPerWeek]time.Time {
	var days [DaysPerWeek]time.Time
	for i := range days {
		days[i] = w.Start.AddDate(0, 0, i)
	}
	return days
}

// End is the Sunday of the week.
func (w Week) End() time.Time {
	return w.Start.AddDate(0, 0, DaysPerWeek-1)
}

// DayIndex returns the 0-based position of date in the week, or -1.
func (w Week) DayIndex(date time.Time) int {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	idx := int(d.Sub(w.Start).Hours() / 24)
	if d.Before(w.Start) || idx >= DaysPerWeek {
		return -1
	}
	return idx
}

func (w Week) Contains(date time.Time) bool {
	return w.DayIndex(date) >= 0
}

func (w Week) Next() Week {
	return Week{Start: w.Start.AddDate(0, 0, DaysPerWeek)}
}

// WeeksInMonth returns every week intersecting the given month, in order.
func WeeksInMonth(year int, month time.Month) []Week {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	var weeks []Week
	for w := WeekOf(first); !w.Start.After(last); w = w.Next() {
		weeks = append(weeks, w)
	}
	return weeks
}

// WeeksInYear returns every week intersecting the given year, in order.
func WeeksInYear(year int) []Week {
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	var weeks []Week
	for w := WeekOf(first); !w.Start.After(last); w = w.Next() {
		weeks = append(weeks, w)
	}
	return weeks
}

// NewSlot builds a slot from a date and a minute of the day.
func NewSlot(date time.Time, minute int) (Slot, error) {
	if minute < 0 || minute >= 24*60 || minute%30 != 0 {
		return Slot{}, fmt.Errorf("%w: minute %d", ErrInvalidSlot, minute)
	}
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return Slot{Date: d, Minute: minute}, nil
}

// ParseSlot parses the canonical slot id yyyy-MM-dd-HH:MM.
func ParseSlot(id string) (Slot, error) {
	id = strings.TrimSpace(id)
	if len(id) != len(dateLayout)+1+len(timeLayout) || id[len(dateLayout)] != '-' {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
	}
	date, err := time.Parse(dateLayout, id[:len(dateLayout)])
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
	}
	minute, err := parseClock(id[len(dateLayout)+1:])
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
	}
	return NewSlot(date, minute)
}

// SlotAt parses a date and an HH:MM time into a slot.
func SlotAt(date, clock string) (Slot, error) {
	return ParseSlot(strings.TrimSpace(date) + "-" + strings.TrimSpace(clock))
}

func parseClock(s string) (int, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ID is the canonical yyyy-MM-dd-HH:MM form.
func (s Slot) ID() string {
	return s.DateID() + "-" + s.Clock()
}

func (s Slot) String() string {
	return s.ID()
}

// DateID is the slot's day as yyyy-MM-dd.
func (s Slot) DateID() string {
	return s.Date.Format(dateLayout)
}

// Clock is the slot start as HH:MM.
func (s Slot) Clock() string {
	return fmt.Sprintf("%02d:%02d", s.Minute/60, s.Minute%60)
}

func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ID())
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	parsed, err := ParseSlot(id)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// DefaultDayTimes are the rows of the calendar grid, 07:00 to 19:30.
func DefaultDayTimes() []string {
	times := make([]string, 0, 26)
	for hour := 7; hour <= 19; hour++ {
		times = append(times, fmt.Sprintf("%02d:00", hour), fmt.Sprintf("%02d:30", hour))
	}
	return times
}

// FormatDate formats a day as yyyy-MM-dd.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a yyyy-MM-dd day in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}
