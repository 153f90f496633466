package services

import (
	"context"
	"errors"
	"testing"

	"timesheet/internal/core"
	"timesheet/internal/events"
)

func TestTimesheetService_AssignSlotValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA)

	tests := []struct {
		name    string
		week    string
		slot    string
		account string
		want    error
	}{
		{name: "bad week", week: "06/01/2025", slot: "2025-01-06-09:00", account: "A", want: core.ErrInvalidWeek},
		{name: "bad slot", week: "2025-01-06", slot: "2025-01-06-09:15", account: "A", want: core.ErrInvalidSlot},
		{name: "slot outside week", week: "2025-01-06", slot: "2025-01-13-09:00", account: "A", want: core.ErrSlotOutsideWeek},
		{name: "empty account", week: "2025-01-06", slot: "2025-01-06-09:00", account: " ", want: core.ErrEmptyAccountID},
		{name: "unknown account", week: "2025-01-06", slot: "2025-01-06-09:00", account: "Z", want: core.ErrAccountNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.timesheet.AssignSlot(ctx, tt.week, tt.slot, tt.account)
			if !errors.Is(err, tt.want) {
				t.Fatalf("AssignSlot error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTimesheetService_AssignOverwritesAndStartsWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA, accountB)
	feed, cancel := f.broker.Subscribe(16)
	defer cancel()

	if st, _ := f.timesheet.WeekStatus(ctx, "2025-01-06"); st != core.StatusNotStarted {
		t.Fatalf("initial status = %s", st)
	}

	a, err := f.timesheet.AssignSlot(ctx, "2025-01-08", "2025-01-06-09:00", "A")
	if err != nil {
		t.Fatalf("AssignSlot: %v", err)
	}
	if a.WeekID != "2025-01-06" {
		t.Fatalf("week not normalized to Monday: %s", a.WeekID)
	}
	f.assign(t, "2025-01-06", "2025-01-06-09:00", "B")

	got, ok, _ := f.store.GetSlot(ctx, a.Slot)
	if !ok || got.AccountID != "B" {
		t.Fatalf("slot = %+v, want B", got)
	}
	if st, _ := f.timesheet.WeekStatus(ctx, "2025-01-06"); st != core.StatusInProgress {
		t.Fatalf("status = %s, want in-progress", st)
	}

	var kinds []events.Type
	for len(feed) > 0 {
		kinds = append(kinds, (<-feed).Type)
	}
	want := []events.Type{events.SlotAssigned, events.WeekStatus, events.SlotAssigned}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("events = %v, want %v", kinds, want)
		}
	}
}

func TestTimesheetService_ClearSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA)
	f.assign(t, "2025-01-06", "2025-01-06-09:00", "A")

	if err := f.timesheet.ClearSlot(ctx, "2025-01-06", "2025-01-06-09:00"); err != nil {
		t.Fatalf("ClearSlot: %v", err)
	}
	if err := f.timesheet.ClearSlot(ctx, "2025-01-06", "2025-01-06-09:00"); err != nil {
		t.Fatalf("ClearSlot on empty slot: %v", err)
	}
	if n, _ := f.store.CountSlotsForAccount(ctx, "A"); n != 0 {
		t.Fatalf("slots left = %d", n)
	}
	// Clearing never moves the status backwards.
	if st, _ := f.timesheet.WeekStatus(ctx, "2025-01-06"); st != core.StatusInProgress {
		t.Fatalf("status = %s", st)
	}
}

func TestTimesheetService_ClearWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA)
	week := mustWeek(t, "2025-01-06")

	for _, day := range week.Days() {
		slot, _ := core.SlotAt(core.FormatDate(day), "12:00")
		f.assign(t, week.ID(), slot.ID(), "A")
	}
	f.assign(t, "2025-01-13", "2025-01-13-12:00", "A")
	if err := f.timesheet.CompleteWeek(ctx, week.ID()); err != nil {
		t.Fatalf("CompleteWeek: %v", err)
	}

	n, err := f.timesheet.ClearWeek(ctx, week.ID())
	if err != nil || n != 7 {
		t.Fatalf("ClearWeek = %d, %v", n, err)
	}
	slots, _ := f.store.ListSlots(ctx, week.Start, week.End())
	if len(slots) != 0 {
		t.Fatalf("slots left = %+v", slots)
	}
	if st, _ := f.timesheet.WeekStatus(ctx, week.ID()); st != core.StatusNotStarted {
		t.Fatalf("status = %s, want not-started", st)
	}
	if stats := f.agg.WeekStats(ctx, week); !stats.TotalHours.IsZero() {
		t.Fatalf("stats after clear = %+v", stats)
	}
	if n, _ := f.store.CountSlotsForAccount(ctx, "A"); n != 1 {
		t.Fatalf("next week touched, remaining = %d", n)
	}
}

func TestTimesheetService_CompleteWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA)

	if err := f.timesheet.CompleteWeek(ctx, "2025-01-06"); !errors.Is(err, core.ErrEmptyWeek) {
		t.Fatalf("completing an empty week: %v", err)
	}
	if st, _ := f.timesheet.WeekStatus(ctx, "2025-01-06"); st != core.StatusNotStarted {
		t.Fatalf("status after rejected completion = %s", st)
	}

	f.assign(t, "2025-01-06", "2025-01-06-09:00", "A")
	if err := f.timesheet.CompleteWeek(ctx, "2025-01-06"); err != nil {
		t.Fatalf("CompleteWeek: %v", err)
	}
	if err := f.timesheet.CompleteWeek(ctx, "2025-01-06"); err != nil {
		t.Fatalf("CompleteWeek twice: %v", err)
	}
	if st, _ := f.timesheet.WeekStatus(ctx, "2025-01-06"); st != core.StatusCompleted {
		t.Fatalf("status = %s", st)
	}

	// Editing a completed week keeps it completed.
	f.assign(t, "2025-01-06", "2025-01-06-10:00", "A")
	if st, _ := f.timesheet.WeekStatus(ctx, "2025-01-06"); st != core.StatusCompleted {
		t.Fatalf("status after edit = %s", st)
	}
}

func TestTimesheetService_ObserveWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA)

	if st, err := f.timesheet.ObserveWeek(ctx, "2025-01-06"); err != nil || st != core.StatusNotStarted {
		t.Fatalf("ObserveWeek on empty week = %s, %v", st, err)
	}

	// Entries written behind the service's back, e.g. an import.
	slot, _ := core.SlotAt("2025-01-07", "09:00")
	_ = f.store.PutSlot(ctx, core.Assignment{WeekID: "2025-01-06", Slot: slot, AccountID: "A"})

	if st, err := f.timesheet.ObserveWeek(ctx, "2025-01-07"); err != nil || st != core.StatusInProgress {
		t.Fatalf("ObserveWeek = %s, %v", st, err)
	}
	if _, err := f.timesheet.ObserveWeek(ctx, "not-a-week"); !errors.Is(err, core.ErrInvalidWeek) {
		t.Fatalf("expected ErrInvalidWeek, got %v", err)
	}
}
