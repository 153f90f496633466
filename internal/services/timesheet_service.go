package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"timesheet/internal/core"
	"timesheet/internal/events"
	"timesheet/internal/log"
	"timesheet/internal/ports"
)

// SlotStore is the read and write side of the time-entry store.
type SlotStore interface {
	ports.SlotReader
	ports.SlotWriter
}

// TimesheetService owns the calendar write path: slot assignment and the
// week status lifecycle. Every committed change is published on the broker.
type TimesheetService struct {
	mu       sync.Mutex
	accounts ports.AccountCatalog
	slots    SlotStore
	statuses ports.WeekStatusStore
	broker   *events.Broker
	logger   *log.Logger
	audit    *log.StructuredLogger
}

func NewTimesheetService(accounts ports.AccountCatalog, slots SlotStore, statuses ports.WeekStatusStore, broker *events.Broker, logger *log.Logger) *TimesheetService {
	if logger == nil {
		logger = log.Discard()
	}
	if broker == nil {
		broker = events.NewBroker(logger)
	}
	logger = logger.WithComponent(log.ComponentTimesheet)
	return &TimesheetService{
		accounts: accounts,
		slots:    slots,
		statuses: statuses,
		broker:   broker,
		logger:   logger,
		audit:    log.NewStructuredLogger(logger),
	}
}

func parseWeekSlot(weekID, slotID string) (core.Week, core.Slot, error) {
	week, err := core.ParseWeek(weekID)
	if err != nil {
		return core.Week{}, core.Slot{}, err
	}
	slot, err := core.ParseSlot(slotID)
	if err != nil {
		return core.Week{}, core.Slot{}, err
	}
	if !week.Contains(slot.Date) {
		return core.Week{}, core.Slot{}, fmt.Errorf("%w: %s not in %s", core.ErrSlotOutsideWeek, slot.ID(), week.ID())
	}
	return week, slot, nil
}

// AssignSlot puts accountID in the slot, replacing whatever was there.
// Assigning the account a slot already holds is a no-op.
func (s *TimesheetService) AssignSlot(ctx context.Context, weekID, slotID, accountID string) (core.Assignment, error) {
	week, slot, err := parseWeekSlot(weekID, slotID)
	if err != nil {
		return core.Assignment{}, err
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return core.Assignment{}, core.ErrEmptyAccountID
	}
	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		return core.Assignment{}, fmt.Errorf("assign slot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := core.Assignment{WeekID: week.ID(), Slot: slot, AccountID: accountID}
	existing, ok, err := s.slots.GetSlot(ctx, slot)
	if err != nil {
		return core.Assignment{}, fmt.Errorf("read slot: %w", err)
	}
	if ok && existing.AccountID == accountID {
		return a, nil
	}

	if err := s.slots.PutSlot(ctx, a); err != nil {
		return core.Assignment{}, fmt.Errorf("write slot: %w", err)
	}
	s.audit.LogSlotAssigned(ctx, a.WeekID, slot.ID(), accountID)
	s.broker.Publish(events.Event{
		Type:      events.SlotAssigned,
		WeekID:    a.WeekID,
		SlotID:    slot.ID(),
		AccountID: accountID,
	})

	if err := s.startWeek(ctx, week); err != nil {
		return a, err
	}
	return a, nil
}

// ClearSlot empties a slot. Clearing an empty slot is a no-op.
func (s *TimesheetService) ClearSlot(ctx context.Context, weekID, slotID string) error {
	week, slot, err := parseWeekSlot(weekID, slotID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok, err := s.slots.GetSlot(ctx, slot)
	if err != nil {
		return fmt.Errorf("read slot: %w", err)
	}
	if !ok {
		return nil
	}
	if err := s.slots.DeleteSlot(ctx, slot); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	s.logger.InfoContext(ctx, "Slot cleared",
		log.FieldWeekID, week.ID(), log.FieldSlotID, slot.ID(), log.FieldAccountID, existing.AccountID)
	s.broker.Publish(events.Event{
		Type:      events.SlotCleared,
		WeekID:    week.ID(),
		SlotID:    slot.ID(),
		AccountID: existing.AccountID,
	})
	return nil
}

// ClearWeek removes every slot of the seven days and resets the week to not-started.
func (s *TimesheetService) ClearWeek(ctx context.Context, weekID string) (int, error) {
	week, err := core.ParseWeek(weekID)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.slots.DeleteSlots(ctx, week.Start, week.End())
	if err != nil {
		return 0, fmt.Errorf("clear week: %w", err)
	}
	if err := s.statuses.PutWeekStatus(ctx, week.ID(), core.StatusNotStarted); err != nil {
		return n, fmt.Errorf("reset week status: %w", err)
	}
	s.logger.InfoContext(ctx, "Week cleared", log.FieldWeekID, week.ID(), "removed", n)
	s.broker.Publish(events.Event{
		Type:   events.WeekCleared,
		WeekID: week.ID(),
		Status: string(core.StatusNotStarted),
	})
	return n, nil
}

// CompleteWeek marks a week completed. An empty week is rejected with
// core.ErrEmptyWeek; completing a completed week does nothing.
func (s *TimesheetService) CompleteWeek(ctx context.Context, weekID string) error {
	week, err := core.ParseWeek(weekID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	status, err := s.statuses.GetWeekStatus(ctx, week.ID())
	if err != nil {
		return fmt.Errorf("read week status: %w", err)
	}
	if status == core.StatusCompleted {
		return nil
	}
	slots, err := s.slots.ListSlots(ctx, week.Start, week.End())
	if err != nil {
		return fmt.Errorf("read week slots: %w", err)
	}
	if len(slots) == 0 {
		return fmt.Errorf("complete %s: %w", week.ID(), core.ErrEmptyWeek)
	}
	return s.transition(ctx, week, status, core.StatusCompleted)
}

// WeekStatus returns the stored status, not-started when unknown or unreadable.
func (s *TimesheetService) WeekStatus(ctx context.Context, weekID string) (core.WeekStatus, error) {
	week, err := core.ParseWeek(weekID)
	if err != nil {
		return core.StatusNotStarted, err
	}
	status, err := s.statuses.GetWeekStatus(ctx, week.ID())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read week status", log.FieldWeekID, week.ID(), log.FieldError, err)
		return core.StatusNotStarted, nil
	}
	return status, nil
}

// ObserveWeek applies the automatic not-started to in-progress transition
// for a week that already has entries and returns the resulting status.
func (s *TimesheetService) ObserveWeek(ctx context.Context, weekID string) (core.WeekStatus, error) {
	week, err := core.ParseWeek(weekID)
	if err != nil {
		return core.StatusNotStarted, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.startWeek(ctx, week); err != nil {
		s.logger.ErrorContext(ctx, "Failed to observe week", log.FieldWeekID, week.ID(), log.FieldError, err)
	}
	status, err := s.statuses.GetWeekStatus(ctx, week.ID())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read week status", log.FieldWeekID, week.ID(), log.FieldError, err)
		return core.StatusNotStarted, nil
	}
	return status, nil
}

// startWeek moves a not-started week with entries to in-progress. Callers hold s.mu.
func (s *TimesheetService) startWeek(ctx context.Context, week core.Week) error {
	status, err := s.statuses.GetWeekStatus(ctx, week.ID())
	if err != nil {
		return fmt.Errorf("read week status: %w", err)
	}
	if status != core.StatusNotStarted {
		return nil
	}
	slots, err := s.slots.ListSlots(ctx, week.Start, week.End())
	if err != nil {
		return fmt.Errorf("read week slots: %w", err)
	}
	if len(slots) == 0 {
		return nil
	}
	return s.transition(ctx, week, status, core.StatusInProgress)
}

func (s *TimesheetService) transition(ctx context.Context, week core.Week, from, to core.WeekStatus) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", core.ErrInvalidTransition, from, to)
	}
	if err := s.statuses.PutWeekStatus(ctx, week.ID(), to); err != nil {
		return fmt.Errorf("write week status: %w", err)
	}
	s.audit.LogWeekStatus(ctx, week.ID(), string(to))
	s.broker.Publish(events.Event{
		Type:   events.WeekStatus,
		WeekID: week.ID(),
		Status: string(to),
	})
	return nil
}
