package ports

import (
	"context"
	"time"

	"timesheet/internal/core"
)

// Ports for the persistence adapters.
type (
	// AccountCatalog is the read side of the account catalog.
	AccountCatalog interface {
		// GetAccount returns core.ErrAccountNotFound when id is unknown.
		GetAccount(ctx context.Context, id string) (core.Account, error)
		ListAccounts(ctx context.Context) ([]core.Account, error)
	}

	AccountWriter interface {
		SaveAccount(ctx context.Context, a core.Account) error
		DeleteAccount(ctx context.Context, id string) error
	}

	// SlotReader lists assignments whose day falls in [from, to].
	SlotReader interface {
		ListSlots(ctx context.Context, from, to time.Time) ([]core.Assignment, error)
		GetSlot(ctx context.Context, slot core.Slot) (core.Assignment, bool, error)
		CountSlotsForAccount(ctx context.Context, accountID string) (int, error)
	}

	SlotWriter interface {
		// PutSlot overwrites whatever the slot held before.
		PutSlot(ctx context.Context, a core.Assignment) error
		DeleteSlot(ctx context.Context, slot core.Slot) error
		DeleteSlots(ctx context.Context, from, to time.Time) (int, error)
	}

	WeekStatusStore interface {
		// GetWeekStatus returns core.StatusNotStarted for unknown weeks.
		GetWeekStatus(ctx context.Context, weekID string) (core.WeekStatus, error)
		PutWeekStatus(ctx context.Context, weekID string, status core.WeekStatus) error
	}

	WeekNoteStore interface {
		GetWeekNote(ctx context.Context, weekID string) (string, error)
		PutWeekNote(ctx context.Context, note core.WeekNote) error
	}

	GoalStore interface {
		ListGoals(ctx context.Context) ([]core.SmartGoal, error)
		// GetGoal returns core.ErrNotFound when id is unknown.
		GetGoal(ctx context.Context, id string) (core.SmartGoal, error)
		SaveGoal(ctx context.Context, g core.SmartGoal) error
		DeleteGoal(ctx context.Context, id string) error
	}

	EventStore interface {
		ListEvents(ctx context.Context) ([]core.Event, error)
		GetEvent(ctx context.Context, id string) (core.Event, error)
		SaveEvent(ctx context.Context, e core.Event) error
		DeleteEvent(ctx context.Context, id string) error
	}

	TrafficLightStore interface {
		ListItems(ctx context.Context, role, category string) ([]core.TrafficLightItem, error)
		GetItem(ctx context.Context, id string) (core.TrafficLightItem, error)
		SaveItem(ctx context.Context, item core.TrafficLightItem) error
		DeleteItem(ctx context.Context, id string) error
	}

	ResourceStore interface {
		ListResources(ctx context.Context) ([]core.Resource, error)
		GetResource(ctx context.Context, id string) (core.Resource, error)
		SaveResource(ctx context.Context, r core.Resource) error
		DeleteResource(ctx context.Context, id string) error
	}

	ProfileStore interface {
		GetProfile(ctx context.Context) (core.Profile, error)
		SaveProfile(ctx context.Context, p core.Profile) error
	}

	// CareerStore groups the career-tracking stores.
	CareerStore interface {
		GoalStore
		EventStore
		TrafficLightStore
		ResourceStore
		ProfileStore
	}
)
