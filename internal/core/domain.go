package core

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	GroupChargeable    Group = "chargeable"
	GroupNonChargeable Group = "non-chargeable"
	GroupExtra         Group = "extra"
)

const (
	StatusNotStarted WeekStatus = "not-started"
	StatusInProgress WeekStatus = "in-progress"
	StatusCompleted  WeekStatus = "completed"
)

type (
	Group string

	WeekStatus string

	Account struct {
		ID            string              `json:"id"`
		Name          string              `json:"name"`
		JobNumber     string              `json:"jobNumber,omitempty"`
		JobID         string              `json:"jobId,omitempty"`
		Description   string              `json:"description,omitempty"`
		IsChargeable  bool                `json:"isChargeable"`
		IsActive      bool                `json:"isActive"`
		Color         string              `json:"color"`
		Group         Group               `json:"group"`
		BudgetedHours decimal.NullDecimal `json:"budgetedHours"`
	}

	// Assignment binds one account to one half-hour slot of a week.
	Assignment struct {
		WeekID    string `json:"weekId"`
		Slot      Slot   `json:"slot"`
		AccountID string `json:"accountId"`
	}

	// GroupedAccounts splits the active catalog the way the calendar sidebar shows it.
	GroupedAccounts struct {
		Chargeable    []Account `json:"chargeable"`
		NonChargeable []Account `json:"nonChargeable"`
		Extra         []Account `json:"extra"`
	}
)

var (
	ErrEmptyAccountID     = errors.New("empty account id")
	ErrEmptyAccountName   = errors.New("empty account name")
	ErrInvalidColor       = errors.New("invalid color")
	ErrAccountNameTooLong = errors.New("account name too long (max 200 characters)")
	ErrInvalidGroup       = errors.New("invalid account group")
	ErrInvalidBudget      = errors.New("budgeted hours must be positive")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidWeek        = errors.New("invalid week id")
	ErrInvalidSlot        = errors.New("invalid slot id")
	ErrSlotOutsideWeek    = errors.New("slot does not belong to week")
	ErrInvalidStatus      = errors.New("invalid week status")
	ErrInvalidTransition  = errors.New("invalid week status transition")
	ErrEmptyWeek          = errors.New("week has no entries")
	ErrNotFound           = errors.New("not found")
	ErrProtected          = errors.New("record is protected")
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsValid reports whether g is one of the known account groups.
func (g Group) IsValid() bool {
	switch g {
	case GroupChargeable, GroupNonChargeable, GroupExtra:
		return true
	default:
		return false
	}
}

// Normalize makes Group and IsChargeable agree. An empty group is derived
// from the flag, otherwise the group wins.
func (a Account) Normalize() Account {
	a.ID = strings.TrimSpace(a.ID)
	a.Name = strings.TrimSpace(a.Name)
	a.Color = strings.TrimSpace(a.Color)
	if a.Group == "" {
		if a.IsChargeable {
			a.Group = GroupChargeable
		} else {
			a.Group = GroupNonChargeable
		}
		return a
	}
	a.IsChargeable = a.Group == GroupChargeable
	return a
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrEmptyAccountID
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyAccountName
	}
	if len(a.Name) > 200 {
		return ErrAccountNameTooLong
	}
	if !colorPattern.MatchString(a.Color) {
		return ErrInvalidColor
	}
	if !a.Group.IsValid() {
		return ErrInvalidGroup
	}
	if a.BudgetedHours.Valid && !a.BudgetedHours.Decimal.IsPositive() {
		return ErrInvalidBudget
	}
	return nil
}

// CountsAsChargeable is the rule the utilization figures are built on.
// It checks both fields so that legacy rows where they disagree stay safe.
func (a Account) CountsAsChargeable() bool {
	return a.IsChargeable && a.Group != GroupExtra
}

// GroupAccounts keeps the active accounts and splits them by group.
func GroupAccounts(accounts []Account) GroupedAccounts {
	out := GroupedAccounts{
		Chargeable:    []Account{},
		NonChargeable: []Account{},
		Extra:         []Account{},
	}
	for _, a := range accounts {
		if !a.IsActive || a.Group == "" {
			continue
		}
		switch {
		case a.Group == GroupExtra:
			out.Extra = append(out.Extra, a)
		case a.IsChargeable && a.Group == GroupChargeable:
			out.Chargeable = append(out.Chargeable, a)
		case !a.IsChargeable && a.Group == GroupNonChargeable:
			out.NonChargeable = append(out.NonChargeable, a)
		}
	}
	return out
}

func (s WeekStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

func (s WeekStatus) rank() int {
	switch s {
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 0
	}
}

// CanTransition reports whether a week may move from s to next.
// Statuses only move forward; resets go through ClearWeek.
func (s WeekStatus) CanTransition(next WeekStatus) bool {
	if !next.IsValid() {
		return false
	}
	return next.rank() > s.rank()
}
