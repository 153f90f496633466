package storage

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID            string
	Name          string
	JobNumber     string
	JobID         string
	Description   string
	IsChargeable  bool
	IsActive      bool
	Color         string
	AccountGroup  string
	BudgetedHours decimal.NullDecimal
}

type TimeSlot struct {
	SlotDate  string
	SlotTime  string
	WeekID    string
	AccountID string
}

type SmartGoal struct {
	ID           string
	Name         string
	AreaOfFocus  string
	CurrentState string
	FutureState  string
	DueDate      string
	Actions      string
	Milestones   string
	CreatedAt    string
}

type Event struct {
	ID        string
	Title     string
	EventDate string
	EventType string
	IsDefault bool
}

type TrafficLightItem struct {
	ID       string
	Role     string
	Category string
	Text     string
	Rating   sql.NullInt64
	Notes    string
	ItemType string
}

type Resource struct {
	ID           string
	ResourceType string
	Name         string
	Url          string
	Data         string
	CreatedAt    string
}

type Profile struct {
	Name      string
	Position  string
	UpdatedAt string
}
