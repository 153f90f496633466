package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAccountNormalize(t *testing.T) {
	cases := []struct {
		name           string
		in             Account
		wantGroup      Group
		wantChargeable bool
	}{
		{"group derived from flag", Account{IsChargeable: true}, GroupChargeable, true},
		{"group derived from cleared flag", Account{}, GroupNonChargeable, false},
		{"group wins over flag", Account{IsChargeable: true, Group: GroupNonChargeable}, GroupNonChargeable, false},
		{"extra is never chargeable", Account{IsChargeable: true, Group: GroupExtra}, GroupExtra, false},
		{"chargeable group sets flag", Account{Group: GroupChargeable}, GroupChargeable, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if got.Group != tc.wantGroup || got.IsChargeable != tc.wantChargeable {
				t.Fatalf("Normalize() = (%s, %v), want (%s, %v)", got.Group, got.IsChargeable, tc.wantGroup, tc.wantChargeable)
			}
		})
	}
}

func TestAccountValidate(t *testing.T) {
	good := Account{ID: "a", Name: "Client A", Color: "#fff", Group: GroupChargeable, IsChargeable: true}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		acc  Account
		want error
	}{
		{Account{Name: "x", Color: "#fff", Group: GroupExtra}, ErrEmptyAccountID},
		{Account{ID: "a", Color: "#fff", Group: GroupExtra}, ErrEmptyAccountName},
		{Account{ID: "a", Name: "x", Color: "red", Group: GroupExtra}, ErrInvalidColor},
		{Account{ID: "a", Name: "x", Color: "#ff00ff", Group: "misc"}, ErrInvalidGroup},
		{Account{ID: "a", Name: "x", Color: "#ff00ff", Group: GroupExtra,
			BudgetedHours: decimal.NewNullDecimal(decimal.NewFromInt(-3))}, ErrInvalidBudget},
	}
	for i, tc := range bads {
		if err := tc.acc.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestCountsAsChargeable(t *testing.T) {
	if !(Account{IsChargeable: true, Group: GroupChargeable}).CountsAsChargeable() {
		t.Fatal("chargeable account should count")
	}
	// Legacy row where the flag and the group disagree.
	if (Account{IsChargeable: true, Group: GroupExtra}).CountsAsChargeable() {
		t.Fatal("extra account should never count")
	}
	if (Account{IsChargeable: false, Group: GroupChargeable}).CountsAsChargeable() {
		t.Fatal("non-chargeable flag should not count")
	}
}

func TestGroupAccounts(t *testing.T) {
	accounts := []Account{
		{ID: "a", IsActive: true, IsChargeable: true, Group: GroupChargeable},
		{ID: "b", IsActive: true, Group: GroupNonChargeable},
		{ID: "c", IsActive: true, Group: GroupExtra},
		{ID: "d", IsActive: false, IsChargeable: true, Group: GroupChargeable},
		{ID: "e", IsActive: true},
	}
	got := GroupAccounts(accounts)
	if len(got.Chargeable) != 1 || got.Chargeable[0].ID != "a" {
		t.Fatalf("chargeable = %+v", got.Chargeable)
	}
	if len(got.NonChargeable) != 1 || got.NonChargeable[0].ID != "b" {
		t.Fatalf("non-chargeable = %+v", got.NonChargeable)
	}
	if len(got.Extra) != 1 || got.Extra[0].ID != "c" {
		t.Fatalf("extra = %+v", got.Extra)
	}
}

func TestWeekStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to WeekStatus
		want     bool
	}{
		{StatusNotStarted, StatusInProgress, true},
		{StatusNotStarted, StatusCompleted, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusCompleted, StatusInProgress, false},
		{StatusInProgress, StatusNotStarted, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusNotStarted, "archived", false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEventValidate(t *testing.T) {
	if err := (Event{Title: "Party", Date: "2025-12-20", Type: EventCompany}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Event{Title: "Party", Date: "20/12/2025", Type: EventCompany}).Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if err := (Event{Title: "Party", Date: "2025-12-20", Type: "birthday"}).Validate(); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestTrafficLightItemValidate(t *testing.T) {
	six := 6
	item := TrafficLightItem{Role: "graduate", Category: "technical", Text: "Writes tests", Rating: &six}
	if err := item.Validate(); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	three := 3
	item.Rating = &three
	item.ItemType = ItemTraining
	if err := item.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestSmartGoalValidate(t *testing.T) {
	g := SmartGoal{Name: "Lead a project", DueDate: "2025-12-31", CreatedAt: time.Now()}
	if err := g.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	g.Milestones = []Checkpoint{{ID: "m1"}}
	if err := g.Validate(); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}
