package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"timesheet/internal/core"
)

func TestFixedWeekPolicy_ExpectedHours(t *testing.T) {
	p := FixedWeekPolicy{}
	for _, days := range []int{0, 1, 5, 7} {
		if got := p.ExpectedHours(days); !got.Equal(decimal.NewFromInt(39)) {
			t.Errorf("ExpectedHours(%d) = %s, want 39", days, got)
		}
	}
}

func TestActiveDaysPolicy_ExpectedHours(t *testing.T) {
	tests := []struct {
		name string
		days int
		want string
	}{
		{name: "no active days", days: 0, want: "0"},
		{name: "one day", days: 1, want: "7.8"},
		{name: "full week", days: 5, want: "39"},
		{name: "weekend work", days: 7, want: "54.6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActiveDaysPolicy{}.ExpectedHours(tt.days)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ExpectedHours(%d) = %s, want %s", tt.days, got, tt.want)
			}
		})
	}
}

func TestMonthlyPolicies_Includes(t *testing.T) {
	statuses := []core.WeekStatus{core.StatusNotStarted, core.StatusInProgress, core.StatusCompleted}
	for _, st := range statuses {
		if !(AllWeeksPolicy{}).Includes(st) {
			t.Errorf("AllWeeksPolicy should include %s", st)
		}
		want := st == core.StatusCompleted
		if got := (CompletedWeeksPolicy{}).Includes(st); got != want {
			t.Errorf("CompletedWeeksPolicy.Includes(%s) = %v, want %v", st, got, want)
		}
	}
}

func TestGetPolicies(t *testing.T) {
	if p, err := GetUtilizationPolicy(""); err != nil || p != (FixedWeekPolicy{}) {
		t.Fatalf("default utilization policy = %v, %v", p, err)
	}
	if p, err := GetUtilizationPolicy(PolicyActiveDays); err != nil || p != (ActiveDaysPolicy{}) {
		t.Fatalf("active-days policy = %v, %v", p, err)
	}
	if _, err := GetUtilizationPolicy("hourly"); err == nil {
		t.Fatal("expected error for unknown utilization policy")
	}
	if p, err := GetMonthlyPolicy(""); err != nil || p != (AllWeeksPolicy{}) {
		t.Fatalf("default monthly policy = %v, %v", p, err)
	}
	if _, err := GetMonthlyPolicy("median"); err == nil {
		t.Fatal("expected error for unknown monthly policy")
	}
}

type halfWeekPolicy struct{}

func (halfWeekPolicy) ExpectedHours(int) decimal.Decimal { return decimal.NewFromInt(20) }

func TestRegisterUtilizationPolicy(t *testing.T) {
	RegisterUtilizationPolicy("half-week", halfWeekPolicy{})
	defer delete(utilizationPolicies, "half-week")

	p, err := GetUtilizationPolicy("half-week")
	if err != nil {
		t.Fatalf("GetUtilizationPolicy: %v", err)
	}
	if !p.ExpectedHours(3).Equal(decimal.NewFromInt(20)) {
		t.Fatal("registered policy not used")
	}
}
