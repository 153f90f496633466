// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for the two utilization choices:
// the expected-hours denominator of a week and the set of weeks that make up
// a month average. Each strategy is registered by name so configuration can
// pick one without the aggregator knowing the concrete type.

package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"timesheet/internal/core"
)

const (
	PolicyFixedWeek  = "fixed-week"
	PolicyActiveDays = "active-days"

	PolicyAllWeeks       = "all-weeks"
	PolicyCompletedWeeks = "completed-weeks"
)

var (
	// FixedWeekHours is the contractual working week.
	FixedWeekHours = decimal.NewFromInt(39)
	// WorkdayHours is the expected load of one day with entries.
	WorkdayHours = decimal.RequireFromString("7.8")
)

// UtilizationPolicy is the strategy interface for the weekly expected-hours denominator.
type UtilizationPolicy interface {
	// ExpectedHours returns the baseline for a week whose entries fall on activeDays days.
	ExpectedHours(activeDays int) decimal.Decimal
}

// FixedWeekPolicy expects the same 39 hours every week.
type FixedWeekPolicy struct{}

func (FixedWeekPolicy) ExpectedHours(int) decimal.Decimal {
	return FixedWeekHours
}

// ActiveDaysPolicy expects 7.8 hours for every day that has at least one entry.
type ActiveDaysPolicy struct{}

func (ActiveDaysPolicy) ExpectedHours(activeDays int) decimal.Decimal {
	if activeDays <= 0 {
		return decimal.Zero
	}
	return WorkdayHours.Mul(decimal.NewFromInt(int64(activeDays)))
}

// MonthlyPolicy is the strategy interface deciding which weeks feed a month average.
type MonthlyPolicy interface {
	Includes(status core.WeekStatus) bool
}

// AllWeeksPolicy averages every week that intersects the month.
type AllWeeksPolicy struct{}

func (AllWeeksPolicy) Includes(core.WeekStatus) bool { return true }

// CompletedWeeksPolicy averages only the weeks marked completed.
type CompletedWeeksPolicy struct{}

func (CompletedWeeksPolicy) Includes(status core.WeekStatus) bool {
	return status == core.StatusCompleted
}

var utilizationPolicies = map[string]UtilizationPolicy{
	PolicyFixedWeek:  FixedWeekPolicy{},
	PolicyActiveDays: ActiveDaysPolicy{},
}

var monthlyPolicies = map[string]MonthlyPolicy{
	PolicyAllWeeks:       AllWeeksPolicy{},
	PolicyCompletedWeeks: CompletedWeeksPolicy{},
}

// GetUtilizationPolicy returns the registered policy for name. An empty name
// selects fixed-week.
func GetUtilizationPolicy(name string) (UtilizationPolicy, error) {
	if name == "" {
		name = PolicyFixedWeek
	}
	p, ok := utilizationPolicies[name]
	if !ok {
		return nil, fmt.Errorf("unknown utilization policy: %s", name)
	}
	return p, nil
}

// GetMonthlyPolicy returns the registered policy for name. An empty name
// selects all-weeks.
func GetMonthlyPolicy(name string) (MonthlyPolicy, error) {
	if name == "" {
		name = PolicyAllWeeks
	}
	p, ok := monthlyPolicies[name]
	if !ok {
		return nil, fmt.Errorf("unknown monthly policy: %s", name)
	}
	return p, nil
}

// RegisterUtilizationPolicy adds or replaces a named denominator strategy.
func RegisterUtilizationPolicy(name string, p UtilizationPolicy) {
	utilizationPolicies[name] = p
}

// RegisterMonthlyPolicy adds or replaces a named month averaging strategy.
func RegisterMonthlyPolicy(name string, p MonthlyPolicy) {
	monthlyPolicies[name] = p
}

// UtilizationPolicyNames lists the registered denominator strategies.
func UtilizationPolicyNames() []string {
	return []string{PolicyFixedWeek, PolicyActiveDays}
}

// MonthlyPolicyNames lists the registered month averaging strategies.
func MonthlyPolicyNames() []string {
	return []string{PolicyAllWeeks, PolicyCompletedWeeks}
}
