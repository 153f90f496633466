package core

import "github.com/shopspring/decimal"

type (
	// AccountHours is one report row: hours per weekday plus the week total.
	AccountHours struct {
		AccountID string                       `json:"accountId"`
		Daily     [DaysPerWeek]decimal.Decimal `json:"daily"`
		Total     decimal.Decimal              `json:"total"`
	}

	WeekStats struct {
		WeekID          string          `json:"weekId"`
		TotalHours      decimal.Decimal `json:"totalHours"`
		ChargeableHours decimal.Decimal `json:"chargeableHours"`
		ExpectedHours   decimal.Decimal `json:"expectedHours"`
		Utilization     decimal.Decimal `json:"utilization"`
		ActiveDays      int             `json:"activeDays"`
	}

	// MonthWeek is one week of a month breakdown.
	MonthWeek struct {
		WeekID   string     `json:"weekId"`
		Status   WeekStatus `json:"status"`
		Stats    WeekStats  `json:"stats"`
		Included bool       `json:"included"`
	}

	MonthStats struct {
		Year            int             `json:"year"`
		Month           int             `json:"month"`
		ChargeableHours decimal.Decimal `json:"chargeableHours"`
		Utilization     decimal.Decimal `json:"utilization"`
		CompletedWeeks  int             `json:"completedWeeks"`
		Weeks           []MonthWeek     `json:"weeks"`
	}

	YearStats struct {
		Year                 int             `json:"year"`
		Months               []MonthStats    `json:"months"`
		TotalChargeableHours decimal.Decimal `json:"totalChargeableHours"`
		AverageUtilization   decimal.Decimal `json:"averageUtilization"`
	}

	// AccountTotal is a per-account yearly figure with its budget consumption.
	AccountTotal struct {
		Account           Account             `json:"account"`
		TotalHours        decimal.Decimal     `json:"totalHours"`
		BudgetUsedPercent decimal.NullDecimal `json:"budgetUsedPercent"`
	}
)

// EmptyAccountHours is the safe default for a row with no data.
func EmptyAccountHours(accountID string) AccountHours {
	h := AccountHours{AccountID: accountID, Total: decimal.Zero}
	for i := range h.Daily {
		h.Daily[i] = decimal.Zero
	}
	return h
}

// EmptyWeekStats is the safe default for a week with no data.
func EmptyWeekStats(weekID string) WeekStats {
	return WeekStats{
		WeekID:          weekID,
		TotalHours:      decimal.Zero,
		ChargeableHours: decimal.Zero,
		ExpectedHours:   decimal.Zero,
		Utilization:     decimal.Zero,
	}
}
