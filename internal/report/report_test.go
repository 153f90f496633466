package report

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"timesheet/internal/core"
	"timesheet/internal/services"
)

func sampleOverview() services.WeekOverview {
	a := core.EmptyAccountHours("A")
	a.Daily[0] = decimal.RequireFromString("1")
	a.Total = decimal.RequireFromString("1")
	b := core.EmptyAccountHours("B")
	b.Daily[1] = decimal.RequireFromString("0.5")
	b.Total = decimal.RequireFromString("0.5")

	return services.WeekOverview{
		WeekID: "2025-01-06",
		Days:   []string{"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10", "2025-01-11", "2025-01-12"},
		Status: core.StatusInProgress,
		Accounts: []core.Account{
			{ID: "A", Name: "Alpha | Beta", Group: core.GroupChargeable, IsChargeable: true},
			{ID: "B", Name: "Bench", Group: core.GroupNonChargeable},
		},
		Hours: []core.AccountHours{a, b},
		Stats: core.WeekStats{
			WeekID:          "2025-01-06",
			TotalHours:      decimal.RequireFromString("1.5"),
			ChargeableHours: decimal.RequireFromString("1"),
			ExpectedHours:   decimal.RequireFromString("39"),
			Utilization:     decimal.RequireFromString("2.56"),
			ActiveDays:      2,
		},
	}
}

func TestWeek(t *testing.T) {
	out, err := Week(sampleOverview(), "  demo friday ")
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	for _, want := range []string{
		"# Week of 2025-01-06",
		"**Status:** in-progress",
		"2.56% (1.0 of 39.0 expected hours)",
		"2 active days",
		"## Chargeable",
		"## Non-chargeable",
		"| Mon 06/01 |",
		`| Alpha \| Beta | 1.0 | 0.0 |`,
		"**1.0** |",
		"## Notes\n\ndemo friday",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("week report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "## Extra") {
		t.Error("empty groups should be left out")
	}
}

func TestWeek_Empty(t *testing.T) {
	out, err := Week(services.WeekOverview{WeekID: "2025-01-06", Status: core.StatusNotStarted, Stats: core.EmptyWeekStats("2025-01-06")}, "")
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if !strings.Contains(out, "_No time logged this week._") {
		t.Errorf("expected empty marker:\n%s", out)
	}
	if strings.Contains(out, "## Notes") {
		t.Error("notes section should be omitted")
	}
}

func TestMonthAndYear(t *testing.T) {
	m := core.MonthStats{
		Year:            2025,
		Month:           1,
		ChargeableHours: decimal.RequireFromString("10"),
		Utilization:     decimal.RequireFromString("25.64"),
		CompletedWeeks:  1,
		Weeks: []core.MonthWeek{
			{WeekID: "2025-01-06", Status: core.StatusCompleted, Stats: core.EmptyWeekStats("2025-01-06"), Included: true},
			{WeekID: "2025-01-13", Status: core.StatusNotStarted, Stats: core.EmptyWeekStats("2025-01-13")},
		},
	}
	out, err := Month(m)
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	for _, want := range []string{"# January 2025", "**Completed weeks:** 1 of 2", "| 2025-01-06 | completed |", "| yes |", "| no |"} {
		if !strings.Contains(out, want) {
			t.Errorf("month report missing %q:\n%s", want, out)
		}
	}

	y := core.YearStats{Year: 2025, Months: []core.MonthStats{m}, TotalChargeableHours: m.ChargeableHours, AverageUtilization: m.Utilization}
	totals := []core.AccountTotal{{
		Account:           core.Account{Name: "Alpha", Group: core.GroupChargeable, BudgetedHours: decimal.NewNullDecimal(decimal.RequireFromString("40"))},
		TotalHours:        decimal.RequireFromString("10"),
		BudgetUsedPercent: decimal.NewNullDecimal(decimal.RequireFromString("25")),
	}, {
		Account:    core.Account{Name: "Bench", Group: core.GroupNonChargeable},
		TotalHours: decimal.RequireFromString("2"),
	}}
	out, err = Year(y, totals)
	if err != nil {
		t.Fatalf("Year: %v", err)
	}
	for _, want := range []string{"# 2025 in review", "| January | 10.0 | 25.64% | 1 |", "| Alpha | chargeable | 10.0 | 40.0 | 25.00% |", "| Bench | non-chargeable | 2.0 | - | - |"} {
		if !strings.Contains(out, want) {
			t.Errorf("year report missing %q:\n%s", want, out)
		}
	}
}

func TestAccounts(t *testing.T) {
	out, err := Accounts([]core.Account{
		{ID: "A", Name: "Alpha | Beta", Group: core.GroupChargeable, Color: "#ff0000", IsActive: true, BudgetedHours: decimal.NewNullDecimal(decimal.RequireFromString("40"))},
		{ID: "B", Name: "Bench", Group: core.GroupNonChargeable, Color: "#00f"},
	})
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	for _, want := range []string{`| A | Alpha \| Beta | chargeable | #ff0000 | 40.0 | yes |`, "| B | Bench | non-chargeable | #00f | - | no |"} {
		if !strings.Contains(out, want) {
			t.Errorf("accounts report missing %q:\n%s", want, out)
		}
	}

	empty, err := Accounts(nil)
	if err != nil || !strings.Contains(empty, "no accounts") {
		t.Errorf("empty catalog = %q, %v", empty, err)
	}
}

func TestHTMLAndPage(t *testing.T) {
	source, err := Week(sampleOverview(), "<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	body, err := HTML(source)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(string(body), "<table>") || !strings.Contains(string(body), "<h1>Week of 2025-01-06</h1>") {
		t.Errorf("unexpected html:\n%s", body)
	}
	if strings.Contains(string(body), "<script>") {
		t.Error("raw html must not pass through")
	}

	doc, err := Page("Week 2025-01-06", source)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if !strings.Contains(string(doc), "<title>Week 2025-01-06</title>") || !strings.Contains(string(doc), "<table>") {
		t.Errorf("unexpected page:\n%s", doc)
	}
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("# Hello\n\nworld", 40)
	if err != nil {
		t.Fatalf("Terminal: %v", err)
	}
	if !strings.Contains(out, "Hello") || !strings.Contains(out, "world") {
		t.Errorf("unexpected output %q", out)
	}
}
