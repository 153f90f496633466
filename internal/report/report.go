// Package report renders week, month and year figures as markdown, and
// markdown as HTML.
package report

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"timesheet/internal/core"
	"timesheet/internal/services"
)

//go:embed templates/*.md
var templates embed.FS

var tmpl = template.Must(template.ParseFS(templates, "templates/*.md"))

type (
	row struct {
		Name  string
		Daily [core.DaysPerWeek]string
		Total string
	}

	section struct {
		Title string
		Rows  []row
	}

	weekView struct {
		WeekID          string
		Status          core.WeekStatus
		Days            []string
		TotalHours      string
		ChargeableHours string
		ExpectedHours   string
		Utilization     string
		ActiveDays      int
		Sections        []section
		Notes           string
	}

	monthWeekView struct {
		WeekID      string
		Status      core.WeekStatus
		Chargeable  string
		Expected    string
		Utilization string
		Included    bool
	}

	monthView struct {
		Title           string
		ChargeableHours string
		Utilization     string
		CompletedWeeks  int
		Weeks           []monthWeekView
	}

	accountView struct {
		Name       string
		Group      core.Group
		Hours      string
		Budget     string
		BudgetUsed string
	}

	yearView struct {
		Year                 int
		TotalChargeableHours string
		AverageUtilization   string
		Months               []monthRowView
		Accounts             []accountView
	}

	catalogView struct {
		ID     string
		Name   string
		Group  core.Group
		Color  string
		Budget string
		Active bool
	}

	monthRowView struct {
		Name           string
		Chargeable     string
		Utilization    string
		CompletedWeeks int
	}
)

var groupTitles = []struct {
	group core.Group
	title string
}{
	{core.GroupChargeable, "Chargeable"},
	{core.GroupNonChargeable, "Non-chargeable"},
	{core.GroupExtra, "Extra"},
}

// Week renders the week overview with one table per account group.
func Week(ov services.WeekOverview, notes string) (string, error) {
	v := weekView{
		WeekID:          ov.WeekID,
		Status:          ov.Status,
		TotalHours:      core.FormatHours(ov.Stats.TotalHours),
		ChargeableHours: core.FormatHours(ov.Stats.ChargeableHours),
		ExpectedHours:   core.FormatHours(ov.Stats.ExpectedHours),
		Utilization:     ov.Stats.Utilization.StringFixed(2),
		ActiveDays:      ov.Stats.ActiveDays,
		Notes:           strings.TrimSpace(notes),
	}
	for _, d := range ov.Days {
		v.Days = append(v.Days, dayLabel(d))
	}

	hours := make(map[string]core.AccountHours, len(ov.Hours))
	for _, h := range ov.Hours {
		hours[h.AccountID] = h
	}
	for _, g := range groupTitles {
		sec := section{Title: g.title}
		for _, acc := range ov.Accounts {
			if acc.Group != g.group {
				continue
			}
			h, ok := hours[acc.ID]
			if !ok {
				h = core.EmptyAccountHours(acc.ID)
			}
			r := row{Name: cell(acc.Name), Total: core.FormatHours(h.Total)}
			for i, d := range h.Daily {
				r.Daily[i] = core.FormatHours(d)
			}
			sec.Rows = append(sec.Rows, r)
		}
		if len(sec.Rows) > 0 {
			v.Sections = append(v.Sections, sec)
		}
	}
	return execute("week.md", v)
}

// Month renders a month breakdown, one line per week touching the month.
func Month(m core.MonthStats) (string, error) {
	v := monthView{
		Title:           fmt.Sprintf("%s %d", time.Month(m.Month), m.Year),
		ChargeableHours: core.FormatHours(m.ChargeableHours),
		Utilization:     m.Utilization.StringFixed(2),
		CompletedWeeks:  m.CompletedWeeks,
	}
	for _, w := range m.Weeks {
		v.Weeks = append(v.Weeks, monthWeekView{
			WeekID:      w.WeekID,
			Status:      w.Status,
			Chargeable:  core.FormatHours(w.Stats.ChargeableHours),
			Expected:    core.FormatHours(w.Stats.ExpectedHours),
			Utilization: w.Stats.Utilization.StringFixed(2),
			Included:    w.Included,
		})
	}
	return execute("month.md", v)
}

// Year renders the year summary and, when given, the per-account totals.
func Year(y core.YearStats, totals []core.AccountTotal) (string, error) {
	v := yearView{
		Year:                 y.Year,
		TotalChargeableHours: core.FormatHours(y.TotalChargeableHours),
		AverageUtilization:   y.AverageUtilization.StringFixed(2),
	}
	for _, m := range y.Months {
		v.Months = append(v.Months, monthRowView{
			Name:           time.Month(m.Month).String(),
			Chargeable:     core.FormatHours(m.ChargeableHours),
			Utilization:    m.Utilization.StringFixed(2),
			CompletedWeeks: m.CompletedWeeks,
		})
	}
	for _, t := range totals {
		v.Accounts = append(v.Accounts, accountView{
			Name:       cell(t.Account.Name),
			Group:      t.Account.Group,
			Hours:      core.FormatHours(t.TotalHours),
			Budget:     nullHours(t.Account.BudgetedHours),
			BudgetUsed: nullPercent(t.BudgetUsedPercent),
		})
	}
	return execute("year.md", v)
}

// Accounts renders the account catalog as one table.
func Accounts(accounts []core.Account) (string, error) {
	v := make([]catalogView, 0, len(accounts))
	for _, a := range accounts {
		v = append(v, catalogView{
			ID:     cell(a.ID),
			Name:   cell(a.Name),
			Group:  a.Group,
			Color:  a.Color,
			Budget: nullHours(a.BudgetedHours),
			Active: a.IsActive,
		})
	}
	return execute("accounts.md", v)
}

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}

// dayLabel turns 2025-01-06 into "Mon 06/01".
func dayLabel(date string) string {
	t, err := core.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Mon 02/01")
}

// cell keeps user text from breaking a markdown table row.
func cell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "|", `\|`)
}

func nullHours(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return core.FormatHours(d.Decimal)
}

func nullPercent(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2) + "%"
}
