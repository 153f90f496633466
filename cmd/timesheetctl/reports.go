package main

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"

	"timesheet/internal/core"
	"timesheet/internal/report"
)

type weekCmd struct {
	date string
}

func (*weekCmd) Name() string     { return "week" }
func (*weekCmd) Synopsis() string { return "display a week report" }
func (*weekCmd) Usage() string {
	return `timesheetctl week [-d <yyyy-MM-dd>]

  Displays hours per account and day for the week containing the date.
`
}

func (c *weekCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Any date of the week (defaults to today)")
}

func (c *weekCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	week := core.WeekOf(time.Now())
	if c.date != "" {
		w, err := core.ParseWeek(c.date)
		if err != nil {
			errorf("%v", err)
			return subcommands.ExitUsageError
		}
		week = w
	}

	app, err := openApp(ctx)
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer closeApp(app)

	note, err := app.Career.WeekNote(ctx, week.ID())
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	return render(report.Week(app.Stats.Overview(ctx, week), note.Notes))
}

type monthCmd struct {
	year  int
	month int
}

func (*monthCmd) Name() string     { return "month" }
func (*monthCmd) Synopsis() string { return "display a month report" }
func (*monthCmd) Usage() string {
	return `timesheetctl month [-y <year>] [-m <month>]

  Displays the chargeable hours and utilization of every week touching the month.
`
}

func (c *monthCmd) SetFlags(f *flag.FlagSet) {
	now := time.Now()
	f.IntVar(&c.year, "y", now.Year(), "Year")
	f.IntVar(&c.month, "m", int(now.Month()), "Month, 1 to 12")
}

func (c *monthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.month < 1 || c.month > 12 {
		errorf("month %d out of range", c.month)
		return subcommands.ExitUsageError
	}

	app, err := openApp(ctx)
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer closeApp(app)

	return render(report.Month(app.Stats.MonthlyStats(ctx, c.year, time.Month(c.month))))
}

type yearCmd struct {
	year int
}

func (*yearCmd) Name() string     { return "year" }
func (*yearCmd) Synopsis() string { return "display a year report" }
func (*yearCmd) Usage() string {
	return `timesheetctl year [-y <year>]

  Displays the monthly figures and per-account totals of the year.
`
}

func (c *yearCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", time.Now().Year(), "Year")
}

func (c *yearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer closeApp(app)

	return render(report.Year(app.Stats.YearStats(ctx, c.year), app.Stats.AccountSummary(ctx, c.year)))
}

func render(md string, err error) subcommands.ExitStatus {
	if err == nil {
		err = printMarkdown(md)
	}
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
