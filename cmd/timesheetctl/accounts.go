package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"timesheet/internal/core"
	"timesheet/internal/report"
)

type accountsCmd struct {
	all bool
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the account catalog" }
func (*accountsCmd) Usage() string {
	return `timesheetctl accounts [-all]

  Lists the active accounts by group, or every account with -all.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Include inactive accounts")
}

func (c *accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer closeApp(app)

	var accounts []core.Account
	if c.all {
		accounts = app.Accounts.List(ctx)
	} else {
		g := app.Accounts.Active(ctx)
		accounts = append(accounts, g.Chargeable...)
		accounts = append(accounts, g.NonChargeable...)
		accounts = append(accounts, g.Extra...)
	}

	md, err := report.Accounts(accounts)
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	if err := printMarkdown(md); err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type addAccountCmd struct {
	id          string
	name        string
	group       string
	color       string
	budget      string
	jobNumber   string
	jobID       string
	description string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "add an account to the catalog" }
func (*addAccountCmd) Usage() string {
	return `timesheetctl add-account -id <id> -name <name> [-group <group>] [-color <#rrggbb>] [-budget <hours>]

  Adds an active account. The group is one of chargeable, non-chargeable or extra.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Account id")
	f.StringVar(&c.name, "name", "", "Display name")
	f.StringVar(&c.group, "group", string(core.GroupChargeable), "Account group")
	f.StringVar(&c.color, "color", "#3b82f6", "Calendar color")
	f.StringVar(&c.budget, "budget", "", "Budgeted hours for the year")
	f.StringVar(&c.jobNumber, "job-number", "", "Job number")
	f.StringVar(&c.jobID, "job-id", "", "Job id")
	f.StringVar(&c.description, "description", "", "Free text description")
}

func (c *addAccountCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := core.Account{
		ID:          c.id,
		Name:        c.name,
		Group:       core.Group(c.group),
		Color:       c.color,
		JobNumber:   c.jobNumber,
		JobID:       c.jobID,
		Description: c.description,
		IsActive:    true,
	}
	if c.budget != "" {
		h, err := core.ParseHours(c.budget)
		if err != nil {
			errorf("budget %q: %v", c.budget, err)
			return subcommands.ExitUsageError
		}
		a.BudgetedHours = decimal.NewNullDecimal(h)
	}
	if err := a.Normalize().Validate(); err != nil {
		errorf("%v", err)
		return subcommands.ExitUsageError
	}

	app, err := openApp(ctx)
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer closeApp(app)

	created, err := app.Accounts.Create(ctx, a)
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "added %s (%s)\n", created.ID, created.Group)
	return subcommands.ExitSuccess
}
