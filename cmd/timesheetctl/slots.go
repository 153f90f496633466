package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"timesheet/internal/core"
)

type assignCmd struct {
	to string
}

func (*assignCmd) Name() string     { return "assign" }
func (*assignCmd) Synopsis() string { return "assign slots to an account" }
func (*assignCmd) Usage() string {
	return `timesheetctl assign [-to <HH:MM>] <yyyy-MM-dd-HH:MM> <account>

  Assigns the slot to the account. With -to, every slot up to that time
  on the same day is assigned too.
`
}

func (c *assignCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.to, "to", "", "End time of the range, exclusive")
}

func (c *assignCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		errorf("assign needs a slot and an account")
		return subcommands.ExitUsageError
	}
	slots, err := slotRange(f.Arg(0), c.to)
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitUsageError
	}

	app, err := openApp(ctx)
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer closeApp(app)

	week := core.WeekOf(slots[0].Date).ID()
	for _, slot := range slots {
		if _, err := app.Timesheet.AssignSlot(ctx, week, slot.ID(), f.Arg(1)); err != nil {
			errorf("%s: %v", slot, err)
			return subcommands.ExitFailure
		}
	}
	fmt.Fprintf(stdout, "assigned %d slot(s) to %s\n", len(slots), f.Arg(1))
	return subcommands.ExitSuccess
}

// slotRange expands a start slot and an optional exclusive end time into
// the slots between them.
func slotRange(start, to string) ([]core.Slot, error) {
	first, err := core.ParseSlot(start)
	if err != nil {
		return nil, err
	}
	if to == "" {
		return []core.Slot{first}, nil
	}
	end, err := core.SlotAt(first.DateID(), to)
	if err != nil {
		return nil, err
	}
	if end.Minute <= first.Minute {
		return nil, fmt.Errorf("%w: %s is not after %s", core.ErrInvalidSlot, end.Clock(), first.Clock())
	}
	var out []core.Slot
	for m := first.Minute; m < end.Minute; m += 30 {
		s, err := core.NewSlot(first.Date, m)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

type clearCmd struct{}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "clear one slot" }
func (*clearCmd) Usage() string {
	return `timesheetctl clear <yyyy-MM-dd-HH:MM>

  Removes the assignment of a slot, if any.
`
}

func (*clearCmd) SetFlags(*flag.FlagSet) {}

func (*clearCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		errorf("clear needs a slot")
		return subcommands.ExitUsageError
	}
	slot, err := core.ParseSlot(f.Arg(0))
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitUsageError
	}

	app, err := openApp(ctx)
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer closeApp(app)

	if err := app.Timesheet.ClearSlot(ctx, core.WeekOf(slot.Date).ID(), slot.ID()); err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "cleared %s\n", slot)
	return subcommands.ExitSuccess
}

type clearWeekCmd struct{}

func (*clearWeekCmd) Name() string     { return "clear-week" }
func (*clearWeekCmd) Synopsis() string { return "clear every slot of a week" }
func (*clearWeekCmd) Usage() string {
	return `timesheetctl clear-week <yyyy-MM-dd>

  Removes every assignment of the week containing the date and resets its status.
`
}

func (*clearWeekCmd) SetFlags(*flag.FlagSet) {}

func (*clearWeekCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		errorf("clear-week needs a date")
		return subcommands.ExitUsageError
	}

	app, err := openApp(ctx)
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer closeApp(app)

	removed, err := app.Timesheet.ClearWeek(ctx, f.Arg(0))
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "removed %d slot(s)\n", removed)
	return subcommands.ExitSuccess
}

type completeCmd struct{}

func (*completeCmd) Name() string     { return "complete" }
func (*completeCmd) Synopsis() string { return "mark a week as completed" }
func (*completeCmd) Usage() string {
	return `timesheetctl complete <yyyy-MM-dd>

  Marks the week containing the date as completed. The week must have entries.
`
}

func (*completeCmd) SetFlags(*flag.FlagSet) {}

func (*completeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		errorf("complete needs a date")
		return subcommands.ExitUsageError
	}

	app, err := openApp(ctx)
	if err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer closeApp(app)

	if err := app.Timesheet.CompleteWeek(ctx, f.Arg(0)); err != nil {
		errorf("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "completed week of %s\n", f.Arg(0))
	return subcommands.ExitSuccess
}
