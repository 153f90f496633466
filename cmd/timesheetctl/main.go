// Command timesheetctl edits and reports on a timesheet database from the
// terminal.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds every timesheetctl subcommand to c.
func register(c *subcommands.Commander) {
	c.Register(&accountsCmd{}, "accounts")
	c.Register(&addAccountCmd{}, "accounts")

	c.Register(&assignCmd{}, "slots")
	c.Register(&clearCmd{}, "slots")
	c.Register(&clearWeekCmd{}, "slots")
	c.Register(&completeCmd{}, "slots")

	c.Register(&weekCmd{}, "reports")
	c.Register(&monthCmd{}, "reports")
	c.Register(&yearCmd{}, "reports")
}
