package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/tonhe/sysglance/internal/journal"
)

func logsCmd(args []string) {
	fs := pflag.NewFlagSet("logs", pflag.ExitOnError)
	user := fs.BoolP("user", "u", false, "read the user journal instead of the system journal")
	filter := fs.IntP("filter", "f", 0, "filter id (0 = all)")
	priority := fs.IntP("priority", "p", 0, "priority id 1-8 (0 = all)")
	lines := fs.IntP("lines", "n", 0, "number of lines (50-1000)")
	listFilters := fs.Bool("list-filters", false, "print the filter ids of the selected journal")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: sysglance logs [--user] [--filter N] [--priority N] [--lines N]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	scope := journal.System
	if *user {
		scope = journal.User
	}

	if *listFilters {
		for i, f := range journal.Filters(scope) {
			fmt.Printf("%d  %s\n", i, f.Label)
		}
		return
	}

	if *filter < 0 || *filter >= len(journal.Filters(scope)) {
		fmt.Fprintf(os.Stderr, "Error: filter must be between 0 and %d\n", len(journal.Filters(scope))-1)
		os.Exit(1)
	}
	if *priority < 0 || *priority > len(journal.Priorities) {
		fmt.Fprintf(os.Stderr, "Error: priority must be between 0 and %d\n", len(journal.Priorities))
		os.Exit(1)
	}

	env := mustEnv("")
	defer env.Close()

	q := env.Journal.Query(scope)
	q.Filter = *filter
	q.Priority = *priority
	if *lines > 0 {
		q = q.WithLines(*lines - q.MaxLines)
	}
	env.Journal.SetQuery(scope, q)

	ctx := context.Background()
	var res journal.Result
	if scope == journal.User {
		if err := env.Journal.Refresh(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		res = env.Journal.Current(journal.User)
	} else {
		outcome, err := env.Journal.RequestElevation(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if outcome == journal.OutcomeCancelled {
			fmt.Fprintln(os.Stderr, "Authentication cancelled.")
			os.Exit(1)
		}
		res = env.Journal.Current(journal.System)
	}

	fmt.Println(res.Text)
	if res.Outcome != journal.OutcomeOK {
		os.Exit(1)
	}
}
