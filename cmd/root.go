package cmd

import (
	"fmt"
	"os"
)

// Version is the application version.
const Version = "0.1.0"

// knownSubcommands is the set of CLI subcommands that bypass the TUI.
var knownSubcommands = map[string]bool{
	"report":     true,
	"logs":       true,
	"dashboards": true,
	"config":     true,
	"themes":     true,
	"version":    true,
	"help":       true,
}

// IsSubcommand returns true if the argument is a known CLI subcommand.
func IsSubcommand(arg string) bool {
	return knownSubcommands[arg]
}

// Execute dispatches to the appropriate CLI subcommand handler.
func Execute(args []string) {
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "report":
		reportCmd(args[1:])
	case "logs":
		logsCmd(args[1:])
	case "dashboards":
		dashboardsCmd()
	case "config":
		configCmd(args[1:])
	case "themes":
		themesCmd()
	case "version":
		fmt.Printf("sysglance v%s\n", Version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`sysglance - desktop system telemetry

Usage:
  sysglance                       Launch TUI (prints a report when not a terminal)
  sysglance --dashboard NAME      Launch with specific dashboard
  sysglance --theme NAME          Launch with theme override
  sysglance report [flags]        Collect every source once and print it
  sysglance logs [flags]          Print system or user journal lines
  sysglance dashboards            List dashboards
  sysglance config <cmd>          Manage configuration
  sysglance themes                List available themes
  sysglance version               Show version
  sysglance help                  Show this help

Report Flags:
  --format text|json|yaml         Output format (default text)
  --dashboard NAME                Dashboard whose sources are collected

Logs Flags:
  --user                          Read the user journal instead of the system journal
  --filter N                      Filter id (0 = all)
  --priority N                    Priority id 1-8 (0 = all)
  --lines N                       Number of lines (50-1000)

Config Commands:
  sysglance config path                  Show config file path
  sysglance config theme NAME            Set default theme
  sysglance config dashboard NAME        Set default dashboard`)
}
