package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/tonhe/sysglance/cmd"
	"github.com/tonhe/sysglance/internal/engine"
	"github.com/tonhe/sysglance/tui"
	"github.com/tonhe/sysglance/tui/styles"
)

func main() {
	if len(os.Args) > 1 && cmd.IsSubcommand(os.Args[1]) {
		cmd.Execute(os.Args[1:])
		return
	}

	fs := pflag.NewFlagSet("sysglance", pflag.ExitOnError)
	dashName := fs.StringP("dashboard", "d", "", "dashboard to launch")
	themeName := fs.StringP("theme", "t", "", "theme override")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	env, err := cmd.NewEnv(*dashName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := cmd.PrintReport(env, os.Stdout, "text"); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	theme := env.Config.Theme
	if *themeName != "" {
		theme = *themeName
	}
	if !styles.Apply(theme) {
		env.Log.Warn().Str("theme", theme).Msg("unknown theme, using default")
	}

	mgr := engine.NewManager()
	if err := env.Monitor.Start(mgr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer mgr.StopAll()

	model := tui.NewAppModel(env.Monitor, mgr, cmd.Version, env.Log)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		env.Log.Error().Err(err).Msg("tui exited with error")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
