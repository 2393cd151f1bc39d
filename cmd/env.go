package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/tonhe/sysglance/internal/config"
	"github.com/tonhe/sysglance/internal/dashboard"
	"github.com/tonhe/sysglance/internal/inventory"
	"github.com/tonhe/sysglance/internal/journal"
	"github.com/tonhe/sysglance/internal/logging"
	"github.com/tonhe/sysglance/internal/monitor"
	"github.com/tonhe/sysglance/internal/probe"
	"github.com/tonhe/sysglance/internal/runner"
)

// Env holds the services shared by the TUI and the CLI subcommands.
type Env struct {
	Config    *config.Config
	Log       zerolog.Logger
	Runner    runner.Runner
	Elevator  *runner.Elevator
	Journal   *journal.Service
	Dashboard *dashboard.Dashboard
	Monitor   *monitor.Monitor
	closer    io.Closer
}

// NewEnv loads the config and wires every service. An empty dashName
// selects the configured dashboard.
func NewEnv(dashName string) (*Env, error) {
	cfg := LoadOrDefaultConfig()
	if dashName != "" {
		cfg.Dashboard = dashName
	}

	if cfg.Log.File == "" {
		if path, err := config.GetLogPath(); err == nil {
			cfg.Log.File = path
		}
	}
	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	dashDir, err := config.GetDashboardsDir()
	if err != nil {
		closer.Close()
		return nil, err
	}
	dash, err := dashboard.Resolve(dashDir, cfg.Dashboard)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("load dashboard %q: %w", cfg.Dashboard, err)
	}
	if cfg.HistorySize > 0 {
		dash.MaxHistory = cfg.HistorySize
	}

	run := runner.NewExecRunner(cfg.CommandTimeout, logging.WithComponent(log, "runner"))
	prompter := runner.NewExecRunner(runner.PromptTimeout, logging.WithComponent(log, "elevator"))
	elevator := runner.NewElevator(prompter, cfg.Launcher)
	journalSvc := journal.NewService(run, elevator, cfg.Journal.Lines, logging.WithComponent(log, "journal"))

	mon := monitor.New(dash, monitor.Deps{
		Resolver: probe.NewResolver(run, elevator, logging.WithComponent(log, "probe")),
		Software: inventory.NewSoftwareProbe(run),
		Snapshots: []inventory.Source{
			inventory.NewFastfetchSource(run),
			inventory.NewHostSource(),
		},
		Journal:  journalSvc,
		Elevator: elevator,
		CPU:      monitor.SampleCPU,
	}, logging.WithComponent(log, "monitor"))

	log.Info().Str("dashboard", dash.Name).Int("sources", len(dash.Enabled())).Msg("services ready")

	return &Env{
		Config:    cfg,
		Log:       log,
		Runner:    run,
		Elevator:  elevator,
		Journal:   journalSvc,
		Dashboard: dash,
		Monitor:   mon,
		closer:    closer,
	}, nil
}

// Close flushes the log file.
func (e *Env) Close() {
	if e.closer != nil {
		e.closer.Close()
	}
}

// mustEnv builds an Env or exits.
func mustEnv(dashName string) *Env {
	env, err := NewEnv(dashName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return env
}
