package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/tonhe/sysglance/internal/dashboard"
	"github.com/tonhe/sysglance/internal/engine"
	"github.com/tonhe/sysglance/internal/journal"
	"github.com/tonhe/sysglance/internal/monitor"
	"github.com/tonhe/sysglance/internal/probe"
	"github.com/tonhe/sysglance/internal/runner"
	"github.com/tonhe/sysglance/tui/components"
	"github.com/tonhe/sysglance/tui/keys"
	"github.com/tonhe/sysglance/tui/styles"
	"github.com/tonhe/sysglance/tui/views"
)

// Tab identifies one of the top-level screens.
type Tab int

const (
	TabSystem Tab = iota
	TabHardware
	TabNetwork
	TabLogs
)

var tabNames = []string{"System", "Hardware", "Network", "Logs"}

const messageTTL = 5 * time.Second

// TickMsg triggers a periodic UI refresh to pick up new poll data.
type TickMsg struct{}

// ElevationMsg carries the result of an authentication request.
type ElevationMsg struct {
	Outcome journal.Outcome
	Err     error
}

// AuthMsg carries the result of a firewall authentication prompt.
type AuthMsg struct {
	Err error
}

// AppModel is the root Bubble Tea model that manages all views and state.
type AppModel struct {
	tab      Tab
	theme    styles.Theme
	monitor  *monitor.Monitor
	manager  *engine.Manager
	log      zerolog.Logger
	version  string
	snap     *monitor.Snapshot
	system   views.SystemView
	hardware views.HardwareView
	network  views.NetworkView
	logs     views.LogsView
	help     views.HelpView
	message  string
	msgAt    time.Time
	width    int
	height   int
}

// NewAppModel creates a new AppModel reading from the monitor whose tasks
// run on mgr.
func NewAppModel(mon *monitor.Monitor, mgr *engine.Manager, version string, log zerolog.Logger) AppModel {
	theme := styles.DefaultTheme
	m := AppModel{
		theme:    theme,
		monitor:  mon,
		manager:  mgr,
		log:      log,
		version:  version,
		system:   views.NewSystemView(theme),
		hardware: views.NewHardwareView(theme),
		network:  views.NewNetworkView(theme),
		logs:     views.NewLogsView(theme),
		help:     views.NewHelpView(theme),
	}
	m.refreshSnapshot()
	return m
}

// Init returns the initial command to start the tick loop.
func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m *AppModel) refreshSnapshot() {
	snap := m.monitor.Snapshot()
	m.snap = &snap
	m.system.SetSnapshot(m.snap)
	m.hardware.SetSnapshot(m.snap)
	m.network.SetSnapshot(m.snap)
	m.logs.SetSnapshot(m.snap)
}

func (m *AppModel) setMessage(msg string) {
	m.message = msg
	m.msgAt = time.Now()
}

// requestElevation runs the privilege prompt off the UI loop.
func (m AppModel) requestElevation() tea.Cmd {
	j := m.monitor.Journal()
	return func() tea.Msg {
		outcome, err := j.RequestElevation(context.Background())
		return ElevationMsg{Outcome: outcome, Err: err}
	}
}

// authenticate runs the launcher prompt off the UI loop.
func (m AppModel) authenticate() tea.Cmd {
	mon := m.monitor
	return func() tea.Msg {
		return AuthMsg{Err: mon.Authenticate(context.Background())}
	}
}

// Update handles messages and dispatches to the active view.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Body height = total - 1 (header) - 2 (status bar lines)
		bodyHeight := msg.Height - 3
		m.system.SetSize(msg.Width, bodyHeight)
		m.hardware.SetSize(msg.Width, bodyHeight)
		m.network.SetSize(msg.Width, bodyHeight)
		m.logs.SetSize(msg.Width, bodyHeight)
		m.help.SetSize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		m.refreshSnapshot()
		if m.message != "" && time.Since(m.msgAt) > messageTTL {
			m.message = ""
		}
		return m, tickCmd()

	case ElevationMsg:
		m.handleElevation(msg)
		m.refreshSnapshot()
		return m, nil

	case AuthMsg:
		switch {
		case msg.Err == nil:
			m.setMessage("Authenticated")
		case errors.Is(msg.Err, runner.ErrCancelled):
			m.setMessage("Authentication cancelled")
		default:
			m.log.Warn().Err(msg.Err).Msg("authentication failed")
			m.setMessage("Authentication failed: " + msg.Err.Error())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *AppModel) handleElevation(msg ElevationMsg) {
	if msg.Err != nil {
		if errors.Is(msg.Err, journal.ErrBusy) {
			m.setMessage("Log request already in progress")
			return
		}
		m.log.Warn().Err(msg.Err).Msg("elevation request failed")
		m.setMessage("Authentication failed: " + msg.Err.Error())
		return
	}
	switch msg.Outcome {
	case journal.OutcomeOK:
		m.setMessage("Authenticated")
	case journal.OutcomeCancelled:
		m.setMessage("Authentication cancelled")
	case journal.OutcomePermissionDenied:
		m.setMessage("Permission denied")
	default:
		m.setMessage("Could not read system logs")
	}
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := keys.DefaultKeyMap

	if m.help.IsVisible() {
		if key.Matches(msg, km.Help) || key.Matches(msg, km.Escape) {
			m.help.Toggle()
		}
		if key.Matches(msg, km.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, km.Quit):
		return m, tea.Quit
	case key.Matches(msg, km.Help):
		m.help.Toggle()
		return m, nil
	case key.Matches(msg, km.Tab1):
		m.tab = TabSystem
		return m, nil
	case key.Matches(msg, km.Tab2):
		m.tab = TabHardware
		return m, nil
	case key.Matches(msg, km.Tab3):
		m.tab = TabNetwork
		return m, nil
	case key.Matches(msg, km.Tab4):
		m.tab = TabLogs
		return m, nil
	case key.Matches(msg, km.Tab):
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		return m, nil
	case key.Matches(msg, km.BackTab):
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		return m, nil
	case key.Matches(msg, km.Refresh):
		m.manager.RefreshAll()
		m.setMessage("Refreshing")
		return m, nil
	case key.Matches(msg, km.Sort):
		by := probe.ByMemory
		if m.monitor.ProcessSort() == probe.ByMemory {
			by = probe.ByCPU
		}
		m.monitor.SetProcessSort(by)
		_ = m.manager.Refresh(string(dashboard.KindProcesses))
		return m, nil
	}

	if m.tab == TabSystem && key.Matches(msg, km.Authenticate) {
		m.setMessage("Waiting for authentication...")
		return m, m.authenticate()
	}

	var cmd tea.Cmd
	switch m.tab {
	case TabSystem:
		m.system, cmd = m.system.Update(msg)
	case TabHardware:
		m.hardware, cmd = m.hardware.Update(msg)
	case TabNetwork:
		m.network, cmd = m.network.Update(msg)
	case TabLogs:
		return m.handleLogsKey(msg)
	}
	return m, cmd
}

func (m AppModel) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := keys.DefaultKeyMap
	j := m.monitor.Journal()
	if j == nil {
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}

	scope := m.logs.Scope()
	q := j.Query(scope)
	switch {
	case key.Matches(msg, km.Authenticate):
		if st, _ := j.State(); st == journal.StateRequesting {
			m.setMessage("Log request already in progress")
			return m, nil
		}
		m.setMessage("Waiting for authentication...")
		return m, m.requestElevation()
	case key.Matches(msg, km.Scope):
		m.logs.ToggleScope()
		return m, nil
	case key.Matches(msg, km.Filter):
		q = q.CycleFilter(scope)
	case key.Matches(msg, km.Priority):
		q = q.CyclePriority()
	case key.Matches(msg, km.MoreLines):
		q = q.WithLines(journal.LinesStep)
	case key.Matches(msg, km.FewerLines):
		q = q.WithLines(-journal.LinesStep)
	default:
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}

	j.SetQuery(scope, q)
	_ = m.manager.Refresh(string(dashboard.KindLogs))
	m.refreshSnapshot()
	return m, nil
}

// hints returns the footer key hints of the active tab.
func (m AppModel) hints() []components.KeyHint {
	hints := []components.KeyHint{{Key: "1-4", Desc: "tabs"}, {Key: "r", Desc: "refresh"}}
	switch m.tab {
	case TabSystem:
		hints = append(hints,
			components.KeyHint{Key: "s", Desc: "sort"},
			components.KeyHint{Key: "a", Desc: "auth"},
		)
	case TabLogs:
		hints = append(hints,
			components.KeyHint{Key: "a", Desc: "auth"},
			components.KeyHint{Key: "u", Desc: "scope"},
			components.KeyHint{Key: "f", Desc: "filter"},
			components.KeyHint{Key: "p", Desc: "priority"},
			components.KeyHint{Key: "+/-", Desc: "lines"},
		)
	}
	return append(hints, components.KeyHint{Key: "?", Desc: "help"}, components.KeyHint{Key: "q", Desc: "quit"})
}

// View renders the full application UI by composing header, body, and status.
func (m AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.help.IsVisible() {
		return m.help.View()
	}

	header := components.RenderHeader(m.theme, tabNames, int(m.tab), m.snap.Dashboard, m.version, m.width)

	var body string
	switch m.tab {
	case TabSystem:
		body = m.system.View()
	case TabHardware:
		body = m.hardware.View()
	case TabNetwork:
		body = m.network.View()
	case TabLogs:
		body = m.logs.View()
	}

	var lastPoll time.Time
	for _, t := range m.snap.Tasks {
		if t.LastRun.After(lastPoll) {
			lastPoll = t.LastRun
		}
	}
	statusBar := components.RenderStatusBar(m.theme, lastPoll, m.snap.Failing(), len(m.snap.Tasks), m.message, m.hints(), m.width)

	// Fill body to the available height between header and status bar
	bodyHeight := m.height - 1 - 2 // 1 header line, 2 status bar lines
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	bodyStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Background(m.theme.Base00).
		Foreground(m.theme.Base05)

	return lipgloss.JoinVertical(lipgloss.Left, header, bodyStyle.Render(body), statusBar)
}
