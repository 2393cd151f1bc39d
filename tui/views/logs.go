package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/sysglance/internal/journal"
	"github.com/tonhe/sysglance/internal/monitor"
	"github.com/tonhe/sysglance/tui/styles"
)

// LogsView shows one journal excerpt in a scrollable viewport.
type LogsView struct {
	theme   styles.Theme
	sty     *styles.Styles
	logs    monitor.Logs
	scope   journal.Scope
	content string
	vp      viewport.Model
	width   int
	height  int
}

// NewLogsView creates a new LogsView with the given theme.
func NewLogsView(theme styles.Theme) LogsView {
	return LogsView{
		theme: theme,
		sty:   styles.NewStyles(theme),
		vp:    viewport.New(0, 0),
	}
}

// Scope returns the journal currently displayed.
func (v LogsView) Scope() journal.Scope {
	return v.scope
}

// ToggleScope switches between the system and user journals.
func (v *LogsView) ToggleScope() {
	if v.scope == journal.System {
		v.scope = journal.User
	} else {
		v.scope = journal.System
	}
	v.refreshContent()
}

// SetSnapshot replaces the journal state shown by the view.
func (v *LogsView) SetSnapshot(snap *monitor.Snapshot) {
	if snap == nil {
		return
	}
	v.logs = snap.Logs
	v.refreshContent()
}

// SetSize updates the available dimensions for the view.
func (v *LogsView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.vp.Width = width
	v.vp.Height = height - 2
	if v.vp.Height < 1 {
		v.vp.Height = 1
	}
}

// Update forwards scrolling to the viewport.
func (v LogsView) Update(msg tea.Msg) (LogsView, tea.Cmd) {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

// View renders the query header above the journal text.
func (v LogsView) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, v.renderHeader(), "", v.vp.View())
}

// Text returns the text shown for the current scope.
func (v LogsView) Text() string {
	return v.content
}

// refreshContent loads the current scope's text, keeping the scroll
// position unless the text changed.
func (v *LogsView) refreshContent() {
	text := v.text()
	if text == v.content {
		return
	}
	v.content = text
	v.vp.SetContent(text)
	v.vp.GotoBottom()
}

func (v LogsView) text() string {
	result := v.logs.User
	if v.scope == journal.System {
		result = v.logs.System
	}
	if result.Text != "" {
		return result.Text
	}
	switch {
	case v.logs.State == journal.StateRequesting:
		return "Waiting for authentication..."
	case v.scope == journal.System && !v.logs.Authenticated:
		return "System logs require authentication.\n\nPress [a] to authenticate."
	}
	return "Loading logs..."
}

func (v LogsView) query() journal.Query {
	if v.scope == journal.User {
		return v.logs.UserQuery
	}
	return v.logs.SystemQuery
}

func (v LogsView) renderHeader() string {
	q := v.query()
	title := "System Journal"
	if v.scope == journal.User {
		title = "User Journal"
	}

	auth := v.sty.StatusWarn.Render("not authenticated")
	if v.logs.Authenticated {
		auth = v.sty.StatusUp.Render("authenticated")
	}
	if v.logs.State == journal.StateRequesting {
		auth = v.sty.StatusWarn.Render("requesting...")
	}

	sep := v.sty.TableCellDim.Render("  |  ")
	return v.sty.GroupHeader.Render(title) + sep +
		v.sty.Label.Render("Filter: ") + v.sty.Value.Render(q.FilterLabel(v.scope)) + sep +
		v.sty.Label.Render("Priority: ") + v.sty.Value.Render(q.PriorityLabel()) + sep +
		v.sty.Label.Render("Lines: ") + v.sty.Value.Render(fmt.Sprintf("%d", q.MaxLines)) + sep +
		auth
}
