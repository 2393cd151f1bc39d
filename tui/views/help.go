package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/sysglance/tui/styles"
)

// HelpView renders a modal overlay showing all keyboard shortcuts.
type HelpView struct {
	theme   styles.Theme
	sty     *styles.Styles
	width   int
	height  int
	visible bool
}

// NewHelpView creates a new HelpView with the given theme.
func NewHelpView(theme styles.Theme) HelpView {
	return HelpView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// Toggle flips the help overlay visibility.
func (v *HelpView) Toggle() {
	v.visible = !v.visible
}

// IsVisible returns whether the help overlay is currently shown.
func (v HelpView) IsVisible() bool {
	return v.visible
}

// SetSize updates the available dimensions for the overlay.
func (v *HelpView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View renders the help overlay as a centered modal box.
func (v HelpView) View() string {
	sectionStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0E).
		Bold(true)
	keyStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0D).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base05)
	dimStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base04)

	// Helper to format a keybinding line with aligned columns.
	bindingLine := func(keys, desc string) string {
		return fmt.Sprintf("  %s  %s",
			keyStyle.Render(padRight(keys, 12)),
			descStyle.Render(desc),
		)
	}

	var lines []string

	lines = append(lines, sectionStyle.Render("Global"))
	lines = append(lines, bindingLine("q / Ctrl+C", "Quit"))
	lines = append(lines, bindingLine("?", "Toggle this help"))
	lines = append(lines, bindingLine("1-4", "Jump to tab"))
	lines = append(lines, bindingLine("Tab / S-Tab", "Next / previous tab"))
	lines = append(lines, bindingLine("r", "Refresh all sources"))
	lines = append(lines, "")

	lines = append(lines, sectionStyle.Render("System / Hardware / Network"))
	lines = append(lines, bindingLine("Up / Down", "Scroll or select"))
	lines = append(lines, bindingLine("PgUp / PgDn", "Page"))
	lines = append(lines, bindingLine("s", "Sort processes by CPU / memory"))
	lines = append(lines, bindingLine("a", "Authenticate firewall probe"))
	lines = append(lines, "")

	lines = append(lines, sectionStyle.Render("Logs"))
	lines = append(lines, bindingLine("a", "Authenticate for system logs"))
	lines = append(lines, bindingLine("u", "System / user journal"))
	lines = append(lines, bindingLine("f", "Next filter"))
	lines = append(lines, bindingLine("p", "Next priority"))
	lines = append(lines, bindingLine("+ / -", "More / fewer lines"))
	lines = append(lines, "")

	// Footer hint
	lines = append(lines, dimStyle.Render("[?] close"))

	title := v.sty.ModalTitle.Background(v.theme.Base00).Render(" Keyboard Shortcuts ")

	// Size the box from its widest line so no binding wraps.
	innerWidth := lipgloss.Width(title) + 2
	for _, l := range lines {
		innerWidth = max(innerWidth, lipgloss.Width(l))
	}
	innerWidth = max(innerWidth, 32)
	if v.width > 0 {
		innerWidth = max(min(innerWidth, v.width-6), 1)
	}

	body := v.sty.ModalBorder.
		Border(lipgloss.RoundedBorder(), false, true, true, true).
		Width(innerWidth + 4). // padding
		Render(strings.Join(lines, "\n"))

	// Top border carries the title; built from styled segments.
	border := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().
		Foreground(v.theme.Base0D).
		Background(v.theme.Base00)
	fill := lipgloss.Width(body) - 3 - lipgloss.Width(title)
	top := edge.Render(border.TopLeft+border.Top) +
		title +
		edge.Render(strings.Repeat(border.Top, max(fill, 0))+border.TopRight)

	modal := lipgloss.JoinVertical(lipgloss.Left, top, body)

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, modal)
}
