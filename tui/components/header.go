package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/sysglance/tui/styles"
)

// RenderHeader renders the top header bar with the app name, the tab
// strip, the dashboard name and the version.
func RenderHeader(theme styles.Theme, tabs []string, active int, dashName, version string, width int) string {
	st := styles.NewStyles(theme)
	bg := lipgloss.NewStyle().Background(theme.Base01)

	left := st.HeaderTitle.Render(" sysglance ")

	var strip []string
	for i, name := range tabs {
		label := string(rune('1'+i)) + " " + name
		if i == active {
			strip = append(strip, st.TabActive.Render(label))
		} else {
			strip = append(strip, st.TabInactive.Render(label))
		}
	}
	tabsSeg := strings.Join(strip, bg.Render(" "))

	right := lipgloss.NewStyle().
		Foreground(theme.Base04).
		Background(theme.Base01).
		Render(dashName + "  v" + version + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(tabsSeg) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	content := left + bg.Render(" ") + tabsSeg + bg.Render(strings.Repeat(" ", gap)) + right

	return lipgloss.NewStyle().
		Background(theme.Base01).
		Width(width).
		MaxWidth(width).
		Render(content)
}
