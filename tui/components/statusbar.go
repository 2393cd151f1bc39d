package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/sysglance/tui/styles"
)

// KeyHint is one key/description pair shown in the footer.
type KeyHint struct {
	Key  string
	Desc string
}

// RenderStatusBar renders the two-line status/footer bar showing the last
// poll time, source health, a transient message, and key bindings.
func RenderStatusBar(theme styles.Theme, lastPoll time.Time, failing []string, total int, message string, hints []KeyHint, width int) string {
	bg := theme.Base01
	bgStyle := lipgloss.NewStyle().Background(bg)
	sep := lipgloss.NewStyle().Foreground(theme.Base03).Background(bg).Render(" | ")

	lastStr := "never"
	if !lastPoll.IsZero() {
		lastStr = lastPoll.Format("15:04:05")
	}
	lastSeg := lipgloss.NewStyle().Foreground(theme.Base05).Background(bg).Render(fmt.Sprintf("last: %s", lastStr))

	healthColor := theme.Base0B
	healthText := fmt.Sprintf("%d/%d sources OK", total-len(failing), total)
	if len(failing) > 0 {
		healthColor = theme.Base0A
		healthText += " (" + strings.Join(failing, ", ") + ")"
	}
	healthSeg := lipgloss.NewStyle().Foreground(healthColor).Background(bg).Render(healthText)

	topContent := bgStyle.Render(" ") + lastSeg + sep + healthSeg
	if message != "" {
		topContent += sep + lipgloss.NewStyle().Foreground(theme.Base0E).Background(bg).Render(message)
	}
	topWidth := lipgloss.Width(topContent)
	if topWidth < width {
		topContent += bgStyle.Render(strings.Repeat(" ", width-topWidth))
	}

	keyStyle := lipgloss.NewStyle().Foreground(theme.Base0D).Background(bg).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.Base04).Background(bg)
	spacer := bgStyle.Render("  ")

	keys := bgStyle.Render(" ")
	for i, h := range hints {
		if i > 0 {
			keys += spacer
		}
		keys += keyStyle.Render(h.Key) + descStyle.Render(":"+h.Desc)
	}

	keysWidth := lipgloss.Width(keys)
	if keysWidth < width {
		keys += bgStyle.Render(strings.Repeat(" ", width-keysWidth))
	}

	clip := lipgloss.NewStyle().MaxWidth(width)
	return lipgloss.JoinVertical(lipgloss.Left, clip.Render(topContent), clip.Render(keys))
}
