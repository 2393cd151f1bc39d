package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/sysglance/tui/styles"
)

// padRight pads s with spaces on the right to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	n := lipgloss.Width(s)
	if n >= width {
		return truncate(s, width)
	}
	return s + strings.Repeat(" ", width-n)
}

// padLeft pads s with spaces on the left to the given width.
func padLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	n := lipgloss.Width(s)
	if n >= width {
		return truncate(s, width)
	}
	return strings.Repeat(" ", width-n) + s
}

// truncate shortens s to maxLen characters, adding an ellipsis if needed.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// window returns at most height lines starting at offset, clamping offset
// so the last page stays full. It returns the clamped offset.
func window(lines []string, offset, height int) ([]string, int) {
	if height < 1 {
		height = 1
	}
	maxOffset := len(lines) - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + height
	if end > len(lines) {
		end = len(lines)
	}
	return lines[offset:end], offset
}

// scroller holds a vertical offset into a list of rendered lines.
type scroller struct {
	offset int
}

func (s *scroller) up() {
	if s.offset > 0 {
		s.offset--
	}
}

func (s *scroller) down() { s.offset++ }

func (s *scroller) page(delta int) {
	s.offset += delta
	if s.offset < 0 {
		s.offset = 0
	}
}

// clamp keeps the offset within a list of total lines shown height at a time.
func (s *scroller) clamp(total, height int) {
	if last := total - height; s.offset > last {
		s.offset = last
	}
	if s.offset < 0 {
		s.offset = 0
	}
}

// render windows lines to height and stores the clamped offset.
func (s *scroller) render(lines []string, height int) string {
	visible, off := window(lines, s.offset, height)
	s.offset = off
	return strings.Join(visible, "\n")
}

func sectionHeader(sty *styles.Styles, title string, width int) string {
	return sty.GroupHeader.Render(padRight(fmt.Sprintf("--- %s ---", title), width))
}

func labelValue(sty *styles.Styles, label, value string, labelWidth int) string {
	return fmt.Sprintf("  %s%s", sty.Label.Render(padRight(label, labelWidth)), sty.Value.Render(value))
}
