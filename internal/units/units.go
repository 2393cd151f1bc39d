// Package units formats byte counts, percentages and durations for display.
package units

import (
	"fmt"
	"strings"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count as "<value> <unit>" using base-1024 units
// and two decimals. Zero is rendered as "0 B".
func FormatBytes(bytes uint64) string {
	if bytes == 0 {
		return "0 B"
	}
	value := float64(bytes)
	i := 0
	for value >= 1024 && i < len(sizeUnits)-1 {
		value /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[i])
}

// Percent returns used*100/total and false when total is zero.
func Percent(used, total uint64) (float64, bool) {
	if total == 0 {
		return 0, false
	}
	return float64(used) * 100 / float64(total), true
}

// UsageString renders "used / total (p%)", omitting the percentage when
// total is zero.
func UsageString(used, total uint64) string {
	s := FormatBytes(used) + " / " + FormatBytes(total)
	if pct, ok := Percent(used, total); ok {
		s += fmt.Sprintf(" (%.1f%%)", pct)
	}
	return s
}

// CapitalizeWords upper-cases the first letter of each space separated word
// and lower-cases the rest.
func CapitalizeWords(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// FormatRate formats a bit rate with a K/M/G/T suffix.
func FormatRate(bps float64) string {
	if bps == 0 {
		return "0"
	}
	switch {
	case bps >= 1_000_000_000_000:
		return fmt.Sprintf("%.1fT", bps/1_000_000_000_000)
	case bps >= 1_000_000_000:
		return fmt.Sprintf("%.1fG", bps/1_000_000_000)
	case bps >= 1_000_000:
		return fmt.Sprintf("%.1fM", bps/1_000_000)
	case bps >= 1_000:
		return fmt.Sprintf("%.1fK", bps/1_000)
	default:
		return fmt.Sprintf("%.0fb", bps)
	}
}
