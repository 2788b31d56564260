package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"
)

// clip shortens s to width cells with an ellipsis
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// progressBar renders pct as a bar of width cells
func progressBar(pct, width int) string {
	pct = min(max(pct, 0), 100)
	filled := pct * width / 100
	return fmt.Sprintf("%s%s %3d%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		pct)
}

// rule draws a horizontal separator
func rule(width int) string {
	if width < 1 {
		width = 1
	}
	return strings.Repeat("─", width)
}
