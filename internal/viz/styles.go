package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(40)

	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	infoStyle   = lipgloss.NewStyle().Italic(true)

	runningBadge   = badge("#00ff88")
	completedBadge = badge("#33ccff")
	readyBadge     = badge("#ffaa00")
	recordingBadge = badge("#ff4444").Blink(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))

	// sorted share above 80%, above 40%, and the rest
	progressHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	progressMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	progressLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// GradientText colors each rune of text along a linear start to end ramp.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b))).Render(string(c)))
	}
	return result.String()
}

func badge(color string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func spinner(tick int) string { return spinnerFrames[tick%len(spinnerFrames)] }

// sortedBar shows how many of n bars are marked sorted in width cells.
func sortedBar(sorted, n, width int) string {
	if n == 0 {
		return mutedStyle.Render(strings.Repeat("░", width))
	}
	filled := min(max(sorted*width/n, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch share := float64(sorted) / float64(n); {
	case share > 0.8:
		return progressHigh.Render(bar)
	case share > 0.4:
		return progressMid.Render(bar)
	}
	return progressLow.Render(bar)
}

func rule(width int) string {
	if width < 8 {
		return mutedStyle.Render(strings.Repeat("─", width))
	}
	mid := width / 2
	return mutedStyle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func hexColor(r, g, b int) string {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return v
	}
	const hex = "0123456789abcdef"
	out := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []int{clamp(r), clamp(g), clamp(b)} {
		out[1+2*i] = hex[v/16]
		out[2+2*i] = hex[v%16]
	}
	return string(out)
}
