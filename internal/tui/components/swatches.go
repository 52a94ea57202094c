package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jfoltran/colorserve/internal/colors"
)

var (
	swatchPathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))
	swatchValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	swatchMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

const swatchBlock = "      "

// RenderSwatches renders one line per document entry starting at offset,
// with a colored block for hex values.
func RenderSwatches(entries []colors.Entry, offset, maxLines int) string {
	if len(entries) == 0 {
		return "  No colors loaded"
	}
	if offset < 0 || offset >= len(entries) {
		offset = 0
	}

	pathWidth := 0
	for _, e := range entries {
		if w := lipgloss.Width(e.Path); w > pathWidth {
			pathWidth = w
		}
	}

	end := len(entries)
	if maxLines > 0 && end-offset > maxLines {
		end = offset + maxLines
	}

	lines := make([]string, 0, end-offset+1)
	for _, e := range entries[offset:end] {
		block := swatchMutedStyle.Render(strings.Repeat("·", len(swatchBlock)))
		if e.Hex {
			block = lipgloss.NewStyle().Background(lipgloss.Color(NormalizeHex(e.Value))).Render(swatchBlock)
		}
		path := e.Path
		if path == "" {
			path = "(root)"
		}
		lines = append(lines, fmt.Sprintf("  %s  %s  %s",
			block,
			swatchPathStyle.Render(path+strings.Repeat(" ", pathWidth-lipgloss.Width(path))),
			swatchValueStyle.Render(e.Value)))
	}
	if rest := len(entries) - end; rest > 0 {
		lines = append(lines, swatchMutedStyle.Render(fmt.Sprintf("  … %d more", rest)))
	}
	return strings.Join(lines, "\n")
}

// NormalizeHex expands #rgb and drops the alpha of #rrggbbaa so the value
// can be used as a terminal color.
func NormalizeHex(v string) string {
	switch len(v) {
	case 4:
		return "#" + strings.Repeat(v[1:2], 2) + strings.Repeat(v[2:3], 2) + strings.Repeat(v[3:4], 2)
	case 9:
		return v[:7]
	}
	return v
}
