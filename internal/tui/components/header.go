package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jfoltran/colorserve/internal/metrics"
)

var (
	headerLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	headerValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	headerErrStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	headerOKStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
)

// RenderHeader renders the status bar: server, uptime, request counters and
// the outcome of the last fetch.
func RenderHeader(server string, snap *metrics.Snapshot, fetchErr error, width int) string {
	state := headerOKStyle.Render("OK")
	if fetchErr != nil {
		state = headerErrStyle.Render("ERROR")
	}

	left := fmt.Sprintf("  %s %s    %s %s",
		state,
		headerValueStyle.Render(server),
		headerLabelStyle.Render("Uptime:"),
		headerValueStyle.Render(uptime(snap)))

	right := ""
	if snap != nil {
		right = fmt.Sprintf("Served: %s  Failed: %s  %s  ",
			headerValueStyle.Render(fmt.Sprint(snap.Served)),
			headerValueStyle.Render(fmt.Sprint(snap.Failed)),
			headerValueStyle.Render(fmt.Sprintf("%.1f req/s", snap.RequestsSec)))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right

	if fetchErr != nil {
		line += "\n  " + headerErrStyle.Render(fetchErr.Error())
	}
	return line
}

func uptime(snap *metrics.Snapshot) string {
	if snap == nil {
		return "-"
	}
	return formatDuration(snap.UptimeSec)
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
