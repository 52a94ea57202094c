package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jfoltran/colorserve/internal/colors"
	"github.com/jfoltran/colorserve/internal/metrics"
	"github.com/jfoltran/colorserve/internal/tui/components"
)

const fetchTimeout = 5 * time.Second

// Fetcher is the subset of the API client the dashboard needs.
type Fetcher interface {
	Colors(ctx context.Context) (colors.Document, error)
	Status(ctx context.Context) (*metrics.Snapshot, error)
	Logs(ctx context.Context) ([]metrics.LogEntry, error)
}

// fetchedMsg carries the result of one poll into the Bubble Tea update loop.
type fetchedMsg struct {
	entries []colors.Entry
	status  *metrics.Snapshot
	logs    []metrics.LogEntry
	err     error
}

type tickMsg time.Time

// Model is the Bubble Tea model for the palette viewer.
type Model struct {
	fetcher  Fetcher
	server   string
	interval time.Duration

	entries []colors.Entry
	status  *metrics.Snapshot
	logs    []metrics.LogEntry
	err     error
	offset  int

	width  int
	height int
	ready  bool
}

// NewModel creates a viewer that polls fetcher every interval.
func NewModel(fetcher Fetcher, server string, interval time.Duration) Model {
	return Model{
		fetcher:  fetcher,
		server:   server,
		interval: interval,
	}
}

// Init triggers the first fetch and starts the poll timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetch(m.fetcher), tick(m.interval))
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetch(f Fetcher) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var msg fetchedMsg
		doc, err := f.Colors(ctx)
		if err == nil {
			msg.entries, err = doc.Flatten()
		}
		msg.err = err

		// Status and logs are best effort; the palette is what matters.
		if snap, serr := f.Status(ctx); serr == nil {
			msg.status = snap
		} else if msg.err == nil {
			msg.err = serr
		}
		if logs, lerr := f.Logs(ctx); lerr == nil {
			msg.logs = logs
		}
		return msg
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, fetch(m.fetcher)
		case "down", "j":
			if m.offset < len(m.entries)-1 {
				m.offset++
			}
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tickMsg:
		return m, tea.Batch(fetch(m.fetcher), tick(m.interval))

	case fetchedMsg:
		m.err = msg.err
		// Keep the last good palette on screen while the server is failing.
		if msg.entries != nil || msg.err == nil {
			m.entries = msg.entries
			if m.offset >= len(m.entries) {
				m.offset = 0
			}
		}
		if msg.status != nil {
			m.status = msg.status
		}
		if msg.logs != nil {
			m.logs = msg.logs
		}
	}

	return m, nil
}

// View renders the viewer.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	w := m.width
	var sections []string

	sections = append(sections, titleStyle.Width(w).Render(" colorserve palette"))
	sections = append(sections, boxStyle.Width(w-2).Render(components.RenderHeader(m.server, m.status, m.err, w-4)))

	swatchHeight := m.height - 16 // Reserve space for other sections.
	if swatchHeight < 3 {
		swatchHeight = 3
	}
	sections = append(sections, boxStyle.Width(w-2).Render(components.RenderSwatches(m.entries, m.offset, swatchHeight)))
	sections = append(sections, boxStyle.Width(w-2).Render(components.RenderLogs(m.logs, 5)))
	sections = append(sections, helpStyle.Render("  q: quit  r: refresh  ↑/↓: scroll"))

	return strings.Join(sections, "\n")
}

// Run starts the viewer in fullscreen mode.
func Run(fetcher Fetcher, server string, interval time.Duration) error {
	if fetcher == nil {
		return errors.New("tui: no fetcher")
	}
	p := tea.NewProgram(NewModel(fetcher, server, interval), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
