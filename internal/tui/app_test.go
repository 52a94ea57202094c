package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jfoltran/colorserve/internal/colors"
	"github.com/jfoltran/colorserve/internal/metrics"
)

type fakeFetcher struct {
	doc       colors.Document
	colorsErr error
	statusErr error
	served    int64
}

func (f *fakeFetcher) Colors(ctx context.Context) (colors.Document, error) {
	if f.colorsErr != nil {
		return nil, f.colorsErr
	}
	return f.doc, nil
}

func (f *fakeFetcher) Status(ctx context.Context) (*metrics.Snapshot, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &metrics.Snapshot{Served: f.served}, nil
}

func (f *fakeFetcher) Logs(ctx context.Context) ([]metrics.LogEntry, error) {
	return []metrics.LogEntry{{Level: "info", Message: "starting HTTP server"}}, nil
}

func ready(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func TestFetch(t *testing.T) {
	f := &fakeFetcher{doc: colors.Document(`{"primary":"#ff0000","gray":{"50":"#fafafa"}}`), served: 7}

	msg, ok := fetch(f)().(fetchedMsg)
	if !ok {
		t.Fatalf("fetch() returned %T, want fetchedMsg", msg)
	}
	if msg.err != nil {
		t.Fatalf("err = %v", msg.err)
	}
	if len(msg.entries) != 2 || msg.entries[1].Path != "gray.50" {
		t.Errorf("entries = %+v", msg.entries)
	}
	if msg.status == nil || msg.status.Served != 7 {
		t.Errorf("status = %+v", msg.status)
	}
	if len(msg.logs) != 1 {
		t.Errorf("logs = %+v", msg.logs)
	}
}

func TestFetch_ColorsError(t *testing.T) {
	f := &fakeFetcher{colorsErr: errors.New("server returned 500: Failed to read colors data")}

	msg := fetch(f)().(fetchedMsg)
	if msg.err == nil || !strings.Contains(msg.err.Error(), "Failed to read colors data") {
		t.Errorf("err = %v", msg.err)
	}
	if msg.entries != nil {
		t.Errorf("entries = %+v, want nil", msg.entries)
	}
}

func TestModel_KeepsPaletteOnError(t *testing.T) {
	m := ready(NewModel(&fakeFetcher{}, "http://localhost:7654", time.Second))

	next, _ := m.Update(fetchedMsg{entries: []colors.Entry{{Path: "primary", Value: "#ff0000", Hex: true}}})
	m = next.(Model)
	next, _ = m.Update(fetchedMsg{err: errors.New("boom")})
	m = next.(Model)

	if len(m.entries) != 1 {
		t.Errorf("entries = %+v, want last good palette", m.entries)
	}
	view := m.View()
	if !strings.Contains(view, "primary") {
		t.Error("view should still show the palette")
	}
	if !strings.Contains(view, "boom") {
		t.Error("view should show the fetch error")
	}
}

func TestModel_Keys(t *testing.T) {
	m := ready(NewModel(&fakeFetcher{}, "srv", time.Second))
	m.entries = []colors.Entry{{Path: "a"}, {Path: "b"}}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.offset != 1 {
		t.Errorf("offset = %d, want 1", m.offset)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.offset != 1 {
		t.Errorf("offset = %d, should not pass the last entry", m.offset)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("r should trigger a fetch")
	}
	if _, ok := cmd().(fetchedMsg); !ok {
		t.Error("r should produce a fetchedMsg")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_ViewBeforeReady(t *testing.T) {
	m := NewModel(&fakeFetcher{}, "srv", time.Second)
	if m.View() != "Initializing..." {
		t.Errorf("View() = %q", m.View())
	}
}

func TestRun_NilFetcher(t *testing.T) {
	if err := Run(nil, "srv", time.Second); err == nil {
		t.Error("expected error for nil fetcher")
	}
}
