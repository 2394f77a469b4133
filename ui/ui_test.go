package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dgnsrekt/mantra-miner/miner"
)

// testModel returns a model whose miner ticks far too slowly to interfere
// with the assertions.
func testModel(t *testing.T) model {
	t.Helper()

	m, err := miner.New(miner.Config{
		Mantras:  []miner.Mantra{{Text: "om mani padme hum"}},
		Repeats:  0,
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("miner.New failed: %v", err)
	}
	t.Cleanup(func() { _ = m.Stop() })

	return newModel(Config{PollInterval: 10 * time.Millisecond}, m)
}

func startModel(t *testing.T, m model) model {
	t.Helper()
	if msg := m.start(); msg != nil {
		t.Fatalf("start returned %v", msg)
	}
	return m
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", updated)
	}
	return next, cmd
}

func TestModelStart(t *testing.T) {
	m := startModel(t, testModel(t))

	if got := m.miner.State(); got != miner.StateRunning {
		t.Errorf("state after start = %s, want running", got)
	}
}

func TestModelToggleKey(t *testing.T) {
	m := startModel(t, testModel(t))

	space := tea.KeyMsg{Type: tea.KeySpace}

	m, _ = update(t, m, space)
	if got := m.miner.State(); got != miner.StatePaused {
		t.Fatalf("state after toggle = %s, want paused", got)
	}

	m, _ = update(t, m, space)
	if got := m.miner.State(); got != miner.StateRunning {
		t.Fatalf("state after second toggle = %s, want running", got)
	}
}

func TestModelQuitKey(t *testing.T) {
	m := startModel(t, testModel(t))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit key returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key did not return tea.Quit")
	}
	if got := m.miner.State(); got != miner.StateStopped {
		t.Errorf("state after quit = %s, want stopped", got)
	}
}

func TestModelResetKey(t *testing.T) {
	m := startModel(t, testModel(t))
	m.miner.Buffer().Append("om")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if got := m.miner.Buffer().Snapshot(); got != "" {
		t.Errorf("buffer after reset = %q, want empty", got)
	}
}

func TestModelTickStopsWhenDone(t *testing.T) {
	m := startModel(t, testModel(t))

	if _, cmd := update(t, m, tickMsg(time.Now())); cmd == nil {
		t.Error("tick while running returned no follow-up command")
	}

	if err := m.miner.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if _, cmd := update(t, m, tickMsg(time.Now())); cmd != nil {
		t.Error("tick after stop scheduled another tick")
	}
}

func TestModelView(t *testing.T) {
	m := startModel(t, testModel(t))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m.miner.Buffer().Append("om")
	m.miner.Buffer().Append(" mani")

	view := m.View()
	if !strings.Contains(view, "Mantra") {
		t.Error("view is missing the title")
	}
	if !strings.Contains(view, "running") {
		t.Error("view is missing the state")
	}
	if !strings.Contains(view, "om mani") {
		t.Error("view is missing the recited text")
	}
}
