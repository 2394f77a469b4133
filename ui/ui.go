// Package ui provides the Bubble Tea interface for a recitation session.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/mantra-miner/miner"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
)

const (
	statusBarHeight = 1
	minWidth        = 24
	defaultWidth    = 80
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1)

	bodyStyle = lipgloss.NewStyle().
			Padding(1, 2)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))
)

// tickMsg drives the periodic refresh of the recitation view.
type tickMsg time.Time

// errMsg carries a control error into the update loop.
type errMsg struct{ err error }

type model struct {
	cfg   Config
	miner *miner.Miner

	progress progress.Model
	help     help.Model
	keys     keyMap

	width  int
	height int
	err    error
}

// NewProgram returns a new Bubble Tea program wired to the given miner.
func NewProgram(cfg Config, m *miner.Miner) *tea.Program {
	return tea.NewProgram(newModel(cfg, m), tea.WithAltScreen())
}

func newModel(cfg Config, m *miner.Miner) model {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 50 * time.Millisecond
	}

	h := help.New()
	h.ShowAll = cfg.ShowFullHelp

	return model{
		cfg:      cfg,
		miner:    m,
		progress: progress.New(progress.WithDefaultGradient()),
		help:     h,
		keys:     newKeyMap(),
		width:    defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.start, m.tick())
}

func (m model) start() tea.Msg {
	if err := m.miner.Start(); err != nil {
		return errMsg{err}
	}
	return nil
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.cfg.PollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = msg.Width - 4
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case errMsg:
		m.err = msg.err
		return m, nil

	case tickMsg:
		// The worker stops on its own once the session completes; keep
		// the final frame up and wait for a key.
		if m.miner.State() == miner.StateStopped {
			return m, nil
		}
		return m, m.tick()
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if err := m.miner.Stop(); err != nil {
			m.err = err
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		switch m.miner.State() {
		case miner.StateRunning:
			m.err = m.miner.Pause()
		case miner.StatePaused:
			m.err = m.miner.Resume()
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.miner.Buffer().Reset()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	width := m.width
	if width < minWidth {
		width = minWidth
	}
	wrapWidth := width - 4
	if m.cfg.MaxWidth > 0 && int(m.cfg.MaxWidth) < wrapWidth { //nolint:gosec
		wrapWidth = int(m.cfg.MaxWidth) //nolint:gosec
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Mantra"))
	b.WriteString("  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	b.WriteString(bodyStyle.Render(m.body(wrapWidth)))
	b.WriteString("\n\n")

	current, total := m.miner.Progress()
	if total > 0 {
		b.WriteString("  ")
		b.WriteString(m.progress.ViewAs(float64(current) / float64(total)))
		b.WriteString("\n")
	}

	b.WriteString("  ")
	b.WriteString(statsStyle.Render(m.stats()))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// body returns the tail of the recited text, wrapped and trimmed to fit
// the window.
func (m model) body(wrapWidth int) string {
	snap := m.miner.Buffer().Snapshot()
	if snap == "" {
		return statsStyle.Render("(waiting for the first syllable)")
	}

	wrapped := wordwrap.String(snap, wrapWidth)
	lines := strings.Split(wrapped, "\n")

	maxLines := m.height - 8
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, "\n")
}

func (m model) statusLine() string {
	state := m.miner.State()
	style := lipgloss.NewStyle().Foreground(stateColor(state))
	return style.Render(fmt.Sprintf("%s %s", stateIcon(state), state))
}

func (m model) stats() string {
	buf := m.miner.Buffer()

	cycles := fmt.Sprintf("%d", m.miner.Count())
	if total := m.miner.Config().Repeats; total > 0 {
		cycles = fmt.Sprintf("%d/%d", m.miner.Count(), total)
	} else {
		cycles += "/∞"
	}

	return fmt.Sprintf("cycles %s · %d units · %s",
		cycles, buf.Units(), humanize.Bytes(uint64(buf.Len()))) //nolint:gosec
}

func stateColor(s miner.State) lipgloss.Color {
	switch s {
	case miner.StateRunning:
		return lipgloss.Color("#00FF00") // Green
	case miner.StatePaused:
		return lipgloss.Color("#FFFF00") // Yellow
	case miner.StateStopped:
		return lipgloss.Color("#FF8800") // Orange
	default:
		return lipgloss.Color("#888888") // Gray
	}
}

func stateIcon(s miner.State) string {
	switch s {
	case miner.StateRunning:
		return "▶"
	case miner.StatePaused:
		return "⏸"
	case miner.StateStopped:
		return "■"
	default:
		return "○"
	}
}
