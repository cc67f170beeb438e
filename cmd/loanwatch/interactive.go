package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/guestmem/borrow"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	targetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	sharedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	exclusiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const logHeight = 12

type interactiveModel struct {
	err      error
	path     string
	scenario *Scenario
	runner   *Runner
	results  []StepResult
	lines    []string
	log      viewport.Model
	leak     *borrow.LeakError
	finished bool
	ready    bool
}

func newInteractiveModel(path string) *interactiveModel {
	return &interactiveModel{path: path}
}

type loadedMsg struct {
	err      error
	scenario *Scenario
	runner   *Runner
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

func (m *interactiveModel) load() tea.Msg {
	sc, err := loadScenario(m.path)
	if err != nil {
		return loadedMsg{err: err}
	}
	runner, err := newRunner(sc)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{scenario: sc, runner: runner}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "n", " ", "enter":
			m.advance()

		case "r":
			m.restart()
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.log = viewport.New(msg.Width, logHeight)
			m.ready = true
		} else {
			m.log.Width = msg.Width
		}
		m.log.SetContent(strings.Join(m.lines, "\n"))

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.scenario = msg.scenario
		m.runner = msg.runner
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m *interactiveModel) advance() {
	if m.runner == nil || m.finished {
		return
	}

	res, ok := m.runner.Step()
	if !ok {
		return
	}
	m.results = append(m.results, res)

	status := passStyle.Render("PASS")
	if !res.Expected {
		status = failStyle.Render("FAIL")
	}
	m.lines = append(m.lines, fmt.Sprintf("%3d. %-48s %s", res.Index+1, describeStep(res), status))
	for _, e := range res.Events {
		m.lines = append(m.lines, helpStyle.Render("       "+describeEvent(e)))
	}

	if m.runner.Done() {
		m.leak = m.runner.Finish()
		m.finished = true
		if m.leak != nil {
			m.lines = append(m.lines, failStyle.Render(fmt.Sprintf("scope end: %d loan(s) never settled", m.leak.Count)))
		} else {
			m.lines = append(m.lines, passStyle.Render("scope end: all loans settled"))
		}
	}

	m.log.SetContent(strings.Join(m.lines, "\n"))
	m.log.GotoBottom()
}

func (m *interactiveModel) restart() {
	if m.runner == nil {
		return
	}
	if err := m.runner.Reset(); err != nil {
		m.err = err
		return
	}
	m.results = nil
	m.lines = nil
	m.leak = nil
	m.finished = false
	m.log.SetContent("")
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return failStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.runner == nil {
		return "Loading scenario..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Loan Watch"))
	b.WriteString(" ")
	b.WriteString(m.path)
	b.WriteString("\n\n")

	b.WriteString("Targets:\n")
	for _, ts := range m.runner.TargetStates() {
		b.WriteString("  ")
		b.WriteString(targetStyle.Render(fmt.Sprintf("%-12s", ts.Name)))
		b.WriteString(fmt.Sprintf(" %-6s %6d B  ", ts.Kind, ts.Size))
		b.WriteString(renderState(ts.State))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.finished {
		b.WriteString(fmt.Sprintf("Step %d/%d (done)\n\n", m.runner.Pos(), len(m.scenario.Steps)))
	} else {
		b.WriteString(fmt.Sprintf("Step %d/%d\n\n", m.runner.Pos(), len(m.scenario.Steps)))
	}

	if m.ready {
		b.WriteString(m.log.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("n step • r reset • ↑/↓ scroll • q quit"))
	return b.String()
}

func renderState(state string) string {
	switch {
	case state == "exclusive":
		return exclusiveStyle.Render(state)
	case strings.HasPrefix(state, "shared"):
		return sharedStyle.Render(state)
	default:
		return idleStyle.Render(state)
	}
}

func describeEvent(e borrow.Event) string {
	switch e.Type {
	case borrow.EventSharedTaken, borrow.EventSharedSettled:
		return fmt.Sprintf("%-18s %#x shared=%d", e.Type, uintptr(e.Addr), e.Shared)
	case borrow.EventDenied:
		return fmt.Sprintf("%-18s %#x conflict=%s", e.Type, uintptr(e.Addr), e.Conflict)
	default:
		return fmt.Sprintf("%-18s %#x", e.Type, uintptr(e.Addr))
	}
}

func runInteractive(path string) error {
	p := tea.NewProgram(newInteractiveModel(path), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
