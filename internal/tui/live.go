package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/mkrv/lqnash/internal/solver"
	"github.com/mkrv/lqnash/internal/viz"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// IterationMsg carries one completed solver iteration into the UI.
type IterationMsg *solver.LogEntry

// DoneMsg signals the solve finished, possibly with an error.
type DoneMsg struct{ Err error }

// Observer forwards solver iterations onto a channel without ever
// blocking the solve loop.
type Observer struct {
	ch chan *solver.LogEntry
}

func NewObserver() *Observer {
	return &Observer{ch: make(chan *solver.LogEntry, 64)}
}

func (o *Observer) OnIteration(e *solver.LogEntry) {
	select {
	case o.ch <- e:
	default:
	}
}

// Model is the live solve view: cost curve, current trajectories and
// iteration stats.
type Model struct {
	problem      string
	positionDims [][2]int

	entries <-chan *solver.LogEntry
	done    <-chan error

	latest  *solver.LogEntry
	history []float64
	canvas  *viz.Canvas

	finished bool
	err      error
	width    int
	height   int
}

func NewLive(problem string, positionDims [][2]int, obs *Observer, done <-chan error) *Model {
	return &Model{
		problem:      problem,
		positionDims: positionDims,
		entries:      obs.ch,
		done:         done,
		canvas:       viz.NewCanvas(48, 14),
		history:      make([]float64, 0, 128),
		width:        100,
		height:       32,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.wait()
}

func (m *Model) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-m.entries:
			return IterationMsg(e)
		case err := <-m.done:
			return DoneMsg{Err: err}
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case IterationMsg:
		m.latest = msg
		total := 0.0
		for _, c := range msg.TotalCosts {
			total += c
		}
		m.history = append(m.history, total)
		m.canvas.Clear()
		m.canvas.DrawTrajectories(msg.OperatingPoint, m.positionDims)
		return m, m.wait()
	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("lqnash solve: "+m.problem) + "\n\n")

	if m.latest == nil {
		b.WriteString(valueStyle.Render("waiting for first iteration...") + "\n")
		return b.String()
	}

	stats := []string{
		labelStyle.Render("iteration") + valueStyle.Render(fmt.Sprintf("%d", m.latest.Iteration)),
		labelStyle.Render("step size") + valueStyle.Render(fmt.Sprintf("%.4f", m.latest.StepSize)),
		labelStyle.Render("max feedforward") + valueStyle.Render(fmt.Sprintf("%.6f", m.latest.MaxFeedforward)),
	}
	for i, c := range m.latest.TotalCosts {
		stats = append(stats, labelStyle.Render(fmt.Sprintf("cost P%d", i+1))+valueStyle.Render(fmt.Sprintf("%.4f", c)))
	}
	accepted := okStyle.Render("accepted")
	if !m.latest.Accepted {
		accepted = warnStyle.Render("no improvement")
	}
	stats = append(stats, labelStyle.Render("line search")+accepted)

	left := m.canvas.String()
	right := strings.Join(stats, "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right))
	b.WriteString("\n")

	if len(m.history) > 1 {
		gw := m.width - 10
		if gw > 70 {
			gw = 70
		}
		if gw < 10 {
			gw = 10
		}
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(8),
			asciigraph.Width(gw),
			asciigraph.Caption("total cost per iteration"))
		b.WriteString(graphStyle.Render(graph) + "\n")
	}

	if m.finished {
		if m.err != nil {
			b.WriteString(warnStyle.Render("solve failed: "+m.err.Error()) + "\n")
		} else {
			b.WriteString(okStyle.Render("solve finished") + "\n")
		}
	}

	b.WriteString(helpStyle.Render("q: quit"))
	return b.String()
}
