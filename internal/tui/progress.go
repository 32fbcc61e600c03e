package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/ynab4import/internal/importer"
)

type stageState int

const (
	stagePending stageState = iota
	stageRunning
	stageDone
	stageFailed
)

type stage struct {
	name    string
	state   stageState
	started time.Time
	took    time.Duration
}

type stageStartedMsg struct{ name string }

type stageFinishedMsg struct {
	name    string
	summary importer.Summary
	err     error
}

type doneMsg struct {
	summary importer.Summary
	err     error
}

type tickMsg time.Time

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var (
	colorPink     = lipgloss.Color("#f5c2e7")
	colorGreen    = lipgloss.Color("#a6e3a1")
	colorRed      = lipgloss.Color("#f38ba8")
	colorOverlay1 = lipgloss.Color("#7f849c")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	doneStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	failStyle    = lipgloss.NewStyle().Foreground(colorRed)
	pendingStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
)

// Progress shows the migration stages while an import runs.
type Progress struct {
	title    string
	stages   []stage
	summary  importer.Summary
	frame    int
	done     bool
	err      error
	canceled bool
}

func NewProgress(title string, stageNames []string) *Progress {
	p := &Progress{title: title}
	for _, n := range stageNames {
		p.stages = append(p.stages, stage{name: n})
	}
	return p
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (p *Progress) Init() tea.Cmd { return tick() }

func (p *Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		switch m.String() {
		case "ctrl+c", "q":
			p.canceled = true
			return p, tea.Quit
		}
	case tickMsg:
		if p.done {
			return p, nil
		}
		p.frame++
		return p, tick()
	case stageStartedMsg:
		if s := p.stage(m.name); s != nil {
			s.state = stageRunning
			s.started = time.Now()
		}
	case stageFinishedMsg:
		p.summary = m.summary
		if s := p.stage(m.name); s != nil {
			s.took = time.Since(s.started)
			s.state = stageDone
			if m.err != nil {
				s.state = stageFailed
			}
		}
	case doneMsg:
		p.summary = m.summary
		p.err = m.err
		p.done = true
		return p, tea.Quit
	}
	return p, nil
}

func (p *Progress) stage(name string) *stage {
	for i := range p.stages {
		if p.stages[i].name == name {
			return &p.stages[i]
		}
	}
	return nil
}

func (p *Progress) count(name string) int {
	switch name {
	case "accounts":
		return p.summary.Accounts
	case "categories":
		return p.summary.Categories
	case "payees":
		return p.summary.Payees
	case "transactions":
		return p.summary.Transactions
	case "budgets":
		return p.summary.Budgets
	}
	return 0
}

func (p *Progress) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.title))
	b.WriteString("\n\n")
	for _, s := range p.stages {
		var line string
		switch s.state {
		case stageRunning:
			line = fmt.Sprintf("%s %s", spinnerFrames[p.frame%len(spinnerFrames)], s.name)
		case stageDone:
			line = doneStyle.Render(fmt.Sprintf("✓ %-13s %6d  %s", s.name, p.count(s.name), s.took.Round(time.Millisecond)))
		case stageFailed:
			line = failStyle.Render(fmt.Sprintf("✗ %s", s.name))
		default:
			line = pendingStyle.Render("· " + s.name)
		}
		b.WriteString("  " + line + "\n")
	}
	switch {
	case p.err != nil:
		b.WriteString("\n" + failStyle.Render(p.err.Error()) + "\n")
	case p.done:
		b.WriteString("\n" + doneStyle.Render("import complete") + "\n")
	case p.canceled:
		b.WriteString("\n" + pendingStyle.Render("canceling…") + "\n")
	}
	return b.String()
}

// observer forwards pipeline events to a running program.
type observer struct {
	program *tea.Program
}

func (o observer) StepStarted(name string) {
	o.program.Send(stageStartedMsg{name: name})
}

func (o observer) StepFinished(name string, summary importer.Summary, err error) {
	o.program.Send(stageFinishedMsg{name: name, summary: summary, err: err})
}

// RunFunc performs an import, reporting through obs.
type RunFunc func(ctx context.Context, obs importer.Observer) (importer.Summary, error)

type result struct {
	summary importer.Summary
	err     error
}

// Run shows progress for run. Quitting the view cancels run's context; Run
// still waits for run to return.
func Run(ctx context.Context, title string, run RunFunc, opts ...tea.ProgramOption) (importer.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewProgress(title, importer.StageNames()), opts...)
	results := make(chan result, 1)
	go func() {
		s, err := run(ctx, observer{program: program})
		results <- result{summary: s, err: err}
		program.Send(doneMsg{summary: s, err: err})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		r := <-results
		if r.err != nil {
			return r.summary, r.err
		}
		return r.summary, fmt.Errorf("progress view: %w", err)
	}
	cancel()
	r := <-results
	return r.summary, r.err
}
