// Package dashboard is the interactive terminal front end: a question box,
// sample question shortcuts, and the generated SQL with its result.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"samarth-platform/internal/models"
	"samarth-platform/internal/services"
	"samarth-platform/pkg/render"
)

// ModelFailureMessage is shown when no executable SQL came back.
const ModelFailureMessage = "Failed to generate valid SQL. Is Ollama running?"

const wrapWidth = 100

// Asker answers one question. *services.QAService satisfies it.
type Asker interface {
	Answer(ctx context.Context, question string) *models.Answer
}

type answerMsg struct {
	answer *models.Answer
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx      context.Context
	asker    Asker
	samples  []string
	selected int

	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   Styles

	loading bool
	answer  *models.Answer
}

// New builds a dashboard whose input starts with the first sample question.
// glamourStyle names a glamour standard style such as "dark" or "notty".
func New(ctx context.Context, asker Asker, samples []string, glamourStyle string) Model {
	styles := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask about crop production and rainfall... (Enter to ask, Tab for samples, Esc to quit)"
	ti.Prompt = "│ "
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 1024
	ti.Width = wrapWidth
	ti.Focus()
	if len(samples) > 0 {
		ti.SetValue(samples[0])
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	// A missing renderer falls back to plain SQL text.
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle),
		glamour.WithWordWrap(wrapWidth),
	)

	return Model{
		ctx:      ctx,
		asker:    asker,
		samples:  samples,
		input:    ti,
		spinner:  sp,
		renderer: renderer,
		styles:   styles,
	}
}

// Answer returns the most recent answer, if any.
func (m Model) Answer() *models.Answer {
	return m.answer
}

// Loading reports whether a question is in flight.
func (m Model) Loading() bool {
	return m.loading
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyTab, tea.KeyShiftTab:
			if len(m.samples) == 0 || m.loading {
				return m, nil
			}
			step := 1
			if msg.Type == tea.KeyShiftTab {
				step = len(m.samples) - 1
			}
			m.selected = (m.selected + step) % len(m.samples)
			m.input.SetValue(m.samples[m.selected])
			m.input.CursorEnd()
			return m, nil

		case tea.KeyEnter:
			question := m.input.Value()
			if strings.TrimSpace(question) == "" || m.loading {
				return m, nil
			}
			m.loading = true
			m.answer = nil
			return m, tea.Batch(m.spinner.Tick, m.ask(question))
		}

	case answerMsg:
		m.loading = false
		m.answer = msg.answer
		if m.answer.State == models.StateResultReady {
			m.answer.MarkPresented()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(question string) tea.Cmd {
	ctx, asker := m.ctx, m.asker
	return func() tea.Msg {
		return answerMsg{answer: asker.Answer(ctx, question)}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Project Samarth: Q&A on Indian Agriculture & Climate"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("data.gov.in → local LLM → SQL answer → citation"))
	b.WriteString("\n")

	b.WriteString(m.styles.Section.Render("Sample questions"))
	b.WriteString("\n")
	for i, q := range m.samples {
		style := m.styles.Sample
		if i == m.selected {
			style = m.styles.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("Q%d: %s", i+1, q)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.spinner.View())
		b.WriteString(" Generating SQL with the local model...\n")
	}
	if m.answer != nil {
		b.WriteString(m.viewAnswer(m.answer))
	}

	b.WriteString(m.styles.Help.Render("enter: ask • tab/shift+tab: samples • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewAnswer(a *models.Answer) string {
	var b strings.Builder

	if a.State == models.StateModelError || errors.Is(a.Err, services.ErrNotSelect) {
		b.WriteString(m.styles.Error.Render(ModelFailureMessage))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderSQL(a.SQL))

	if a.State == models.StateParseExecuteError {
		b.WriteString(m.styles.Error.Render("SQL Error: " + a.Error))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.styles.Section.Render(fmt.Sprintf("Answer (%d rows)", a.Result.Len())))
	if a.Cached {
		b.WriteString(m.styles.Citation.Render("  cached"))
	}
	b.WriteString("\n")
	render.Table(&b, a.Result)

	b.WriteString(m.styles.Section.Render("Citation"))
	b.WriteString("\n")
	for _, c := range a.Citations {
		b.WriteString(m.styles.Citation.Render(c.Label + " Data: " + c.Path))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderSQL(sql string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render("```sql\n" + sql + "\n```\n"); err == nil {
			return out
		}
	}
	return sql + "\n"
}

// Run starts the dashboard on the terminal and blocks until the user quits.
func Run(ctx context.Context, asker Asker, samples []string) error {
	p := tea.NewProgram(
		New(ctx, asker, samples, "dark"),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
