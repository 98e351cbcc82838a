package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// confirmModel is a yes/no question
type confirmModel struct {
	question   string
	defaultYes bool
	answer     bool
	done       bool
	aborted    bool
}

func newConfirmModel(question string, defaultYes bool) confirmModel {
	return confirmModel{question: question, defaultYes: defaultYes}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
	case "y", "Y":
		m.answer = true
	case "n", "N":
		m.answer = false
	case "enter":
		m.answer = m.defaultYes
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() string {
	hint := "(y/N)"
	if m.defaultYes {
		hint = "(Y/n)"
	}
	if m.done && !m.aborted {
		answer := "No"
		if m.answer {
			answer = "Yes"
		}
		return fmt.Sprintf("? %s %s\n", questionStyle.Render(m.question), answer)
	}
	return fmt.Sprintf("? %s %s ", questionStyle.Render(m.question), hintStyle.Render(hint))
}

// askModel reads a free-form answer
type askModel struct {
	question string
	input    textinput.Model
	validate func(string) error
	errMsg   string
	answer   string
	done     bool
	aborted  bool
}

func newAskModel(question string, validate func(string) error) askModel {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 64
	input.Focus()
	return askModel{question: question, input: input, validate: validate}
}

func (m askModel) Init() tea.Cmd { return textinput.Blink }

func (m askModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			m.done = true
			return m, tea.Quit
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if value != "" && m.validate != nil {
				if err := m.validate(value); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.answer = value
			m.done = true
			return m, tea.Quit
		}
	}
	m.errMsg = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m askModel) View() string {
	if m.done {
		return fmt.Sprintf("? %s %s\n", questionStyle.Render(m.question), m.answer)
	}
	view := fmt.Sprintf("? %s %s", questionStyle.Render(m.question), m.input.View())
	if m.errMsg != "" {
		view += "\n" + errorStyle.Render(m.errMsg)
	}
	return view
}

// selectModel picks one entry of a fixed list
type selectModel struct {
	question string
	choices  []string
	cursor   int
	done     bool
	aborted  bool
}

func newSelectModel(question string, choices []string) selectModel {
	return selectModel{question: question, choices: choices}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		m.done = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.done && !m.aborted {
		return fmt.Sprintf("? %s %s\n", questionStyle.Render(m.question), m.choices[m.cursor])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "? %s %s\n", questionStyle.Render(m.question), hintStyle.Render("(use arrow keys)"))
	for i, choice := range m.choices {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+choice) + "\n")
			continue
		}
		b.WriteString("  " + choice + "\n")
	}
	return b.String()
}
