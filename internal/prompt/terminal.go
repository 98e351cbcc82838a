package prompt

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/compozy/releaseprep/internal/domain"
)

type terminalPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewTerminalPrompter renders prompts with bubbletea on out, reading keys from in.
func NewTerminalPrompter(in io.Reader, out io.Writer) Prompter {
	return &terminalPrompter{in: in, out: out}
}

func (p *terminalPrompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	m, err := p.run(ctx, newConfirmModel(question, defaultYes))
	if err != nil {
		return false, err
	}
	cm := m.(confirmModel)
	if cm.aborted {
		return false, &domain.UserDeclinedError{Question: question}
	}
	return cm.answer, nil
}

func (p *terminalPrompter) Ask(ctx context.Context, question string, validate func(string) error) (string, error) {
	m, err := p.run(ctx, newAskModel(question, validate))
	if err != nil {
		return "", err
	}
	am := m.(askModel)
	if am.aborted || am.answer == "" {
		return "", &domain.UserDeclinedError{Question: question}
	}
	return am.answer, nil
}

func (p *terminalPrompter) Select(ctx context.Context, question string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("no choices for %q", question)
	}
	m, err := p.run(ctx, newSelectModel(question, choices))
	if err != nil {
		return "", err
	}
	sm := m.(selectModel)
	if sm.aborted {
		return "", &domain.UserDeclinedError{Question: question}
	}
	return sm.choices[sm.cursor], nil
}

func (p *terminalPrompter) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run prompt: %w", err)
	}
	return final, nil
}
