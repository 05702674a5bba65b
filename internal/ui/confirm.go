package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// Confirm is a minimal yes/no prompt model for full-screen flows such as the
// watch dashboard. Plain console commands use InteractiveApprover instead.
type Confirm struct {
	question  string
	answer    bool
	submitted bool
	keyMap    confirmKeyMap
	styles    Styles
}

type confirmKeyMap struct {
	Yes  key.Binding
	No   key.Binding
	Quit key.Binding
}

func defaultConfirmKeyMap() confirmKeyMap {
	return confirmKeyMap{
		Yes: key.NewBinding(
			key.WithKeys("y", "o", "enter"),
			key.WithHelp("y", "confirm"),
		),
		No: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "decline"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q/esc", "cancel"),
		),
	}
}

// NewConfirm creates a confirm prompt for the given question.
func NewConfirm(question string, styles Styles) Confirm {
	return Confirm{
		question: question,
		keyMap:   defaultConfirmKeyMap(),
		styles:   styles,
	}
}

// Init implements tea.Model.
func (c Confirm) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (c Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, c.keyMap.Yes):
		c.answer = true
		c.submitted = true
		return c, tea.Quit
	case key.Matches(keyMsg, c.keyMap.No), key.Matches(keyMsg, c.keyMap.Quit):
		c.answer = false
		c.submitted = true
		return c, tea.Quit
	}
	return c, nil
}

// View implements tea.Model.
func (c Confirm) View() string {
	if c.submitted {
		if c.answer {
			return c.styles.Explicit.Render(SymbolCheck+" confirmed") + "\n"
		}
		return c.styles.Muted.Render(SymbolCross+" cancelled") + "\n"
	}
	help := c.styles.Muted.Render("y: confirm  n/esc: cancel")
	return c.styles.Title.Render(c.question) + "\n" + help + "\n"
}

// Answer reports the user's choice once the prompt has been submitted.
func (c Confirm) Answer() bool {
	return c.submitted && c.answer
}

// RunConfirm runs the prompt as a standalone bubbletea program and returns
// the answer. Falls back to declined when the program cannot start.
func RunConfirm(question string, styles Styles) (bool, error) {
	model, err := tea.NewProgram(NewConfirm(question, styles)).Run()
	if err != nil {
		return false, err
	}
	confirm, ok := model.(Confirm)
	if !ok {
		return false, nil
	}
	return confirm.Answer(), nil
}

// ConfirmApprover adapts the confirm prompt to the Approver interface.
// Batch commands use it when a human is at the terminal; piped input gets
// the plain InteractiveApprover instead.
type ConfirmApprover struct {
	styles Styles
}

// NewConfirmApprover creates a ConfirmApprover with the given style set.
func NewConfirmApprover(styles Styles) upstilatex.Approver {
	return &ConfirmApprover{styles: styles}
}

// RequestApproval runs the confirm prompt for the described operation.
func (a *ConfirmApprover) RequestApproval(ctx context.Context, operation string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	return RunConfirm(operation, a.styles)
}

// Verify ConfirmApprover implements the Approver interface at compile time
var _ upstilatex.Approver = (*ConfirmApprover)(nil)
