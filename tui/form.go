package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Field is a labelled text input with its validation error.
type Field struct {
	Label    string
	Input    textinput.Model
	Err      error
	validate func(string) error
}

// NewField returns a field checked by validate, which may be nil.
func NewField(label, placeholder string, limit int, validate func(string) error) *Field {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = placeholder
	in.CharLimit = limit

	return &Field{Label: label, Input: in, validate: validate}
}

// Value returns the trimmed input.
func (f *Field) Value() string {
	return strings.TrimSpace(f.Input.Value())
}

// Validate runs the validator and keeps its error for display.
func (f *Field) Validate() bool {
	f.Err = nil
	if f.validate != nil {
		f.Err = f.validate(f.Value())
	}
	return f.Err == nil
}

func (f *Field) Focus() tea.Cmd {
	return f.Input.Focus()
}

func (f *Field) Blur() {
	f.Input.Blur()
}

// Update forwards msg to the input. Editing clears the error.
func (f *Field) Update(msg tea.Msg) tea.Cmd {
	before := f.Input.Value()

	var cmd tea.Cmd
	f.Input, cmd = f.Input.Update(msg)
	if f.Input.Value() != before {
		f.Err = nil
	}
	return cmd
}

func (f *Field) View(width int) string {
	if width > 4 {
		f.Input.Width = width - 4
	}

	lines := []string{labelStyle.Render(f.Label), f.Input.View()}
	if f.Err != nil {
		lines = append(lines, errorStyle.Render(f.Err.Error()))
	}
	return strings.Join(lines, "\n")
}
