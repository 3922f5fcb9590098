package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type opKind int

const (
	opEncode opKind = iota
	opDecode
	opDiagnose
)

type operation struct {
	kind opKind
	typ  string
	hint string
}

func (o operation) title() string {
	switch o.kind {
	case opEncode:
		return "encode " + o.typ
	case opDecode:
		return "decode " + o.typ
	}
	return "diagnose"
}

// operations builds the menu: one encode and one decode entry per type.
func operations() []operation {
	hints := map[string]string{
		"int":    "-42",
		"double": "1.5 or bits:0x7ff8000000000001",
		"text":   "Hello, CBOR!",
		"bytes":  "de ad be ef",
		"bool":   "true",
		"null":   "(no input)",
	}
	var ops []operation
	for _, t := range types {
		ops = append(ops, operation{kind: opEncode, typ: t, hint: hints[t]})
	}
	for _, t := range types {
		ops = append(ops, operation{kind: opDecode, typ: t, hint: "hex, e.g. 1b 00 00 0b 3a 73 ce 2f f2"})
	}
	return append(ops, operation{kind: opDiagnose, typ: "any", hint: "hex, e.g. 6c 48 65 6c 6c 6f"})
}

type modelState int

const (
	stateSelectOp modelState = iota
	stateInput
	stateShowResult
)

type interactiveModel struct {
	err      error
	result   string
	ops      []operation
	input    textinput.Model
	selected int
	state    modelState
}

func newInteractiveModel() *interactiveModel {
	return &interactiveModel{
		ops:   operations(),
		state: stateSelectOp,
	}
}

type resultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInput {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectOp && m.selected < len(m.ops)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				op := m.ops[m.selected]
				if op.kind == opEncode && op.typ == "null" {
					return m, m.run
				}
				m.prepareInput()
				m.state = stateInput
				return m, textinput.Blink

			case stateInput:
				return m, m.run

			case stateShowResult:
				m.reset()
			}
			return m, nil

		case "esc":
			if m.state != stateSelectOp {
				m.reset()
				return m, nil
			}
		}

	case resultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelectOp
	m.result = ""
	m.err = nil
}

func (m *interactiveModel) prepareInput() {
	op := m.ops[m.selected]
	ti := textinput.New()
	ti.Placeholder = op.hint
	ti.Prompt = op.typ + ": "
	ti.Width = 60
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) run() tea.Msg {
	op := m.ops[m.selected]
	result, err := runOperation(op, m.input.Value())
	return resultMsg{result: result, err: err}
}

// runOperation executes op on the raw text the user typed.
func runOperation(op operation, input string) (string, error) {
	switch op.kind {
	case opEncode:
		data, err := encodeValue(op.typ, input)
		if err != nil {
			return "", err
		}
		return describe(data), nil
	}

	data, err := decodeHexInput([]byte(input))
	if err != nil {
		return "", err
	}
	result, err := decodeValue(op.typ, data)
	if err != nil {
		return "", err
	}
	return result + "\n" + describe(data), nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CBOR Inspector"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an operation:\n\n")
		for i, op := range m.ops {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + op.title()))
			} else {
				b.WriteString("  " + opStyle.Render(op.title()))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInput:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("%s\n\n", opStyle.Render(op.title())))
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(typeStyle.Render(op.hint))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter run • esc back"))

	case stateShowResult:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", opStyle.Render(op.title())))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
