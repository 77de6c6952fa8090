package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/remote-bridge/bridge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	focusConn = iota
	focusRequest
)

type sendResultMsg struct {
	err      error
	response string
	elapsed  time.Duration
}

type interactiveModel struct {
	platform *bridge.Platform
	cleanup  func()

	inputs   []textinput.Model
	focusIdx int

	results []string
}

func newInteractiveModel(p *bridge.Platform, cleanup func()) *interactiveModel {
	conn := textinput.New()
	conn.Placeholder = "0"
	conn.CharLimit = 10
	conn.Width = 10
	conn.Focus()

	request := textinput.New()
	request.Placeholder = "payload"
	request.Width = 48

	return &interactiveModel{
		platform: p,
		cleanup:  cleanup,
		inputs:   []textinput.Model{conn, request},
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) send() tea.Cmd {
	connectionID := int64(0)
	if v := strings.TrimSpace(m.inputs[focusConn].Value()); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return func() tea.Msg { return sendResultMsg{err: fmt.Errorf("connection id: %w", err)} }
		}
		connectionID = parsed
	}
	request := []byte(m.inputs[focusRequest].Value())

	p := m.platform
	return func() tea.Msg {
		start := time.Now()
		response, err := p.SendRequest(context.Background(), int32(connectionID), request)
		return sendResultMsg{
			response: string(response),
			err:      err,
			elapsed:  time.Since(start),
		}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cleanup()
			return m, tea.Quit

		case "tab", "shift+tab":
			m.inputs[m.focusIdx].Blur()
			m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
			return m, m.inputs[m.focusIdx].Focus()

		case "enter":
			return m, m.send()
		}

	case sendResultMsg:
		if msg.err != nil {
			m.results = append(m.results, errorStyle.Render(fmt.Sprintf("✗ %v", msg.err)))
		} else {
			m.results = append(m.results, resultStyle.Render(
				fmt.Sprintf("✓ %q (%s)", msg.response, msg.elapsed.Round(time.Microsecond))))
		}
		if len(m.results) > 8 {
			m.results = m.results[len(m.results)-8:]
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("remote-bridge"))
	b.WriteString(fmt.Sprintf("  platform %d · %d pending\n\n", m.platform.Handle(), m.platform.Pending()))

	b.WriteString(labelStyle.Render("connection"))
	b.WriteString("  ")
	b.WriteString(m.inputs[focusConn].View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("request   "))
	b.WriteString("  ")
	b.WriteString(m.inputs[focusRequest].View())
	b.WriteString("\n\n")

	for _, r := range m.results {
		b.WriteString(r)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: send · tab: switch field · esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func runInteractive(wasmFile, libFile string, echo bool) error {
	ctx := context.Background()

	b := bridge.New()
	transport, cleanup, err := buildTransport(ctx, b, wasmFile, libFile, echo)
	if err != nil {
		return err
	}

	p := b.NewPlatform(transport)
	program := tea.NewProgram(newInteractiveModel(p, cleanup))
	_, err = program.Run()
	return err
}
