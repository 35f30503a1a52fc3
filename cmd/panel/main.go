package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"iot-panel/client"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	onStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	offStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

type devicesUpdatedMsg struct{}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type model struct {
	cli      *client.Client
	devices  []client.Device
	cursor   int
	message  string
	quitting bool
}

func initialModel(cli *client.Client) model {
	return model{cli: cli}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case devicesUpdatedMsg:
		m.devices = m.cli.Devices()
		if m.cursor >= len(m.devices) && m.cursor > 0 {
			m.cursor = len(m.devices) - 1
		}
		return m, nil

	case errMsg:
		m.message = msg.Error()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.devices)-1 {
				m.cursor++
			}
		case "enter", " ":
			if m.cursor < len(m.devices) {
				d := m.devices[m.cursor]
				next := "on"
				if d.State == "on" {
					next = "off"
				}
				return m, toggle(m.cli, d.Identifier, next)
			}
		}
	}
	return m, nil
}

func toggle(cli *client.Client, identifier, state string) tea.Cmd {
	return func() tea.Msg {
		if err := cli.Toggle(identifier, state); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	s := titleStyle.Render("IoT Control Panel") + "\n"

	if len(m.devices) == 0 {
		s += normalStyle.Render("waiting for devices...") + "\n"
	}
	for i, d := range m.devices {
		state := offStyle.Render("off")
		if d.State == "on" {
			state = onStyle.Render("on ")
		}
		label := d.Identifier
		if label == "" {
			label = d.IP
		}
		line := fmt.Sprintf("%s  [%s]  %s", label, state, d.IP)
		if i == m.cursor {
			s += selectedStyle.Render("> "+line) + "\n"
		} else {
			s += normalStyle.Render(line) + "\n"
		}
	}

	if m.message != "" {
		s += errorStyle.Render(m.message) + "\n"
	}
	s += helpStyle.Render("enter: toggle • j/k: move • q: quit")
	return s
}

func main() {
	apiBase := os.Getenv("PANEL_API")
	if apiBase == "" {
		apiBase = "http://localhost:3536"
	}

	cli := client.New(apiBase, zerolog.Nop())
	p := tea.NewProgram(initialModel(cli))

	cli.OnUpdate(func() {
		p.Send(devicesUpdatedMsg{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cli.Run(ctx)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
