package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func NewApp(mode, endpoint, siteURL string) *Model {
	client := NewChatClient(endpoint)

	return &Model{
		state:   StateWelcome,
		mode:    mode,
		welcome: NewWelcome(mode, client.Endpoint()),
		chat:    NewChatModel(client, siteURL),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// an error screen or the chat goes back to welcome, welcome quits
			if m.err != nil {
				m.err = nil
				return m, nil
			}

			if m.state == StateChat {
				m.state = StateWelcome
				return m, nil
			}

			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chat, _ = m.chat.Update(msg)
		return m, nil

	case ErrorMsg:
		m.err = msg.err
		return m, nil

	case EnterChatMsg:
		m.state = StateChat
		return m, m.chat.Init()

	case ChatResponseMsg, ChatErrorMsg:
		// answers can land after the user went back to welcome
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	if m.err != nil {
		return m, nil
	}

	switch m.state {
	case StateWelcome:
		var cmd tea.Cmd
		m.welcome, cmd = m.welcome.Update(msg)
		return m, cmd

	case StateChat:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

func (m *Model) View() string {
	if m.err != nil {
		return errorView(m.err)
	}

	switch m.state {
	case StateWelcome:
		return m.welcome.View()

	case StateChat:
		return m.chat.View()

	default:
		return "Unknown state"
	}
}

func errorView(err error) string {
	return fmt.Sprintf("\n  Error: %v\n\n  Press Ctrl+C to go back\n", err)
}
