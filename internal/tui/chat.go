package tui

import (
	"fmt"
	"strings"

	"codeberg.org/blogchat/server/internal/content"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const chatHeader = "BLOG CHAT"

// returns a new chat screen talking to client
func NewChatModel(client *ChatClient, siteURL string) *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "ask something about the blog..."
	ti.Focus()
	ti.CharLimit = 4000
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorGray)

	return &ChatModel{
		input:   ti,
		spinner: sp,
		client:  client,
		siteURL: strings.TrimRight(siteURL, "/"),
	}
}

func (m *ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ChatModel) Update(msg tea.Msg) (*ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.isFetching {
				return m, nil
			}

			m.input.SetValue("")
			m.isFetching = true
			m.exchanges = append(m.exchanges, Exchange{Question: question})
			m.refresh()

			return m, tea.Batch(m.client.AskCmd(question), m.spinner.Tick)

		case "ctrl+l":
			m.input.SetValue("")
			m.exchanges = nil
			m.refresh()
			return m, nil

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case ChatResponseMsg:
		m.isFetching = false
		if last := m.last(); last != nil {
			last.Answer = msg.answer
			last.Sources = msg.sources
		}
		m.shouldScrollBottom = true
		m.refresh()
		return m, nil

	case ChatErrorMsg:
		m.isFetching = false
		if last := m.last(); last != nil {
			last.Err = msg.err
		}
		m.shouldScrollBottom = true
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.isFetching {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *ChatModel) View() string {
	if !m.ready {
		return "\n  loading..."
	}

	var b strings.Builder

	help := lipgloss.NewStyle().
		Foreground(colorGray).
		Render("[Enter: Ask] [PgUp/PgDn: Scroll] [Ctrl+L: Clear] [Ctrl+C: Back]")

	header := lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render(chatHeader)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(1, m.width-lipgloss.Width(header)-lipgloss.Width(help))),
		help,
	))
	b.WriteString("\n")

	b.WriteString(borderStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")

	b.WriteString(borderStyle.Width(m.width-2).Padding(0, 1).Render(m.input.View()))
	b.WriteString("\n")

	if m.isFetching {
		b.WriteString(m.spinner.View() + infoStyle.Render(" searching the blog..."))
	}

	return b.String()
}

func (m *ChatModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(10, width-8)

	// header, two borders around the viewport, the input box and the status line
	vpHeight := max(3, height-8)
	vpWidth := max(10, width-4)

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, vpWidth-2)),
	)
	if err == nil {
		m.glamourRenderer = renderer
	}

	m.refresh()
}

func (m *ChatModel) refresh() {
	if !m.ready {
		return
	}

	m.viewport.SetContent(m.renderConversation())

	if m.shouldScrollBottom || m.isFetching {
		m.viewport.GotoBottom()
		m.shouldScrollBottom = false
	}
}

func (m *ChatModel) last() *Exchange {
	if len(m.exchanges) == 0 {
		return nil
	}

	return &m.exchanges[len(m.exchanges)-1]
}

func (m *ChatModel) renderConversation() string {
	if len(m.exchanges) == 0 {
		return infoStyle.Render("ask a question and answers will be grounded in published posts.")
	}

	var b strings.Builder

	for i, ex := range m.exchanges {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString(questionStyle.Render("you: " + ex.Question))
		b.WriteString("\n")

		switch {
		case ex.Err != nil:
			b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", ex.Err)))
			b.WriteString("\n")

		case ex.Answer != "":
			b.WriteString(m.renderMarkdown(ex.Answer))

			if len(ex.Sources) > 0 {
				b.WriteString(infoStyle.Render("sources:"))
				b.WriteString("\n")

				for _, s := range ex.Sources {
					b.WriteString(sourceStyle.Render(m.formatSource(s)))
					b.WriteString("\n")
				}
			}
		}
	}

	return b.String()
}

func (m *ChatModel) renderMarkdown(text string) string {
	if m.glamourRenderer == nil {
		return text + "\n"
	}

	out, err := m.glamourRenderer.Render(text)
	if err != nil {
		return text + "\n"
	}

	return out
}

func (m *ChatModel) formatSource(s Source) string {
	line := "• " + s.Title

	if s.Topic != "" {
		line += " (" + s.Topic + ")"
	}

	return line + "  " + m.siteURL + content.URLPath(s.Slug)
}
