package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateChat
)

// main TUI application model
type Model struct {
	state   AppState
	mode    string
	width   int
	height  int
	err     error
	welcome *Welcome
	chat    *ChatModel
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the chat state
type EnterChatMsg struct{}

// one question and what came back for it
type Exchange struct {
	Question string
	Answer   string
	Sources  []Source
	Err      error
}

// a cited post as returned by the chat endpoint
type Source struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Topic string `json:"topic"`
}

// chat screen
type ChatModel struct {
	input              textinput.Model
	viewport           viewport.Model
	spinner            spinner.Model
	glamourRenderer    *glamour.TermRenderer
	width              int
	height             int
	exchanges          []Exchange
	isFetching         bool
	ready              bool
	shouldScrollBottom bool
	client             *ChatClient
	siteURL            string
}

// sent when the server answers a question
type ChatResponseMsg struct {
	question string
	answer   string
	sources  []Source
}

// sent when a question could not be answered
type ChatErrorMsg struct {
	question string
	err      error
}

// welcome screen model
type Welcome struct {
	mode     string
	endpoint string
	input    string
	commands []Command
}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
}
