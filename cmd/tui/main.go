package main

import (
	"fmt"
	"io"
	"os"

	"codeberg.org/blogchat/server/internal/logger"
	"codeberg.org/blogchat/server/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	env := os.Getenv("BLOGCHAT_ENV")
	if env == "" {
		env = "development"
	}

	// log lines would tear the alt screen
	logger.SetDefault(logger.New(env, "error", io.Discard))

	app := tui.NewApp(env, os.Getenv("BLOGCHAT_API_ENDPOINT"), os.Getenv("BLOGCHAT_SITE_URL"))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running blogchat: %v\n", err)
		os.Exit(1)
	}
}
