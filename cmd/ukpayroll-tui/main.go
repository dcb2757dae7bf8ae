package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/ukpayroll/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: ukpayroll-tui <payrun-file>")
		os.Exit(1)
	}
	payRunPath := os.Args[1]

	if _, err := os.Stat(payRunPath); os.IsNotExist(err) {
		fmt.Printf("Error: pay run file not found: %s\n", payRunPath)
		os.Exit(1)
	}

	p := tea.NewProgram(
		tui.NewModel(payRunPath),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
