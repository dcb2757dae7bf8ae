package tui

import (
	"github.com/rgehrsitz/ukpayroll/internal/payrun"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneLoading Scene = iota
	SceneResults
	SceneDetail
)

func (s Scene) String() string {
	switch s {
	case SceneLoading:
		return "Loading"
	case SceneResults:
		return "Results"
	case SceneDetail:
		return "Detail"
	default:
		return "Unknown"
	}
}

// Message types for the Bubble Tea update cycle

// RunCompleteMsg carries the finished pay run
type RunCompleteMsg struct {
	Result *payrun.Result
	Err    error
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
