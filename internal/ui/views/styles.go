package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title          lipgloss.Style
	Prompt         lipgloss.Style
	InputBox       lipgloss.Style
	Dim            lipgloss.Style
	Status         lipgloss.Style
	StatusLoading  lipgloss.Style
	StatusSuccess  lipgloss.Style
	StatusError    lipgloss.Style
	User           lipgloss.Style
	ButtonEnabled  lipgloss.Style
	ButtonDisabled lipgloss.Style
	ToastSuccess   lipgloss.Style
	ToastError     lipgloss.Style
	Help           lipgloss.Style
	Main           lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2).
		MarginBottom(1)

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		InputBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1).
			Width(40),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1).
			MarginBottom(1),
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		User:          lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		ButtonEnabled: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("62")).
			Padding(0, 2),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 2),
		ToastSuccess: toast.BorderForeground(lipgloss.Color("78")),
		ToastError:   toast.BorderForeground(lipgloss.Color("203")),
		Help:         lipgloss.NewStyle().Faint(true).MarginTop(1),
		Main:         lipgloss.NewStyle().Padding(1, 2),
	}
}
