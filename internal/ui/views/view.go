package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"friendsearch/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width        int
	Input        string // rendered text input
	Spinner      string // rendered spinner frame
	Searching    bool
	Resolved     bool
	Term         string
	MinLength    int
	User         *domain.User
	ButtonLabel  string
	Toast        string
	ToastIsError bool
	Help         string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles exposes the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render draws the whole screen
func (r *Renderer) Render(state ViewState) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render("friendsearch"))
	b.WriteString("\n")

	if state.Toast != "" {
		style := r.styles.ToastSuccess
		if state.ToastIsError {
			style = r.styles.ToastError
		}
		b.WriteString(style.Render(state.Toast))
		b.WriteString("\n")
	}

	b.WriteString(r.styles.Prompt.Render("Name"))
	b.WriteString("\n")
	b.WriteString(r.styles.InputBox.Render(state.Input))
	b.WriteString("\n")

	b.WriteString(r.styles.Status.Render(r.renderStatus(state)))
	b.WriteString("\n")

	b.WriteString(r.RenderButton(state.ButtonLabel, state.User != nil))
	b.WriteString("\n")

	if state.Help != "" {
		b.WriteString(r.styles.Help.Render(state.Help))
	}

	main := r.styles.Main
	if state.Width > 0 {
		main = main.MaxWidth(state.Width)
	}
	return main.Render(b.String())
}

// RenderButton draws the add-friend action, greyed out when disabled
func (r *Renderer) RenderButton(label string, enabled bool) string {
	if label == "" {
		label = "Add friend"
	}
	if enabled {
		return r.styles.ButtonEnabled.Render(label)
	}
	return r.styles.ButtonDisabled.Render(label)
}

func (r *Renderer) renderStatus(state ViewState) string {
	switch {
	case state.Searching:
		return lipgloss.JoinHorizontal(lipgloss.Top, state.Spinner, " ", r.styles.StatusLoading.Render("Searching..."))
	case state.User != nil:
		return r.styles.StatusSuccess.Render("Found ") + r.styles.User.Render(state.User.String())
	case state.Resolved:
		return r.styles.StatusError.Render("No user named " + state.Term)
	default:
		return r.styles.Dim.Render(fmt.Sprintf("Type at least %d characters to search", state.MinLength))
	}
}
