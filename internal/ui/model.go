package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"friendsearch/internal/domain"
	"friendsearch/internal/eventbus"
	"friendsearch/internal/history"
	"friendsearch/internal/search"
	"friendsearch/internal/ui/views"
)

// Controller is the part of the search coordinator the UI drives
type Controller interface {
	InputChanged(text string) error
	RequestAddFriend() error
	State() search.State
}

// Options configures the UI model
type Options struct {
	MinLength     int
	ToastDuration time.Duration
}

// Model represents the UI state
type Model struct {
	ctrl     Controller
	history  *history.Store
	bus      eventbus.EventBus
	opts     Options
	logger   zerolog.Logger
	renderer *views.Renderer
	keys     keyMap

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	width   int

	toast        string
	toastIsError bool
	toastID      int
}

// NewModel creates a new UI model. Failures it hits are published on bus as
// ErrorEvents when bus is not nil.
func NewModel(ctrl Controller, store *history.Store, bus eventbus.EventBus, opts Options, logger zerolog.Logger) *Model {
	if opts.MinLength < 1 {
		opts.MinLength = search.DefaultMinLength
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = 3500 * time.Millisecond
	}

	ti := textinput.New()
	ti.Placeholder = "Who are you looking for?"
	ti.Prompt = ""
	ti.CharLimit = 64
	ti.Focus()

	renderer := views.NewRenderer()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = renderer.Styles().StatusLoading

	return &Model{
		ctrl:     ctrl,
		history:  store,
		bus:      bus,
		opts:     opts,
		logger:   logger.With().Str("component", "ui").Logger(),
		renderer: renderer,
		keys:     defaultKeyMap(),
		input:    ti,
		spinner:  sp,
		help:     help.New(),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case spinner.TickMsg:
		if !m.ctrl.State().Searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
			m.toastIsError = false
		}
		return m, nil

	case historyPagerMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("history pager failed")
			m.publishError("history pager failed", msg.err)
			return m, m.showToast("Could not open history: "+msg.err.Error(), true)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.AddFriend):
		// the button is disabled without a user; the coordinator guards too
		if !m.ctrl.State().AddFriendEnabled() {
			return nil
		}
		if err := m.ctrl.RequestAddFriend(); err != nil {
			m.logger.Warn().Err(err).Msg("friend request refused")
			// the coordinator already reports a missing user itself
			var precondition *domain.PreconditionError
			if !errors.As(err, &precondition) {
				m.publishError("friend request refused", err)
			}
			return m.showToast(err.Error(), true)
		}
		return nil

	case key.Matches(msg, m.keys.Clear):
		return m.setInput("")

	case key.Matches(msg, m.keys.History):
		if m.history == nil {
			return nil
		}
		return tea.Exec(newHistoryPager(m.history.Render()), func(err error) tea.Msg {
			return historyPagerMsg{err: err}
		})
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.inputChanged(m.input.Value()))
}

// setInput replaces the text field, which counts as a keystroke
func (m *Model) setInput(text string) tea.Cmd {
	if m.input.Value() == text {
		return nil
	}
	m.input.SetValue(text)
	return m.inputChanged(text)
}

func (m *Model) inputChanged(text string) tea.Cmd {
	if err := m.ctrl.InputChanged(text); err != nil {
		m.logger.Error().Err(err).Msg("search pipeline rejected input")
		m.publishError("search input rejected", err)
		return m.showToast(err.Error(), true)
	}
	if m.ctrl.State().Searching {
		return m.spinner.Tick
	}
	return nil
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.SearchingChangedEvent:
		if e.Searching {
			return m.spinner.Tick
		}

	case eventbus.AddFriendCompletedEvent:
		cmd := m.showToast(e.Result.Message(), !e.Result.IsAdded())
		if e.ClearInput {
			return tea.Batch(cmd, m.setInput(""))
		}
		return cmd

	case eventbus.AddFriendRejectedEvent:
		return m.showToast(e.Err.Error(), true)

	case eventbus.LookupFailedEvent:
		return m.showToast(fmt.Sprintf("Search for %q failed", e.Term), true)
	}
	return nil
}

func (m *Model) publishError(message string, err error) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(eventbus.ErrorEvent{Message: message, Err: err})
}

// showToast displays text until the toast duration passes or another toast replaces it
func (m *Model) showToast(text string, isError bool) tea.Cmd {
	m.toastID++
	id := m.toastID
	m.toast = text
	m.toastIsError = isError
	return tea.Tick(m.opts.ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// View implements tea.Model
func (m *Model) View() string {
	state := m.ctrl.State()
	label := "Add friend"
	if state.User != nil {
		label = fmt.Sprintf("Add %s as friend", state.User.Name)
	}
	return m.renderer.Render(views.ViewState{
		Width:        m.width,
		Input:        m.input.View(),
		Spinner:      m.spinner.View(),
		Searching:    state.Searching,
		Resolved:     state.Phase == search.PhaseResolved,
		Term:         state.Term,
		MinLength:    m.opts.MinLength,
		User:         state.User,
		ButtonLabel:  label,
		Toast:        m.toast,
		ToastIsError: m.toastIsError,
		Help:         m.help.View(m.keys),
	})
}

// Toast returns the text currently shown as a toast, if any
func (m *Model) Toast() string {
	return m.toast
}

// InputValue returns the text field contents
func (m *Model) InputValue() string {
	return m.input.Value()
}
