package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"friendsearch/internal/config"
	"friendsearch/internal/eventbus"
	"friendsearch/internal/history"
	"friendsearch/internal/logging"
	"friendsearch/internal/lookup"
	"friendsearch/internal/search"
	"friendsearch/internal/ui"
)

// busBuffer holds a burst of keystroke events while handlers catch up
const busBuffer = 256

func newTUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive search screen (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

// session is everything the TUI runs on except the terminal
type session struct {
	cfg   *config.Config
	bus   eventbus.EventBus
	coord *search.Coordinator
	store *history.Store
	model *ui.Model
}

// openSession wires the bus, activity log, backend and coordinator. The
// config is loaded through the bus so the activity log records it.
func openSession(opts *rootOptions, historySize int, logger zerolog.Logger) (*session, error) {
	bus := eventbus.New(eventbus.WithLogger(logger), eventbus.WithBuffer(busBuffer))

	store := history.NewStore(historySize)
	store.Attach(bus)

	cfg, err := loadConfig(opts, bus)
	if err != nil {
		bus.Close()
		return nil, err
	}

	svc, err := lookup.FromConfig(cfg.Backend, logger)
	if err != nil {
		bus.Close()
		return nil, err
	}

	coord := search.NewCoordinator(svc, bus, search.Options{
		MinLength: cfg.Search.MinLength,
		Debounce:  cfg.Search.Debounce.Std(),
		Workers:   cfg.Search.Workers,
	}, logger)

	model := ui.NewModel(coord, store, bus, ui.Options{
		MinLength:     cfg.Search.MinLength,
		ToastDuration: cfg.UI.ToastDuration.Std(),
	}, logger)

	return &session{cfg: cfg, bus: bus, coord: coord, store: store, model: model}, nil
}

func (s *session) Close() {
	s.coord.Close()
	s.bus.Close()
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	// First read only decides where logs go
	boot, err := loadConfig(opts, nil)
	if err != nil {
		return err
	}

	logger, closer, err := logging.Open(boot.Log, "friendsearch")
	if err != nil {
		return err
	}
	defer closer.Close()

	s, err := openSession(opts, boot.UI.HistorySize, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(s.model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	// Forward bus events to the UI without blocking the bus
	eventChan := make(chan eventbus.DomainEvent, 100)
	s.bus.SubscribeAll(func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			logger.Warn().Str("event", string(e.Type())).Msg("UI event channel full, dropping event")
		}
	})
	go func() {
		for e := range eventChan {
			p.Send(ui.EventMsg{Event: e})
		}
	}()

	logger.Info().Str("backend", s.cfg.Backend.Mode).Msg("starting UI")
	_, runErr := p.Run()

	s.Close()
	close(eventChan)

	if runErr != nil {
		logger.Error().Err(runErr).Msg("UI exited with error")
		return runErr
	}
	logger.Info().Msg("UI exited normally")
	return nil
}
