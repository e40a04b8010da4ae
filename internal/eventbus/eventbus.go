package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"

	"friendsearch/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventInputChanged            = domain.EventInputChanged
	EventSearchingChanged        = domain.EventSearchingChanged
	EventAddFriendEnabledChanged = domain.EventAddFriendEnabledChanged
	EventLookupIssued            = domain.EventLookupIssued
	EventUserResolved            = domain.EventUserResolved
	EventLookupFailed            = domain.EventLookupFailed
	EventStaleResultDiscarded    = domain.EventStaleResultDiscarded
	EventAddFriendRequested      = domain.EventAddFriendRequested
	EventAddFriendCompleted      = domain.EventAddFriendCompleted
	EventAddFriendRejected       = domain.EventAddFriendRejected
	EventConfigLoaded            = domain.EventConfigLoaded
	EventConfigSaved             = domain.EventConfigSaved
	EventError                   = domain.EventError
)

// Re-export domain event types
type InputChangedEvent = domain.InputChangedEvent
type SearchingChangedEvent = domain.SearchingChangedEvent
type AddFriendEnabledChangedEvent = domain.AddFriendEnabledChangedEvent
type LookupIssuedEvent = domain.LookupIssuedEvent
type UserResolvedEvent = domain.UserResolvedEvent
type LookupFailedEvent = domain.LookupFailedEvent
type StaleResultDiscardedEvent = domain.StaleResultDiscardedEvent
type AddFriendRequestedEvent = domain.AddFriendRequestedEvent
type AddFriendCompletedEvent = domain.AddFriendCompletedEvent
type AddFriendRejectedEvent = domain.AddFriendRejectedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	SubscribeAll(handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus.
// Events are delivered in publish order on a single dispatcher goroutine.
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	all       []subscription
	nextID    uint64
	eventChan chan DomainEvent
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	logger    zerolog.Logger
}

// Option configures a bus
type Option func(*bus)

// WithLogger sets the logger used for publish tracing and handler panics
func WithLogger(logger zerolog.Logger) Option {
	return func(b *bus) {
		b.logger = logger.With().Str("component", "eventbus").Logger()
	}
}

// WithBuffer sets the event channel capacity
func WithBuffer(size int) Option {
	return func(b *bus) {
		b.eventChan = make(chan DomainEvent, size)
	}
}

// New creates a new event bus
func New(opts ...Option) EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Keystrokes are too frequent to trace
	if event.Type() != EventInputChanged {
		b.logger.Debug().Str("event", string(event.Type())).Msg("publishing event")
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	case <-b.quit:
	default:
		b.logger.Warn().Str("event", string(event.Type())).Msg("event bus channel full, dropping event")
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.handlers[eventType] = remove(b.handlers[eventType], id)
	}
}

// SubscribeAll subscribes to every event regardless of type
func (b *bus) SubscribeAll(handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = remove(b.all, id)
	}
}

// Close stops the dispatcher. Events still queued are discarded.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	<-b.done
}

func remove(subs []subscription, id uint64) []subscription {
	out := make([]subscription, 0, len(subs))
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer close(b.done)

	for {
		select {
		case event := <-b.eventChan:
			// Copy so the lock is not held while handlers run
			b.mu.RLock()
			typed := b.handlers[event.Type()]
			handlers := make([]subscription, 0, len(typed)+len(b.all))
			handlers = append(handlers, typed...)
			handlers = append(handlers, b.all...)
			b.mu.RUnlock()

			for _, s := range handlers {
				b.call(s.handler, event)
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("event", string(event.Type())).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("event handler panic")
		}
	}()
	h(event)
}
