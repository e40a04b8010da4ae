// Package search turns keystrokes into debounced user lookups and keeps the
// state a presentation layer binds to: whether a search is running, who the
// current user is, and whether a friend request can be sent.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"friendsearch/internal/domain"
	"friendsearch/internal/eventbus"
	"friendsearch/internal/executor"
	"friendsearch/internal/lookup"
)

// Default tuning
const (
	DefaultMinLength = 3
	DefaultDebounce  = 500 * time.Millisecond
	DefaultWorkers   = 4
)

// Options tunes a Coordinator
type Options struct {
	MinLength int
	Debounce  time.Duration
	Workers   int
	// IO runs lookup and add-friend calls. When nil the coordinator
	// starts its own pool of Workers goroutines.
	IO executor.Executor
}

func (o *Options) applyDefaults() {
	if o.MinLength < 1 {
		o.MinLength = DefaultMinLength
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Workers < 1 {
		o.Workers = DefaultWorkers
	}
}

// Coordinator owns the search pipeline.
//
// Every field below loop is only touched from functions running on loop.
// Lookups and friend requests run on io and post their results back, so the
// state never needs a lock; snapshot is a copy kept for concurrent readers.
type Coordinator struct {
	svc    lookup.Service
	bus    eventbus.EventBus
	opts   Options
	logger zerolog.Logger

	io     executor.Executor
	ownIO  *executor.Pool
	loop   *executor.Loop
	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once

	// loop-owned
	state       State
	latest      uint64 // sequence number of the last issued lookup
	superseded  bool   // input changed since latest was issued
	keystrokes  uint64 // input changes seen so far
	pending     string // term waiting out the debounce window
	timer       *time.Timer
	debounceGen uint64

	mu       sync.RWMutex
	snapshot State
}

// NewCoordinator creates a coordinator searching svc and publishing on bus
func NewCoordinator(svc lookup.Service, bus eventbus.EventBus, opts Options, logger zerolog.Logger) *Coordinator {
	opts.applyDefaults()
	logger = logger.With().Str("component", "search").Logger()
	ctx, cancel := context.WithCancel(context.Background())

	c := &Coordinator{
		svc:    svc,
		bus:    bus,
		opts:   opts,
		logger: logger,
		io:     opts.IO,
		loop:   executor.NewLoop(256, logger),
		ctx:    ctx,
		cancel: cancel,
	}
	if c.io == nil {
		c.ownIO = executor.NewPool(opts.Workers, 64, logger)
		c.io = c.ownIO
	}
	return c
}

// InputChanged feeds one keystroke into the pipeline. When it returns,
// Searching is true and any previous user has been cleared.
func (c *Coordinator) InputChanged(text string) error {
	return c.call(func() { c.onInput(text) })
}

// RequestAddFriend sends a friend request to the current user. The outcome
// arrives later as an AddFriendCompletedEvent. With no current user it returns
// a *domain.PreconditionError wrapping domain.ErrNoCurrentUser.
func (c *Coordinator) RequestAddFriend() error {
	var reqErr error
	if err := c.call(func() { reqErr = c.onAddFriend() }); err != nil {
		return err
	}
	return reqErr
}

// CurrentUser returns the user resolved by the latest lookup
func (c *Coordinator) CurrentUser() (domain.User, bool) {
	s := c.State()
	if s.User == nil {
		return domain.User{}, false
	}
	return *s.User, true
}

// Searching reports whether a search is between keystroke and answer
func (c *Coordinator) Searching() bool {
	return c.State().Searching
}

// AddFriendEnabled reports whether RequestAddFriend would be accepted
func (c *Coordinator) AddFriendEnabled() bool {
	return c.State().AddFriendEnabled()
}

// State returns a copy of the current state
func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot.clone()
}

// Close stops the pipeline. In-flight calls are cancelled and their results dropped.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.loop.Call(c.stopTimer)
		c.loop.Close()
		if c.ownIO != nil {
			c.ownIO.Close()
		}
	})
}

// call runs fn on the loop and waits for it
func (c *Coordinator) call(fn func()) error {
	err := c.loop.Call(func() {
		fn()
		c.sync()
	})
	if errors.Is(err, executor.ErrClosed) {
		return domain.ErrCoordinatorClosed
	}
	return err
}

// post queues fn on the loop from another goroutine
func (c *Coordinator) post(fn func()) {
	err := c.loop.Submit(func() {
		fn()
		c.sync()
	})
	if err != nil {
		c.logger.Debug().Err(err).Msg("dropping result after close")
	}
}

func (c *Coordinator) sync() {
	snap := c.state.clone()
	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()
}

func (c *Coordinator) onInput(text string) {
	keystrokesTotal.Inc()
	c.keystrokes++
	c.bus.Publish(domain.InputChangedEvent{Text: text})

	c.state.Input = text
	c.superseded = true
	c.stopTimer()
	c.setUser(nil)
	c.setSearching(true)

	term := strings.TrimSpace(text)
	if utf8.RuneCountInString(term) < c.opts.MinLength {
		c.pending = ""
		c.state.Phase = PhaseIdle
		c.setSearching(false)
		return
	}

	c.state.Phase = PhaseSearching
	c.pending = term
	c.debounceGen++
	gen := c.debounceGen
	c.timer = time.AfterFunc(c.opts.Debounce, func() {
		c.post(func() { c.commit(gen) })
	})
}

func (c *Coordinator) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	// a timer that already fired may still have its commit queued
	c.debounceGen++
}

// commit issues the lookup for the term that survived the debounce window
func (c *Coordinator) commit(gen uint64) {
	if gen != c.debounceGen || c.pending == "" {
		return
	}
	c.timer = nil
	term := c.pending
	c.pending = ""

	c.latest++
	seq := c.latest
	c.superseded = false
	c.state.Term = term

	lookupsIssuedTotal.Inc()
	c.logger.Debug().Uint64("seq", seq).Str("term", term).Msg("issuing lookup")
	c.bus.Publish(domain.LookupIssuedEvent{Seq: seq, Term: term})

	err := c.io.Submit(func() {
		result, err := c.svc.FindUser(c.ctx, term)
		c.post(func() { c.onLookupResult(seq, term, result, err) })
	})
	if err != nil {
		c.onLookupResult(seq, term, domain.NotFound(), err)
	}
}

func (c *Coordinator) onLookupResult(seq uint64, term string, result domain.LookupResult, err error) {
	if seq != c.latest || c.superseded {
		lookupResultsTotal.WithLabelValues("stale").Inc()
		c.logger.Debug().Uint64("seq", seq).Uint64("latest", c.latest).Str("term", term).Msg("discarding stale lookup result")
		c.bus.Publish(domain.StaleResultDiscardedEvent{Seq: seq, Latest: c.latest, Term: term})
		return
	}

	c.state.Phase = PhaseResolved
	switch {
	case err != nil:
		lookupResultsTotal.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Uint64("seq", seq).Str("term", term).Msg("lookup failed")
		c.bus.Publish(domain.LookupFailedEvent{Seq: seq, Term: term, Err: err})
		c.setUser(nil)
	case result.IsFound():
		lookupResultsTotal.WithLabelValues("found").Inc()
		user := result.User
		c.setUser(&user)
	default:
		lookupResultsTotal.WithLabelValues("not_found").Inc()
		c.setUser(nil)
	}
	c.setSearching(false)

	var resolved *domain.User
	if c.state.User != nil {
		u := *c.state.User
		resolved = &u
	}
	c.logger.Info().Uint64("seq", seq).Str("term", term).Bool("found", resolved != nil).Msg("lookup resolved")
	c.bus.Publish(domain.UserResolvedEvent{Seq: seq, Term: term, User: resolved})
}

func (c *Coordinator) onAddFriend() error {
	if c.state.User == nil {
		err := &domain.PreconditionError{Op: "add friend", Err: domain.ErrNoCurrentUser}
		addFriendTotal.WithLabelValues("rejected").Inc()
		c.logger.Warn().Err(err).Msg("friend request without a current user")
		c.bus.Publish(domain.AddFriendRejectedEvent{Err: err})
		return err
	}

	user := *c.state.User
	requestedAt := c.keystrokes
	c.logger.Info().Str("user_id", user.ID).Msg("sending friend request")
	c.bus.Publish(domain.AddFriendRequestedEvent{User: user})

	err := c.io.Submit(func() {
		result, err := c.svc.AddFriend(c.ctx, user)
		c.post(func() { c.onAddFriendResult(user, requestedAt, result, err) })
	})
	if err != nil {
		c.onAddFriendResult(user, requestedAt, domain.Failed(), err)
	}
	return nil
}

// onAddFriendResult publishes the outcome. The input is only cleared when
// nothing was typed since the request, so a newer search is left alone.
func (c *Coordinator) onAddFriendResult(user domain.User, requestedAt uint64, result domain.AddFriendResult, err error) {
	outcome := result.Status.String()
	if err != nil {
		outcome = "error"
		result = domain.Failed()
		c.logger.Warn().Err(err).Str("user_id", user.ID).Msg("friend request failed")
	} else {
		c.logger.Info().Str("user_id", user.ID).Str("outcome", outcome).Msg("friend request answered")
	}
	addFriendTotal.WithLabelValues(outcome).Inc()

	c.bus.Publish(domain.AddFriendCompletedEvent{
		User:       user,
		Result:     result,
		Err:        err,
		ClearInput: result.IsAdded() && requestedAt == c.keystrokes,
	})
}

func (c *Coordinator) setSearching(v bool) {
	if c.state.Searching == v {
		return
	}
	c.state.Searching = v
	c.bus.Publish(domain.SearchingChangedEvent{Searching: v})
}

func (c *Coordinator) setUser(u *domain.User) {
	wasEnabled := c.state.User != nil
	c.state.User = u
	if enabled := u != nil; enabled != wasEnabled {
		c.bus.Publish(domain.AddFriendEnabledChangedEvent{Enabled: enabled})
	}
}
