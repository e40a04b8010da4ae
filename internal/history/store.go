// Package history keeps a bounded in-memory log of search activity.
package history

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"friendsearch/internal/domain"
	"friendsearch/internal/eventbus"
)

// DefaultCapacity is used when a Store is created with a non-positive size
const DefaultCapacity = 200

// Entry is one line of activity
type Entry struct {
	Time time.Time
	Kind domain.EventType
	Text string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s  %-22s %s", e.Time.Format("15:04:05.000"), e.Kind, e.Text)
}

// Store is a thread-safe ring of the most recent entries
type Store struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

// NewStore creates a store keeping at most capacity entries
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Attach records bus events until the returned func is called
func (s *Store) Attach(bus eventbus.EventBus) func() {
	return bus.SubscribeAll(func(e eventbus.DomainEvent) {
		if text, ok := Describe(e); ok {
			s.Add(e.Type(), text)
		}
	})
}

// Add appends an entry, evicting the oldest when full
func (s *Store) Add(kind domain.EventType, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{Time: s.now(), Kind: kind, Text: text}
	if len(s.entries) == s.capacity {
		copy(s.entries, s.entries[1:])
		s.entries[len(s.entries)-1] = entry
		return
	}
	s.entries = append(s.entries, entry)
}

// Entries returns a copy, oldest first
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.entries...)
}

// Len returns the number of stored entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Render formats the log newest first, one entry per line
func (s *Store) Render() string {
	entries := s.Entries()
	if len(entries) == 0 {
		return "No activity yet.\n"
	}
	var b strings.Builder
	for i := len(entries) - 1; i >= 0; i-- {
		b.WriteString(entries[i].String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Describe turns the events worth keeping into a line of text.
// Keystrokes and flag flips are too noisy and are skipped.
func Describe(e eventbus.DomainEvent) (string, bool) {
	switch ev := e.(type) {
	case eventbus.LookupIssuedEvent:
		return fmt.Sprintf("#%d search %q", ev.Seq, ev.Term), true
	case eventbus.UserResolvedEvent:
		if ev.User == nil {
			return fmt.Sprintf("#%d %q: no match", ev.Seq, ev.Term), true
		}
		return fmt.Sprintf("#%d %q: found %s", ev.Seq, ev.Term, ev.User), true
	case eventbus.LookupFailedEvent:
		return fmt.Sprintf("#%d %q: %v", ev.Seq, ev.Term, ev.Err), true
	case eventbus.StaleResultDiscardedEvent:
		return fmt.Sprintf("#%d %q: superseded by #%d", ev.Seq, ev.Term, ev.Latest), true
	case eventbus.AddFriendRequestedEvent:
		return fmt.Sprintf("friend request to %s", ev.User), true
	case eventbus.AddFriendCompletedEvent:
		if ev.Err != nil {
			return fmt.Sprintf("%s: %v", ev.Result.Message(), ev.Err), true
		}
		return ev.Result.Message(), true
	case eventbus.AddFriendRejectedEvent:
		return ev.Err.Error(), true
	case eventbus.ErrorEvent:
		return fmt.Sprintf("%s: %v", ev.Message, ev.Err), true
	case eventbus.ConfigLoadedEvent:
		return "settings loaded from " + ev.Path, true
	case eventbus.ConfigSavedEvent:
		return "settings saved to " + ev.Path, true
	default:
		return "", false
	}
}
