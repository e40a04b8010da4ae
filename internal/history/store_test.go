package history

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendsearch/internal/domain"
	"friendsearch/internal/eventbus"
)

func TestStoreEvictsOldest(t *testing.T) {
	s := NewStore(3)
	for _, text := range []string{"a", "b", "c", "d"} {
		s.Add(domain.EventLookupIssued, text)
	}

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "b", entries[0].Text)
	assert.Equal(t, "d", entries[2].Text)
}

func TestRenderNewestFirst(t *testing.T) {
	s := NewStore(0)
	assert.Equal(t, "No activity yet.\n", s.Render())

	s.Add(domain.EventLookupIssued, "first")
	s.Add(domain.EventLookupIssued, "second")

	lines := strings.Split(strings.TrimSpace(s.Render()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "second")
	assert.Contains(t, lines[1], "first")
}

func TestDescribe(t *testing.T) {
	user := domain.User{ID: "123", Name: "cedric"}
	tests := []struct {
		event eventbus.DomainEvent
		want  string
	}{
		{eventbus.LookupIssuedEvent{Seq: 1, Term: "ced"}, `#1 search "ced"`},
		{eventbus.UserResolvedEvent{Seq: 1, Term: "ced"}, `#1 "ced": no match`},
		{eventbus.UserResolvedEvent{Seq: 2, Term: "cedric", User: &user}, `#2 "cedric": found cedric (123)`},
		{eventbus.StaleResultDiscardedEvent{Seq: 1, Latest: 2, Term: "cedric"}, `#1 "cedric": superseded by #2`},
		{eventbus.AddFriendCompletedEvent{Result: domain.Added("123")}, "Friend added id: 123"},
		{eventbus.AddFriendCompletedEvent{Result: domain.Failed(), Err: errors.New("timeout")}, "ERROR: Friend not added: timeout"},
		{eventbus.ErrorEvent{Message: "search input rejected", Err: errors.New("closed")}, "search input rejected: closed"},
		{eventbus.ConfigLoadedEvent{Path: "friendsearch.toml"}, "settings loaded from friendsearch.toml"},
	}
	for _, tt := range tests {
		got, ok := Describe(tt.event)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got)
	}

	_, ok := Describe(eventbus.InputChangedEvent{Text: "c"})
	assert.False(t, ok)
	_, ok = Describe(eventbus.SearchingChangedEvent{Searching: true})
	assert.False(t, ok)
}

func TestAttachRecordsBusEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	s := NewStore(10)
	detach := s.Attach(bus)

	bus.Publish(eventbus.InputChangedEvent{Text: "jon"})
	bus.Publish(eventbus.LookupIssuedEvent{Seq: 1, Term: "jon"})
	require.Eventually(t, func() bool { return s.Len() == 1 }, time.Second, 5*time.Millisecond)

	detach()
	bus.Publish(eventbus.LookupIssuedEvent{Seq: 2, Term: "cedric"})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, s.Len())
}
