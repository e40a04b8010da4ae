package ui

import (
	"friendsearch/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// toastExpiredMsg hides the toast with the matching id
type toastExpiredMsg struct {
	id int
}

// historyPagerMsg contains the result of the history pager command
type historyPagerMsg struct {
	err error
}
