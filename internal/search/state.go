package search

import "friendsearch/internal/domain"

// Phase is where the coordinator is in a search flow
type Phase int

const (
	// PhaseIdle means the input is too short to search for
	PhaseIdle Phase = iota
	// PhaseSearching means a qualifying term is debouncing or its lookup is in flight
	PhaseSearching
	// PhaseResolved means the latest lookup answered; User says with whom
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseSearching:
		return "searching"
	case PhaseResolved:
		return "resolved"
	default:
		return "idle"
	}
}

// State is a snapshot of what the presentation layer binds to
type State struct {
	Phase     Phase
	Input     string       // raw text of the last keystroke
	Term      string       // last committed search term
	User      *domain.User // nil when nobody is resolved
	Searching bool
}

// AddFriendEnabled reports whether a friend request can be made
func (s State) AddFriendEnabled() bool {
	return s.User != nil
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
