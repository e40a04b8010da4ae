package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventInputChanged            EventType = "InputChanged"
	EventSearchingChanged        EventType = "SearchingChanged"
	EventAddFriendEnabledChanged EventType = "AddFriendEnabledChanged"
	EventLookupIssued            EventType = "LookupIssued"
	EventUserResolved            EventType = "UserResolved"
	EventLookupFailed            EventType = "LookupFailed"
	EventStaleResultDiscarded    EventType = "StaleResultDiscarded"
	EventAddFriendRequested      EventType = "AddFriendRequested"
	EventAddFriendCompleted      EventType = "AddFriendCompleted"
	EventAddFriendRejected       EventType = "AddFriendRejected"
	EventConfigLoaded            EventType = "ConfigLoaded"
	EventConfigSaved             EventType = "ConfigSaved"
	EventError                   EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// InputChangedEvent is emitted for every raw keystroke
type InputChangedEvent struct {
	Text string
}

func (e InputChangedEvent) Type() EventType { return EventInputChanged }

// SearchingChangedEvent is emitted when the searching flag flips
type SearchingChangedEvent struct {
	Searching bool
}

func (e SearchingChangedEvent) Type() EventType { return EventSearchingChanged }

// AddFriendEnabledChangedEvent is emitted when the add-friend action becomes available or unavailable
type AddFriendEnabledChangedEvent struct {
	Enabled bool
}

func (e AddFriendEnabledChangedEvent) Type() EventType { return EventAddFriendEnabledChanged }

// LookupIssuedEvent is emitted when a committed term is sent to the lookup service
type LookupIssuedEvent struct {
	Seq  uint64
	Term string
}

func (e LookupIssuedEvent) Type() EventType { return EventLookupIssued }

// UserResolvedEvent is emitted when the authoritative lookup completes.
// User is nil when nobody matched.
type UserResolvedEvent struct {
	Seq  uint64
	Term string
	User *User
}

func (e UserResolvedEvent) Type() EventType { return EventUserResolved }

// LookupFailedEvent is emitted when the authoritative lookup returned a transport error
type LookupFailedEvent struct {
	Seq  uint64
	Term string
	Err  error
}

func (e LookupFailedEvent) Type() EventType { return EventLookupFailed }

// StaleResultDiscardedEvent is emitted when a superseded lookup completes
type StaleResultDiscardedEvent struct {
	Seq    uint64
	Latest uint64
	Term   string
}

func (e StaleResultDiscardedEvent) Type() EventType { return EventStaleResultDiscarded }

// AddFriendRequestedEvent is emitted when a friend request is dispatched
type AddFriendRequestedEvent struct {
	User User
}

func (e AddFriendRequestedEvent) Type() EventType { return EventAddFriendRequested }

// AddFriendCompletedEvent is the one-shot outcome of a friend request.
// ClearInput asks the presentation layer to reset its text field.
type AddFriendCompletedEvent struct {
	User       User
	Result     AddFriendResult
	Err        error
	ClearInput bool
}

func (e AddFriendCompletedEvent) Type() EventType { return EventAddFriendCompleted }

// AddFriendRejectedEvent is emitted when a friend request is made with no current user
type AddFriendRejectedEvent struct {
	Err error
}

func (e AddFriendRejectedEvent) Type() EventType { return EventAddFriendRejected }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
