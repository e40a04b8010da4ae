package domain

import "fmt"

// User is a resolved search match that a friend request can be sent to
type User struct {
	ID   string
	Name string
}

func (u User) String() string {
	return fmt.Sprintf("%s (%s)", u.Name, u.ID)
}

// LookupStatus tags a LookupResult
type LookupStatus int

const (
	LookupNotFound LookupStatus = iota
	LookupFound
)

func (s LookupStatus) String() string {
	if s == LookupFound {
		return "found"
	}
	return "not found"
}

// LookupResult is the outcome of a single find-user call.
// User is only meaningful when Status is LookupFound.
type LookupResult struct {
	Status LookupStatus
	User   User
}

// Found builds a LookupResult for a matched user
func Found(id, name string) LookupResult {
	return LookupResult{Status: LookupFound, User: User{ID: id, Name: name}}
}

// NotFound builds a LookupResult for an unmatched name
func NotFound() LookupResult {
	return LookupResult{Status: LookupNotFound}
}

// IsFound reports whether the lookup matched a user
func (r LookupResult) IsFound() bool {
	return r.Status == LookupFound
}

// AddFriendStatus tags an AddFriendResult
type AddFriendStatus int

const (
	AddFriendFailed AddFriendStatus = iota
	AddFriendAdded
)

func (s AddFriendStatus) String() string {
	if s == AddFriendAdded {
		return "added"
	}
	return "failed"
}

// AddFriendResult is the outcome of a single add-friend call
type AddFriendResult struct {
	Status AddFriendStatus
	ID     string // set when Status is AddFriendAdded
}

// Added builds a successful AddFriendResult
func Added(id string) AddFriendResult {
	return AddFriendResult{Status: AddFriendAdded, ID: id}
}

// Failed builds a failed AddFriendResult
func Failed() AddFriendResult {
	return AddFriendResult{Status: AddFriendFailed}
}

// IsAdded reports whether the friend request went through
func (r AddFriendResult) IsAdded() bool {
	return r.Status == AddFriendAdded
}

// Message is the one-line notification text for the outcome
func (r AddFriendResult) Message() string {
	if r.IsAdded() {
		return "Friend added id: " + r.ID
	}
	return "ERROR: Friend not added"
}
