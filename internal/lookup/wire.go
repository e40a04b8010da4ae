package lookup

import "friendsearch/internal/domain"

// Status values of the backend's JSON objects
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// StatusObject is the JSON shape the backend answers with, e.g.
// {"status":"ok","id":"123","name":"cedric"} or {"status":"error"}
type StatusObject struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// IsOK reports whether the backend accepted the request
func (o StatusObject) IsOK() bool {
	return o.Status == StatusOK
}

// LookupResult converts a find-user answer
func (o StatusObject) LookupResult() domain.LookupResult {
	if !o.IsOK() {
		return domain.NotFound()
	}
	return domain.Found(o.ID, o.Name)
}

// AddFriendResult converts an add-friend answer
func (o StatusObject) AddFriendResult() domain.AddFriendResult {
	if !o.IsOK() {
		return domain.Failed()
	}
	return domain.Added(o.ID)
}

// AddFriendRequest is the body of a friend request
type AddFriendRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FindUserResponse is the canned find-user answer for name
func FindUserResponse(name string) StatusObject {
	switch name {
	case "cedric":
		return StatusObject{Status: StatusOK, ID: "123", Name: "cedric"}
	case "jon":
		return StatusObject{Status: StatusOK, ID: "456", Name: "cedric"}
	default:
		return StatusObject{Status: StatusError}
	}
}

// AddFriendResponse is the canned add-friend answer for user.
// The user is echoed back whatever the outcome.
func AddFriendResponse(user domain.User) StatusObject {
	status := StatusError
	if user.ID == "123" {
		status = StatusOK
	}
	return StatusObject{Status: status, ID: user.ID, Name: user.Name}
}
