// Package lookup holds the backend collaborator of the search pipeline:
// finding a user by name and sending a friend request.
package lookup

import (
	"context"

	"friendsearch/internal/domain"
)

// Service is the backend the coordinator searches against.
// A "not found" or "failed" answer is a normal result, not an error;
// errors are reserved for transport problems and cancellation.
type Service interface {
	FindUser(ctx context.Context, name string) (domain.LookupResult, error)
	AddFriend(ctx context.Context, user domain.User) (domain.AddFriendResult, error)
}
