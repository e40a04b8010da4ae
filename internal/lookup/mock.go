package lookup

import (
	"context"
	"time"

	"friendsearch/internal/domain"
)

// DefaultMockLatency is how long MockService.FindUser takes to answer
const DefaultMockLatency = time.Second

// MockService is an in-process backend with two known users.
// "jon" resolves with the name "cedric"; that is canned mock data.
type MockService struct {
	latency time.Duration
}

// NewMockService creates a mock backend that answers searches after latency
func NewMockService(latency time.Duration) *MockService {
	return &MockService{latency: latency}
}

// FindUser resolves "cedric" and "jon", and NotFound for everything else
func (m *MockService) FindUser(ctx context.Context, name string) (domain.LookupResult, error) {
	result := FindUserResponse(name)

	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return domain.NotFound(), ctx.Err()
		}
	}

	return result.LookupResult(), nil
}

// AddFriend succeeds only for user id 123
func (m *MockService) AddFriend(ctx context.Context, user domain.User) (domain.AddFriendResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.Failed(), err
	}
	return AddFriendResponse(user).AddFriendResult(), nil
}
