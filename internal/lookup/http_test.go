package lookup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendsearch/internal/domain"
)

func newTestService(url string, retries int) *HTTPService {
	return NewHTTPService(url, HTTPOptions{
		Timeout:     time.Second,
		MaxRetries:  retries,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
	}, zerolog.Nop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestHTTPFindUserDecodesStatusObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		writeJSON(t, w, http.StatusOK, FindUserResponse(r.URL.Query().Get("name")))
	}))
	defer srv.Close()

	svc := newTestService(srv.URL, 0)

	got, err := svc.FindUser(context.Background(), "jon")
	require.NoError(t, err)
	assert.Equal(t, domain.Found("456", "cedric"), got)

	got, err = svc.FindUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, domain.NotFound(), got)
}

func TestHTTPAddFriendPostsUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body AddFriendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, http.StatusOK, AddFriendResponse(domain.User{ID: body.ID, Name: body.Name}))
	}))
	defer srv.Close()

	svc := newTestService(srv.URL, 0)

	got, err := svc.AddFriend(context.Background(), domain.User{ID: "123", Name: "cedric"})
	require.NoError(t, err)
	assert.Equal(t, domain.Added("123"), got)

	got, err = svc.AddFriend(context.Background(), domain.User{ID: "456", Name: "cedric"})
	require.NoError(t, err)
	assert.Equal(t, domain.Failed(), got)
}

func TestHTTPRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get(RequestIDHeader))
		mu.Unlock()
		if calls.Add(1) < 3 {
			writeJSON(t, w, http.StatusServiceUnavailable, map[string]string{"error": "busy"})
			return
		}
		writeJSON(t, w, http.StatusOK, FindUserResponse("cedric"))
	}))
	defer srv.Close()

	got, err := newTestService(srv.URL, 3).FindUser(context.Background(), "cedric")
	require.NoError(t, err)
	assert.True(t, got.IsFound())
	assert.Equal(t, int32(3), calls.Load())
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[2], "retries reuse the request id")
}

func TestHTTPDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "bad"})
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL, 5).FindUser(context.Background(), "cedric")
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.False(t, IsRecoverable(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"error": "down"})
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL, 2).AddFriend(context.Background(), domain.User{ID: "123"})
	require.Error(t, err)
	assert.True(t, IsRecoverable(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPNegativeRetriesMeansSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusServiceUnavailable, map[string]string{"error": "down"})
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := newTestService(srv.URL, -1).FindUser(ctx, "cedric")
	require.Error(t, err)
	assert.True(t, IsRecoverable(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRecoverableClassification(t *testing.T) {
	assert.True(t, (&HTTPError{StatusCode: 429}).Recoverable())
	assert.True(t, (&HTTPError{StatusCode: 408}).Recoverable())
	assert.True(t, (&HTTPError{StatusCode: 502}).Recoverable())
	assert.False(t, (&HTTPError{StatusCode: 404}).Recoverable())
	assert.False(t, IsRecoverable(nil))
}
