package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"friendsearch/internal/domain"
)

// RequestIDHeader carries a per-request id to the backend logs
const RequestIDHeader = "X-Request-ID"

// HTTPOptions tunes an HTTPService. MaxRetries counts retries after the first
// attempt; a negative value means no retries.
type HTTPOptions struct {
	Timeout     time.Duration
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// HTTPService talks to the backend over its JSON API
type HTTPService struct {
	client *resty.Client
	opts   HTTPOptions
	logger zerolog.Logger
}

// NewHTTPService creates a client for the backend at baseURL
func NewHTTPService(baseURL string, opts HTTPOptions, logger zerolog.Logger) *HTTPService {
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 100 * time.Millisecond
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 2 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}

	return &HTTPService{
		client: c,
		opts:   opts,
		logger: logger.With().Str("component", "lookup-http").Logger(),
	}
}

// FindUser asks GET /users?name=
func (s *HTTPService) FindUser(ctx context.Context, name string) (domain.LookupResult, error) {
	var obj StatusObject
	err := s.do(ctx, "find user", func(req *resty.Request) (*resty.Response, error) {
		return req.SetQueryParam("name", name).SetResult(&obj).Get("/users")
	})
	if err != nil {
		return domain.NotFound(), err
	}
	return obj.LookupResult(), nil
}

// AddFriend posts the user to POST /friends
func (s *HTTPService) AddFriend(ctx context.Context, user domain.User) (domain.AddFriendResult, error) {
	var obj StatusObject
	body := AddFriendRequest{ID: user.ID, Name: user.Name}
	err := s.do(ctx, "add friend", func(req *resty.Request) (*resty.Response, error) {
		return req.SetBody(&body).SetResult(&obj).Post("/friends")
	})
	if err != nil {
		return domain.Failed(), err
	}
	return obj.AddFriendResult(), nil
}

// do runs send with retries on recoverable failures
func (s *HTTPService) do(ctx context.Context, op string, send func(*resty.Request) (*resty.Response, error)) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.opts.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = s.opts.MaxBackoff
	exp.MaxElapsedTime = 0
	exp.Reset()

	policy := backoff.WithMaxRetries(exp, uint64(s.opts.MaxRetries))

	requestID := uuid.NewString()
	attempt := 0
	operation := func() error {
		attempt++
		resp, err := send(s.client.R().SetContext(ctx).SetHeader(RequestIDHeader, requestID))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return backoff.Permanent(ctxErr)
			}
			return fmt.Errorf("%s network error: %w", op, err)
		}
		if resp.IsError() {
			httpErr := &HTTPError{Op: op, StatusCode: resp.StatusCode(), Body: resp.String()}
			if !httpErr.Recoverable() {
				return backoff.Permanent(httpErr)
			}
			return httpErr
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		s.logger.Warn().Err(err).
			Str("op", op).
			Str("request_id", requestID).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("backend request failed, retrying")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		s.logger.Error().Err(err).Str("op", op).Str("request_id", requestID).Int("attempts", attempt).Msg("backend request failed")
		return err
	}

	s.logger.Debug().Str("op", op).Str("request_id", requestID).Int("attempts", attempt).Msg("backend request done")
	return nil
}
