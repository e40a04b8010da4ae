// Package mockserver serves the canned lookup backend over HTTP.
package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"friendsearch/internal/domain"
	"friendsearch/internal/lookup"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "friendsearch_backend",
			Name:      "requests_total",
			Help:      "Requests served by the mock backend.",
		},
		[]string{"route", "code"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "friendsearch_backend",
			Name:      "request_duration_seconds",
			Help:      "Time to answer a request, including the simulated latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// Server is the HTTP face of the mock backend
type Server struct {
	router  *mux.Router
	latency time.Duration
	logger  zerolog.Logger
}

// New creates a server whose user searches take latency to answer
func New(latency time.Duration, logger zerolog.Logger) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		latency: latency,
		logger:  logger.With().Str("component", "mockserver").Logger(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestID, s.accessLog)
	s.router.HandleFunc("/users", s.handleFindUser).Methods(http.MethodGet).Name("find_user")
	s.router.HandleFunc("/friends", s.handleAddFriend).Methods(http.MethodPost).Name("add_friend")
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet).Name("healthz")
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("metrics")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("mock backend listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleFindUser(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, s.logger, http.StatusBadRequest, "name is required")
		return
	}

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-r.Context().Done():
			return
		}
	}

	writeJSON(w, s.logger, http.StatusOK, lookup.FindUserResponse(name))
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req lookup.AddFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		writeError(w, s.logger, http.StatusBadRequest, "id is required")
		return
	}

	writeJSON(w, s.logger, http.StatusOK, lookup.AddFriendResponse(domain.User{ID: req.ID, Name: req.Name}))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, lookup.StatusObject{Status: lookup.StatusOK})
}

// requestID makes sure every request and response carries an X-Request-ID
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(lookup.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(lookup.RequestIDHeader, id)
		}
		w.Header().Set(lookup.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unknown"
		if current := mux.CurrentRoute(r); current != nil && current.GetName() != "" {
			route = current.GetName()
		}
		elapsed := time.Since(start)
		requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Str("request_id", r.Header.Get(lookup.RequestIDHeader)).
			Msg("request")
	})
}
