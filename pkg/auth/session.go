package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/growmygarden/verdant/pkg/core"
)

// Session holds the current user and publishes status transitions.
// It implements core.UserScope for the persistence layer.
type Session struct {
	logger *slog.Logger

	mu     sync.RWMutex
	userID string
	active bool

	reporter *Reporter
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a signed-out session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{reporter: NewReporter(StatusUninitialized)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login records a successful sign-in for userID.
func (s *Session) Login(userID string) {
	s.mu.Lock()
	s.userID = userID
	s.active = true
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("user signed in", "user", userID)
	}
	s.reporter.Publish(StatusAuthenticated)
}

// Fail records a failed sign-in attempt, classified from err. The
// current user, if any, stays signed in.
func (s *Session) Fail(err error) Status {
	status := Classify(err)
	if s.logger != nil {
		s.logger.Warn("sign-in failed", "status", string(status), "error", err)
	}
	s.reporter.Publish(status)
	return status
}

// Logout clears the current user.
func (s *Session) Logout() {
	s.mu.Lock()
	s.userID = ""
	s.active = false
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("user signed out")
	}
	s.reporter.Publish(StatusSignedOut)
}

// CurrentUserID implements core.UserScope.
func (s *Session) CurrentUserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.active
}

// Statuses returns the conflated status stream. See Reporter.Statuses.
func (s *Session) Statuses(ctx context.Context) <-chan Status {
	return s.reporter.Statuses(ctx)
}

// Status returns the most recently published status.
func (s *Session) Status() Status {
	return s.reporter.Last()
}

var _ core.UserScope = (*Session)(nil)
