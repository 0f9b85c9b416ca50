// Package session owns the authentication lifecycle: the
// login/refresh/logout state machine, token persistence, and the current
// user snapshot the rest of the client reads.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/learnapp/learn-client/internal/api"
	"github.com/learnapp/learn-client/internal/models"
	"github.com/learnapp/learn-client/internal/store"
	"github.com/learnapp/learn-client/internal/wire"
	"github.com/learnapp/learn-client/pkg/logger"
	"go.uber.org/zap"
)

var (
	// ErrNoRefreshToken is returned when a refresh is attempted without a
	// persisted refresh token
	ErrNoRefreshToken = errors.New("no refresh token available")
)

// State is the session's externally visible lifecycle state
type State int

const (
	StateLoggedOut State = iota
	StateAuthInFlight
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateAuthInFlight:
		return "auth_in_flight"
	case StateLoggedIn:
		return "logged_in"
	}
	return "logged_out"
}

// AuthService is the slice of the backend API the session depends on
type AuthService interface {
	RegisterTeacher(ctx context.Context, email, firstName, lastName string) (wire.RegisterResponse, error)
	RequestVerificationCode(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) (wire.TokenResponse, error)
	Login(ctx context.Context, email, password string) (wire.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (wire.TokenResponse, error)
	Me(ctx context.Context) (wire.APIUser, error)
	UpdateMe(ctx context.Context, body wire.UpdateProfileBody) (wire.APIUser, error)
	DeleteMe(ctx context.Context) error
	Logout(ctx context.Context) error
}

// Session is the process-wide authentication state. Exactly one instance
// exists per running client. Auth operations never return errors to the
// caller; failures are captured in LastError and observed through the
// session's fields.
type Session struct {
	auth  AuthService
	store *store.Store

	mu        sync.RWMutex
	loading   bool
	user      *models.User
	lastError string
}

// New creates a session backed by the given auth service and store
func New(auth AuthService, st *store.Store) *Session {
	return &Session{auth: auth, store: st}
}

// State computes the lifecycle state from the loading flag and user snapshot
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loading {
		return StateAuthInFlight
	}
	if s.user != nil {
		return StateLoggedIn
	}
	return StateLoggedOut
}

// CurrentUser returns the logged-in user snapshot, nil when logged out
func (s *Session) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LastError returns the human-readable message of the most recent failed
// auth operation, "" when the last operation succeeded
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// ClearError dismisses the last auth error
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// AccessToken returns the current access token for request construction,
// "" when no session is persisted. Reading at call time means a concurrent
// refresh is picked up by subsequent requests.
func (s *Session) AccessToken() string {
	access, _, _ := s.store.Tokens()
	return access
}

// Bootstrap restores the session at app start from persisted tokens: try
// the current user, fall back to refresh-then-retry. Tokens are not cleared
// on failure; only explicit logout or account deletion clears them.
func (s *Session) Bootstrap(ctx context.Context) {
	access, _, _ := s.store.Tokens()
	if access == "" {
		return
	}

	s.runAuth("bootstrap", func() error {
		user, err := s.auth.Me(ctx)
		if err == nil {
			s.setUser(user)
			return nil
		}

		logger.Debug("Bootstrap user fetch failed, attempting refresh", zap.Error(err))
		if err := s.doRefresh(ctx); err != nil {
			return err
		}

		user, err = s.auth.Me(ctx)
		if err != nil {
			return err
		}
		s.setUser(user)
		return nil
	})
}

// RegisterTeacher creates a teacher account. The returned message is the
// backend's acknowledgement; the session stays logged out until the emailed
// code is verified.
func (s *Session) RegisterTeacher(ctx context.Context, email, firstName, lastName string) string {
	var message string
	s.runAuth("register_teacher", func() error {
		res, err := s.auth.RegisterTeacher(ctx, email, firstName, lastName)
		if err != nil {
			return err
		}
		message = res.Message
		return nil
	})
	return message
}

// RequestVerificationCode asks the backend to mail a login code. This is
// the one auth operation that surfaces its error directly: there is no
// state transition for the session to capture it against.
func (s *Session) RequestVerificationCode(ctx context.Context, email string) error {
	return s.auth.RequestVerificationCode(ctx, email)
}

// VerifyEmailCode exchanges an emailed code for a session
func (s *Session) VerifyEmailCode(ctx context.Context, email, code string) {
	s.runAuth("verify_email_code", func() error {
		res, err := s.auth.Verify(ctx, email, code)
		if err != nil {
			return err
		}
		return s.adoptTokens(res)
	})
}

// LoginWithPassword performs a password login
func (s *Session) LoginWithPassword(ctx context.Context, email, password string) {
	s.runAuth("login", func() error {
		res, err := s.auth.Login(ctx, email, password)
		if err != nil {
			return err
		}
		return s.adoptTokens(res)
	})
}

// Refresh exchanges the persisted refresh token for fresh tokens and
// re-fetches the current user
func (s *Session) Refresh(ctx context.Context) {
	s.runAuth("refresh", func() error {
		if err := s.doRefresh(ctx); err != nil {
			return err
		}
		user, err := s.auth.Me(ctx)
		if err != nil {
			return err
		}
		s.setUser(user)
		return nil
	})
}

// UpdateProfile replaces the profile server-side and adopts the returned
// user snapshot
func (s *Session) UpdateProfile(ctx context.Context, body wire.UpdateProfileBody) {
	s.runAuth("update_profile", func() error {
		user, err := s.auth.UpdateMe(ctx, body)
		if err != nil {
			return err
		}
		s.setUser(user)
		return nil
	})
}

// ChangePassword sets a new password for the current account
func (s *Session) ChangePassword(ctx context.Context, newPassword string) {
	s.UpdateProfile(ctx, wire.UpdateProfileBody{Password: &newPassword})
}

// Logout invalidates the session server-side on a best-effort basis and
// always clears local state; logout never fails from the caller's view
func (s *Session) Logout(ctx context.Context) {
	s.runAuth("logout", func() error {
		if err := s.auth.Logout(ctx); err != nil {
			logger.Warn("Server-side logout failed, clearing local state anyway", zap.Error(err))
		}
		s.clearLocal()
		return nil
	})
}

// DeleteAccount deletes the account server-side. Local state is cleared
// only on confirmed success; the server deletion is the authoritative
// action.
func (s *Session) DeleteAccount(ctx context.Context) {
	s.runAuth("delete_account", func() error {
		if err := s.auth.DeleteMe(ctx); err != nil {
			return err
		}
		s.clearLocal()
		return nil
	})
}

// runAuth is the shared transition wrapper: set the loading flag, clear it
// via defer even when fn fails, and capture any error as the session's last
// auth error instead of propagating it
func (s *Session) runAuth(operation string, fn func() error) {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if err := fn(); err != nil {
		logger.Warn("Auth operation failed",
			zap.String("operation", operation),
			zap.Error(err))
		s.mu.Lock()
		s.lastError = humanize(err)
		s.mu.Unlock()
	}
}

// doRefresh performs the token exchange without touching the loading flag,
// so it can run inside another transition
func (s *Session) doRefresh(ctx context.Context) error {
	_, refresh, _ := s.store.Tokens()
	if refresh == "" {
		return ErrNoRefreshToken
	}
	res, err := s.auth.Refresh(ctx, refresh)
	if err != nil {
		return err
	}
	return s.persistTokens(res)
}

// adoptTokens persists a token response and installs its user snapshot
func (s *Session) adoptTokens(res wire.TokenResponse) error {
	if err := s.persistTokens(res); err != nil {
		return err
	}
	s.setUser(res.User)
	return nil
}

// persistTokens stores the token triple; expiry is computed from expires_in
// when present, absent otherwise
func (s *Session) persistTokens(res wire.TokenResponse) error {
	var expiresAt *time.Time
	if res.ExpiresIn != nil {
		t := time.Now().Add(time.Duration(*res.ExpiresIn) * time.Second)
		expiresAt = &t
	}
	return s.store.SetTokens(res.AccessToken, res.RefreshToken, expiresAt)
}

func (s *Session) setUser(u wire.APIUser) {
	user := models.UserFromAPI(u)
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
}

func (s *Session) clearLocal() {
	if err := s.store.ClearTokens(); err != nil {
		logger.Warn("Failed to clear persisted tokens", zap.Error(err))
	}
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// humanize prefers the extracted backend message over Go error formatting
func humanize(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
