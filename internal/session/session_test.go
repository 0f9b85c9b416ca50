package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/learnapp/learn-client/internal/api"
	"github.com/learnapp/learn-client/internal/session"
	"github.com/learnapp/learn-client/internal/store"
	"github.com/learnapp/learn-client/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*session.Session, *MockAuthService, *store.Store) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "state.json"))
	auth := new(MockAuthService)
	return session.New(auth, st), auth, st
}

func testTokenResponse() wire.TokenResponse {
	refresh := "rt-1"
	expiresIn := 3600
	return wire.TokenResponse{
		AccessToken:  "at-1",
		RefreshToken: &refresh,
		ExpiresIn:    &expiresIn,
		User: wire.APIUser{
			ID:    4,
			Email: "teacher@example.com",
		},
	}
}

func TestSession_InitialStateLoggedOut(t *testing.T) {
	sess, _, _ := newTestSession(t)
	assert.Equal(t, session.StateLoggedOut, sess.State())
	assert.Nil(t, sess.CurrentUser())
	assert.Empty(t, sess.AccessToken())
}

func TestSession_LoginSuccess(t *testing.T) {
	sess, auth, st := newTestSession(t)
	auth.On("Login", mock.Anything, "teacher@example.com", "secret").
		Return(testTokenResponse(), nil)

	sess.LoginWithPassword(context.Background(), "teacher@example.com", "secret")

	assert.Equal(t, session.StateLoggedIn, sess.State())
	assert.Empty(t, sess.LastError())

	user := sess.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, 4, user.ID)

	access, refresh, expiresAt := st.Tokens()
	assert.Equal(t, "at-1", access)
	assert.Equal(t, "rt-1", refresh)
	require.NotNil(t, expiresAt)

	auth.AssertExpectations(t)
}

func TestSession_LoginFailureCapturedNotThrown(t *testing.T) {
	sess, auth, st := newTestSession(t)
	auth.On("Login", mock.Anything, "teacher@example.com", "wrong").
		Return(wire.TokenResponse{}, &api.APIError{Status: 401, Message: "Invalid credentials"})

	sess.LoginWithPassword(context.Background(), "teacher@example.com", "wrong")

	// Loading is cleared even on failure, and the backend message is
	// surfaced through the error field
	assert.Equal(t, session.StateLoggedOut, sess.State())
	assert.Equal(t, "Invalid credentials", sess.LastError())

	access, _, _ := st.Tokens()
	assert.Empty(t, access)
}

func TestSession_NextOperationClearsLastError(t *testing.T) {
	sess, auth, _ := newTestSession(t)
	auth.On("Login", mock.Anything, "a@b.c", "wrong").
		Return(wire.TokenResponse{}, errors.New("boom")).Once()
	auth.On("Login", mock.Anything, "a@b.c", "right").
		Return(testTokenResponse(), nil).Once()

	sess.LoginWithPassword(context.Background(), "a@b.c", "wrong")
	assert.NotEmpty(t, sess.LastError())

	sess.LoginWithPassword(context.Background(), "a@b.c", "right")
	assert.Empty(t, sess.LastError())
	assert.Equal(t, session.StateLoggedIn, sess.State())
}

func TestSession_RefreshWithoutTokenFails(t *testing.T) {
	sess, auth, _ := newTestSession(t)

	sess.Refresh(context.Background())

	assert.Equal(t, session.StateLoggedOut, sess.State())
	assert.Equal(t, session.ErrNoRefreshToken.Error(), sess.LastError())
	auth.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestSession_RefreshSuccessRefetchesUser(t *testing.T) {
	sess, auth, st := newTestSession(t)
	refresh := "rt-old"
	require.NoError(t, st.SetTokens("at-old", &refresh, nil))

	auth.On("Refresh", mock.Anything, "rt-old").Return(testTokenResponse(), nil)
	auth.On("Me", mock.Anything).Return(wire.APIUser{ID: 4, Email: "teacher@example.com"}, nil)

	sess.Refresh(context.Background())

	assert.Equal(t, session.StateLoggedIn, sess.State())
	access, gotRefresh, _ := st.Tokens()
	assert.Equal(t, "at-1", access)
	assert.Equal(t, "rt-1", gotRefresh)
	auth.AssertExpectations(t)
}

func TestSession_BootstrapWithoutTokensDoesNothing(t *testing.T) {
	sess, auth, _ := newTestSession(t)

	sess.Bootstrap(context.Background())

	assert.Equal(t, session.StateLoggedOut, sess.State())
	auth.AssertNotCalled(t, "Me", mock.Anything)
}

func TestSession_BootstrapRecoversViaRefresh(t *testing.T) {
	sess, auth, st := newTestSession(t)
	refresh := "rt-old"
	require.NoError(t, st.SetTokens("at-stale", &refresh, nil))

	auth.On("Me", mock.Anything).
		Return(wire.APIUser{}, &api.APIError{Status: 401, Message: "token expired"}).Once()
	auth.On("Refresh", mock.Anything, "rt-old").Return(testTokenResponse(), nil).Once()
	auth.On("Me", mock.Anything).
		Return(wire.APIUser{ID: 4, Email: "teacher@example.com"}, nil).Once()

	sess.Bootstrap(context.Background())

	assert.Equal(t, session.StateLoggedIn, sess.State())
	assert.Empty(t, sess.LastError())
	auth.AssertExpectations(t)
}

func TestSession_BootstrapFailureKeepsTokens(t *testing.T) {
	sess, auth, st := newTestSession(t)
	refresh := "rt-old"
	require.NoError(t, st.SetTokens("at-stale", &refresh, nil))

	authErr := &api.APIError{Status: 401, Message: "token expired"}
	auth.On("Me", mock.Anything).Return(wire.APIUser{}, authErr)
	auth.On("Refresh", mock.Anything, "rt-old").Return(wire.TokenResponse{}, authErr)

	sess.Bootstrap(context.Background())

	// Only explicit logout or account deletion clears persisted tokens
	assert.Equal(t, session.StateLoggedOut, sess.State())
	access, gotRefresh, _ := st.Tokens()
	assert.Equal(t, "at-stale", access)
	assert.Equal(t, "rt-old", gotRefresh)
}

func TestSession_LogoutAlwaysClearsLocally(t *testing.T) {
	sess, auth, st := newTestSession(t)
	auth.On("Login", mock.Anything, "a@b.c", "pw").Return(testTokenResponse(), nil)
	sess.LoginWithPassword(context.Background(), "a@b.c", "pw")
	require.Equal(t, session.StateLoggedIn, sess.State())

	auth.On("Logout", mock.Anything).Return(errors.New("server unreachable"))

	sess.Logout(context.Background())

	assert.Equal(t, session.StateLoggedOut, sess.State())
	assert.Empty(t, sess.LastError())
	access, refresh, _ := st.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestSession_DeleteAccountClearsOnlyOnSuccess(t *testing.T) {
	sess, auth, st := newTestSession(t)
	auth.On("Login", mock.Anything, "a@b.c", "pw").Return(testTokenResponse(), nil)
	sess.LoginWithPassword(context.Background(), "a@b.c", "pw")

	auth.On("DeleteMe", mock.Anything).
		Return(&api.APIError{Status: 500, Message: "try later"}).Once()

	sess.DeleteAccount(context.Background())

	// Failed deletion keeps the session intact
	assert.Equal(t, session.StateLoggedIn, sess.State())
	assert.Equal(t, "try later", sess.LastError())
	access, _, _ := st.Tokens()
	assert.Equal(t, "at-1", access)

	auth.On("DeleteMe", mock.Anything).Return(nil).Once()

	sess.DeleteAccount(context.Background())

	assert.Equal(t, session.StateLoggedOut, sess.State())
	access, _, _ = st.Tokens()
	assert.Empty(t, access)
}

func TestSession_VerifyEmailCode(t *testing.T) {
	sess, auth, _ := newTestSession(t)
	auth.On("Verify", mock.Anything, "a@b.c", "123456").Return(testTokenResponse(), nil)

	sess.VerifyEmailCode(context.Background(), "a@b.c", "123456")

	assert.Equal(t, session.StateLoggedIn, sess.State())
	auth.AssertExpectations(t)
}

func TestSession_UpdateProfileReplacesUser(t *testing.T) {
	sess, auth, _ := newTestSession(t)
	auth.On("Login", mock.Anything, "a@b.c", "pw").Return(testTokenResponse(), nil)
	sess.LoginWithPassword(context.Background(), "a@b.c", "pw")

	first := "Mina"
	auth.On("UpdateMe", mock.Anything, mock.Anything).
		Return(wire.APIUser{ID: 4, Email: "a@b.c", FirstName: &first}, nil)

	sess.UpdateProfile(context.Background(), wire.UpdateProfileBody{FirstName: &first})

	user := sess.CurrentUser()
	require.NotNil(t, user)
	require.NotNil(t, user.FirstName)
	assert.Equal(t, "Mina", *user.FirstName)
}

func TestSession_RegisterTeacherReturnsMessage(t *testing.T) {
	sess, auth, _ := newTestSession(t)
	auth.On("RegisterTeacher", mock.Anything, "a@b.c", "Mina", "Park").
		Return(wire.RegisterResponse{Message: "verification code sent"}, nil)

	msg := sess.RegisterTeacher(context.Background(), "a@b.c", "Mina", "Park")

	assert.Equal(t, "verification code sent", msg)
	assert.Equal(t, session.StateLoggedOut, sess.State())
}
