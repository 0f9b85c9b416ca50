package api

import (
	"context"
	"net/http"

	"github.com/learnapp/learn-client/internal/wire"
)

// AuthAPI wraps the account and token endpoints
type AuthAPI struct {
	client *Client
}

// NewAuthAPI creates the auth endpoint group
func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

// RegisterTeacher creates a teacher account. The backend mails a
// verification code as a side effect.
func (a *AuthAPI) RegisterTeacher(ctx context.Context, email, firstName, lastName string) (wire.RegisterResponse, error) {
	body := wire.RegisterTeacherRequest{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
	return Send[wire.RegisterResponse](ctx, a.client, http.MethodPost, "/api/auth/register-teacher", nil, body)
}

// RequestVerificationCode asks the backend to mail a login code
func (a *AuthAPI) RequestVerificationCode(ctx context.Context, email string) error {
	body := wire.VerificationCodeRequest{Email: email}
	_, err := Send[NoContent](ctx, a.client, http.MethodPost, "/api/auth/verification-code", nil, body)
	return err
}

// Verify exchanges an emailed code for tokens
func (a *AuthAPI) Verify(ctx context.Context, email, code string) (wire.TokenResponse, error) {
	body := wire.VerifyRequest{Email: email, Code: code}
	return Send[wire.TokenResponse](ctx, a.client, http.MethodPost, "/api/auth/verify", nil, body)
}

// Login performs a password login
func (a *AuthAPI) Login(ctx context.Context, email, password string) (wire.TokenResponse, error) {
	body := wire.LoginRequest{Email: email, Password: password}
	return Send[wire.TokenResponse](ctx, a.client, http.MethodPost, "/api/auth/login", nil, body)
}

// Refresh exchanges a refresh token for fresh tokens
func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (wire.TokenResponse, error) {
	body := wire.RefreshRequest{RefreshToken: refreshToken}
	return Send[wire.TokenResponse](ctx, a.client, http.MethodPost, "/api/auth/refresh", nil, body)
}

// Me fetches the current user
func (a *AuthAPI) Me(ctx context.Context) (wire.APIUser, error) {
	return Send[wire.APIUser](ctx, a.client, http.MethodGet, "/api/auth/me", nil, nil)
}

// UpdateMe replaces the current user's profile. The endpoint has
// whole-object semantics, so the body marshals unset fields as explicit
// nulls.
func (a *AuthAPI) UpdateMe(ctx context.Context, body wire.UpdateProfileBody) (wire.APIUser, error) {
	return Send[wire.APIUser](ctx, a.client, http.MethodPut, "/api/auth/me", nil, body)
}

// ChangePassword sets a new password, leaving every other profile field
// untouched on the server
func (a *AuthAPI) ChangePassword(ctx context.Context, newPassword string) (wire.APIUser, error) {
	return a.UpdateMe(ctx, wire.UpdateProfileBody{Password: &newPassword})
}

// DeleteMe deletes the current account
func (a *AuthAPI) DeleteMe(ctx context.Context) error {
	_, err := Send[NoContent](ctx, a.client, http.MethodDelete, "/api/auth/me", nil, nil)
	return err
}

// Logout invalidates the session server-side
func (a *AuthAPI) Logout(ctx context.Context) error {
	_, err := Send[NoContent](ctx, a.client, http.MethodPost, "/api/auth/logout", nil, nil)
	return err
}
