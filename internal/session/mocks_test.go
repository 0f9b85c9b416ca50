package session_test

import (
	"context"

	"github.com/learnapp/learn-client/internal/wire"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a testify mock of the backend auth API
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RegisterTeacher(ctx context.Context, email, firstName, lastName string) (wire.RegisterResponse, error) {
	args := m.Called(ctx, email, firstName, lastName)
	return args.Get(0).(wire.RegisterResponse), args.Error(1)
}

func (m *MockAuthService) RequestVerificationCode(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) Verify(ctx context.Context, email, code string) (wire.TokenResponse, error) {
	args := m.Called(ctx, email, code)
	return args.Get(0).(wire.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (wire.TokenResponse, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(wire.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (wire.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(wire.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context) (wire.APIUser, error) {
	args := m.Called(ctx)
	return args.Get(0).(wire.APIUser), args.Error(1)
}

func (m *MockAuthService) UpdateMe(ctx context.Context, body wire.UpdateProfileBody) (wire.APIUser, error) {
	args := m.Called(ctx, body)
	return args.Get(0).(wire.APIUser), args.Error(1)
}

func (m *MockAuthService) DeleteMe(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
