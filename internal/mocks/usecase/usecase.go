// Package usecase provides testify mocks for the usecase interfaces.
package usecase

import (
	"context"
	"testing"

	"contacts/internal/domain/entity"
	"contacts/internal/domain/service"
	"contacts/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func register(t *testing.T, m interface {
	Test(mock.TestingT)
	AssertExpectations(mock.TestingT) bool
}) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockAuthUsecase mocks usecase.AuthUsecase.
type MockAuthUsecase struct {
	mock.Mock
}

func NewMockAuthUsecase(t *testing.T) *MockAuthUsecase {
	m := &MockAuthUsecase{}
	register(t, m)

	return m
}

func (m *MockAuthUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	args := m.Called(ctx, input)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.SessionOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.SessionOutput)

	return out, args.Error(1)
}

func (m *MockAuthUsecase) Refresh(ctx context.Context, refreshToken string) (*usecase.SessionOutput, error) {
	args := m.Called(ctx, refreshToken)
	out, _ := args.Get(0).(*usecase.SessionOutput)

	return out, args.Error(1)
}

func (m *MockAuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockAuthUsecase) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	args := m.Called(ctx, accessToken)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockAuthUsecase) Current(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockAuthUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	args := m.Called(ctx, userID, input)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockAuthUsecase) UpdateAvatar(ctx context.Context, userID uuid.UUID, upload *service.PhotoUpload) (*entity.User, error) {
	args := m.Called(ctx, userID, upload)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockAuthUsecase) GoogleAuthURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)

	return args.String(0), args.Error(1)
}

func (m *MockAuthUsecase) GoogleLogin(ctx context.Context, code, state string) (*usecase.SessionOutput, error) {
	args := m.Called(ctx, code, state)
	out, _ := args.Get(0).(*usecase.SessionOutput)

	return out, args.Error(1)
}

// MockSessionStore mocks usecase.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func NewMockSessionStore(t *testing.T) *MockSessionStore {
	m := &MockSessionStore{}
	register(t, m)

	return m
}

func (m *MockSessionStore) CreateSession(ctx context.Context, userID uuid.UUID, pair *service.TokenPair) (*entity.Session, error) {
	args := m.Called(ctx, userID, pair)
	session, _ := args.Get(0).(*entity.Session)

	return session, args.Error(1)
}

func (m *MockSessionStore) RotateSession(ctx context.Context, refreshToken string, userID uuid.UUID, pair *service.TokenPair) (*entity.Session, error) {
	args := m.Called(ctx, refreshToken, userID, pair)
	session, _ := args.Get(0).(*entity.Session)

	return session, args.Error(1)
}

func (m *MockSessionStore) FindByRefreshToken(ctx context.Context, refreshToken string) (*entity.Session, error) {
	args := m.Called(ctx, refreshToken)
	session, _ := args.Get(0).(*entity.Session)

	return session, args.Error(1)
}

func (m *MockSessionStore) FindActiveByAccessToken(ctx context.Context, userID uuid.UUID, accessToken string) (*entity.Session, error) {
	args := m.Called(ctx, userID, accessToken)
	session, _ := args.Get(0).(*entity.Session)

	return session, args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockSessionStore) DeleteAllSessionsForUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockSessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

// MockPasswordUsecase mocks usecase.PasswordUsecase.
type MockPasswordUsecase struct {
	mock.Mock
}

func NewMockPasswordUsecase(t *testing.T) *MockPasswordUsecase {
	m := &MockPasswordUsecase{}
	register(t, m)

	return m
}

func (m *MockPasswordUsecase) RequestReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockPasswordUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

// MockContactUsecase mocks usecase.ContactUsecase.
type MockContactUsecase struct {
	mock.Mock
}

func NewMockContactUsecase(t *testing.T) *MockContactUsecase {
	m := &MockContactUsecase{}
	register(t, m)

	return m
}

func (m *MockContactUsecase) List(ctx context.Context, ownerID uuid.UUID, input *usecase.ListContactsInput) (*entity.ContactPage, error) {
	args := m.Called(ctx, ownerID, input)
	page, _ := args.Get(0).(*entity.ContactPage)

	return page, args.Error(1)
}

func (m *MockContactUsecase) Get(ctx context.Context, ownerID, contactID uuid.UUID) (*entity.Contact, error) {
	args := m.Called(ctx, ownerID, contactID)
	contact, _ := args.Get(0).(*entity.Contact)

	return contact, args.Error(1)
}

func (m *MockContactUsecase) Create(ctx context.Context, ownerID uuid.UUID, input *usecase.CreateContactInput) (*entity.Contact, error) {
	args := m.Called(ctx, ownerID, input)
	contact, _ := args.Get(0).(*entity.Contact)

	return contact, args.Error(1)
}

func (m *MockContactUsecase) Update(ctx context.Context, ownerID, contactID uuid.UUID, input *usecase.UpdateContactInput) (*entity.Contact, error) {
	args := m.Called(ctx, ownerID, contactID, input)
	contact, _ := args.Get(0).(*entity.Contact)

	return contact, args.Error(1)
}

func (m *MockContactUsecase) Delete(ctx context.Context, ownerID, contactID uuid.UUID) error {
	return m.Called(ctx, ownerID, contactID).Error(0)
}

// MockHealthUsecase mocks usecase.HealthUsecase.
type MockHealthUsecase struct {
	mock.Mock
}

func NewMockHealthUsecase(t *testing.T) *MockHealthUsecase {
	m := &MockHealthUsecase{}
	register(t, m)

	return m
}

func (m *MockHealthUsecase) Check(ctx context.Context) *usecase.HealthStatus {
	status, _ := m.Called(ctx).Get(0).(*usecase.HealthStatus)

	return status
}
