// Package service provides testify mocks for the domain service interfaces.
package service

import (
	"context"
	"testing"
	"time"

	"contacts/internal/domain/service"

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

// MockPasswordHasher mocks service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	register(t, m)

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

// MockTokenService mocks service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	register(t, m)

	return m
}

func (m *MockTokenService) IssuePair(userID uuid.UUID, now time.Time) (*service.TokenPair, error) {
	args := m.Called(userID, now)
	pair, _ := args.Get(0).(*service.TokenPair)

	return pair, args.Error(1)
}

func (m *MockTokenService) ValidateAccessToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) RefreshTokenTTL() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

// MockOAuthService mocks service.OAuthService.
type MockOAuthService struct {
	mock.Mock
}

func NewMockOAuthService(t *testing.T) *MockOAuthService {
	m := &MockOAuthService{}
	register(t, m)

	return m
}

func (m *MockOAuthService) AuthURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockOAuthService) ValidateState(state string) bool {
	return m.Called(state).Bool(0)
}

func (m *MockOAuthService) Exchange(ctx context.Context, code string) (*service.OAuthUser, error) {
	args := m.Called(ctx, code)
	user, _ := args.Get(0).(*service.OAuthUser)

	return user, args.Error(1)
}

// MockEmailSender mocks service.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func NewMockEmailSender(t *testing.T) *MockEmailSender {
	m := &MockEmailSender{}
	register(t, m)

	return m
}

func (m *MockEmailSender) Send(ctx context.Context, msg *service.EmailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

// MockMailTemplates mocks service.MailTemplates.
type MockMailTemplates struct {
	mock.Mock
}

func NewMockMailTemplates(t *testing.T) *MockMailTemplates {
	m := &MockMailTemplates{}
	register(t, m)

	return m
}

func (m *MockMailTemplates) ResetPassword(data service.ResetPasswordMail) (string, error) {
	args := m.Called(data)

	return args.String(0), args.Error(1)
}

// MockPhotoStorage mocks service.PhotoStorage.
type MockPhotoStorage struct {
	mock.Mock
}

func NewMockPhotoStorage(t *testing.T) *MockPhotoStorage {
	m := &MockPhotoStorage{}
	register(t, m)

	return m
}

func (m *MockPhotoStorage) Save(ctx context.Context, folder string, upload *service.PhotoUpload) (string, error) {
	args := m.Called(ctx, folder, upload)

	return args.String(0), args.Error(1)
}

// MockSessionMetrics mocks service.SessionMetrics.
type MockSessionMetrics struct {
	mock.Mock
}

func NewMockSessionMetrics(t *testing.T) *MockSessionMetrics {
	m := &MockSessionMetrics{}
	register(t, m)

	return m
}

func (m *MockSessionMetrics) SessionCreated() {
	m.Called()
}

func (m *MockSessionMetrics) SessionsPurged(n int64) {
	m.Called(n)
}
