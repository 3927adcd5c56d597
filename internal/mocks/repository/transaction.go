// Package repository provides testify mocks for the repository interfaces.
package repository

import (
	"context"
	"testing"

	"contacts/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager mocks repository.TransactionManager.
// When the expectation returns a RepositoryFactory, Execute runs fn against it and returns fn's error.
type MockTransactionManager struct {
	mock.Mock
}

func NewMockTransactionManager(t *testing.T) *MockTransactionManager {
	m := &MockTransactionManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)
	if factory, ok := args.Get(0).(repository.RepositoryFactory); ok {
		return fn(factory)
	}

	return args.Error(0)
}

// MockRepositoryFactory mocks repository.RepositoryFactory.
type MockRepositoryFactory struct {
	mock.Mock
}

func NewMockRepositoryFactory(t *testing.T) *MockRepositoryFactory {
	m := &MockRepositoryFactory{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRepositoryFactory) NewUserRepository() repository.UserRepository {
	return m.Called().Get(0).(repository.UserRepository)
}

func (m *MockRepositoryFactory) NewSessionRepository() repository.SessionRepository {
	return m.Called().Get(0).(repository.SessionRepository)
}

func (m *MockRepositoryFactory) NewPasswordResetRepository() repository.PasswordResetRepository {
	return m.Called().Get(0).(repository.PasswordResetRepository)
}

func (m *MockRepositoryFactory) NewContactRepository() repository.ContactRepository {
	return m.Called().Get(0).(repository.ContactRepository)
}
