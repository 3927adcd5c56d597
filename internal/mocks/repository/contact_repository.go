package repository

import (
	"context"
	"testing"

	"contacts/internal/domain/entity"
	"contacts/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockContactRepository mocks repository.ContactRepository.
type MockContactRepository struct {
	mock.Mock
}

func NewMockContactRepository(t *testing.T) *MockContactRepository {
	m := &MockContactRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockContactRepository) List(ctx context.Context, ownerID uuid.UUID, query entity.ContactQuery) ([]*entity.Contact, int64, error) {
	args := m.Called(ctx, ownerID, query)
	contacts, _ := args.Get(0).([]*entity.Contact)

	return contacts, args.Get(1).(int64), args.Error(2)
}

func (m *MockContactRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Contact, error) {
	args := m.Called(ctx, ownerID, id)
	contact, _ := args.Get(0).(*entity.Contact)

	return contact, args.Error(1)
}

func (m *MockContactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *MockContactRepository) Update(ctx context.Context, ownerID, id uuid.UUID, patch repository.ContactPatch) (*entity.Contact, error) {
	args := m.Called(ctx, ownerID, id, patch)
	contact, _ := args.Get(0).(*entity.Contact)

	return contact, args.Error(1)
}

func (m *MockContactRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) (*entity.Contact, error) {
	args := m.Called(ctx, ownerID, id)
	contact, _ := args.Get(0).(*entity.Contact)

	return contact, args.Error(1)
}

// MockHealthChecker mocks repository.HealthChecker.
type MockHealthChecker struct {
	mock.Mock
}

func NewMockHealthChecker(t *testing.T) *MockHealthChecker {
	m := &MockHealthChecker{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
