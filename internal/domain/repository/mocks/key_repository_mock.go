package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/mrsa/internal/domain/models"
	"github.com/turtacn/mrsa/pkg/constants"
)

// MockKeyRepository is a mock implementation of KeyRepository
type MockKeyRepository struct {
	mock.Mock
}

func (m *MockKeyRepository) Create(ctx context.Context, key *models.KeyRecord) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockKeyRepository) GetByID(ctx context.Context, id string) (*models.KeyRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KeyRecord), args.Error(1)
}

func (m *MockKeyRepository) List(ctx context.Context) ([]*models.KeyRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.KeyRecord), args.Error(1)
}

func (m *MockKeyRepository) UpdateStatus(ctx context.Context, id string, status constants.KeyStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockKeyRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
