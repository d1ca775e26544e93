package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/mrsa/internal/domain/models"
	"github.com/turtacn/mrsa/pkg/mrsa"
)

// MockKeyGenerator is a mock implementation of KeyGenerator
type MockKeyGenerator struct {
	mock.Mock
}

func (m *MockKeyGenerator) GenerateKey(ctx context.Context) (*mrsa.Key, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mrsa.Key), args.Error(1)
}

// MockKeyManagementService is a mock implementation of KeyManagementService
type MockKeyManagementService struct {
	mock.Mock
}

func (m *MockKeyManagementService) GenerateKey(ctx context.Context, label string) (*models.KeyInfo, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KeyInfo), args.Error(1)
}

func (m *MockKeyManagementService) GenerateKeys(ctx context.Context, label string, count int) ([]models.KeyInfo, error) {
	args := m.Called(ctx, label, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.KeyInfo), args.Error(1)
}

func (m *MockKeyManagementService) GetKey(ctx context.Context, id string) (*models.KeyInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KeyInfo), args.Error(1)
}

func (m *MockKeyManagementService) ListKeys(ctx context.Context) ([]models.KeyInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.KeyInfo), args.Error(1)
}

func (m *MockKeyManagementService) RevokeKey(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockKeyManagementService) KeyEvents(ctx context.Context, id string) ([]models.AuditEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditEvent), args.Error(1)
}

func (m *MockKeyManagementService) Encrypt(ctx context.Context, id string, msg uint64) (uint64, error) {
	args := m.Called(ctx, id, msg)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockKeyManagementService) Decrypt(ctx context.Context, id string, c uint64) (uint64, error) {
	args := m.Called(ctx, id, c)
	return args.Get(0).(uint64), args.Error(1)
}
