package service

import (
	"context"

	"github.com/turtacn/mrsa/internal/domain/models"
	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/mrsa"
)

//go:generate mockery --name KeyGenerator --output mocks --outpkg mocks
// KeyGenerator produces fresh key pairs. *mrsa.Generator satisfies it.
type KeyGenerator interface {
	GenerateKey(ctx context.Context) (*mrsa.Key, error)
}

//go:generate mockery --name AuditService --output mocks --outpkg mocks
// AuditService records and reads the key lifecycle audit trail.
type AuditService interface {
	LogEvent(ctx context.Context, event models.AuditEvent) error
	ListByKey(ctx context.Context, keyID string) ([]models.AuditEvent, error)
}

// CipherRecorder receives the outcome of every cipher operation.
type CipherRecorder interface {
	RecordCipher(op constants.CipherOp, err error)
}

//go:generate mockery --name KeyManagementService --output mocks --outpkg mocks
// KeyManagementService manages the lifecycle of stored keys and performs
// cipher operations with them.
type KeyManagementService interface {
	// GenerateKey creates and stores a single key.
	GenerateKey(ctx context.Context, label string) (*models.KeyInfo, error)

	// GenerateKeys creates count keys concurrently. Either all are stored or
	// an error is returned.
	GenerateKeys(ctx context.Context, label string, count int) ([]models.KeyInfo, error)

	// GetKey returns the public view of a stored key.
	GetKey(ctx context.Context, id string) (*models.KeyInfo, error)

	// ListKeys returns every stored key, oldest first.
	ListKeys(ctx context.Context) ([]models.KeyInfo, error)

	// RevokeKey marks a key revoked. Revoked keys refuse cipher operations.
	RevokeKey(ctx context.Context, id string) error

	// KeyEvents returns the audit trail of a stored key, oldest first.
	KeyEvents(ctx context.Context, id string) ([]models.AuditEvent, error)

	// Encrypt computes m^e mod n with the stored key.
	Encrypt(ctx context.Context, id string, m uint64) (uint64, error)

	// Decrypt computes c^d mod n with the stored key.
	Decrypt(ctx context.Context, id string, c uint64) (uint64, error)
}
