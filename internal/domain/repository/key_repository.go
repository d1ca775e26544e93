package repository

import (
	"context"

	"github.com/turtacn/mrsa/internal/domain/models"
	"github.com/turtacn/mrsa/pkg/constants"
)

// KeyRepository defines the interface for key persistence. Lookups of unknown
// IDs return an error carrying constants.ErrCodeKeyNotFound.
type KeyRepository interface {
	Create(ctx context.Context, key *models.KeyRecord) error
	GetByID(ctx context.Context, id string) (*models.KeyRecord, error)
	List(ctx context.Context) ([]*models.KeyRecord, error)
	UpdateStatus(ctx context.Context, id string, status constants.KeyStatus) error
	Delete(ctx context.Context, id string) error
}
