package sqlite

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/turtacn/mrsa/internal/domain/models"
	"github.com/turtacn/mrsa/internal/domain/repository"
	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/errors"
	"gorm.io/gorm"
)

// KeyRepository is a SQLite implementation of the KeyRepository interface.
type KeyRepository struct {
	db *gorm.DB
}

// NewKeyRepository creates a new KeyRepository.
func NewKeyRepository(db *gorm.DB) repository.KeyRepository {
	return &KeyRepository{db: db}
}

// Create inserts a new key record.
func (r *KeyRepository) Create(ctx context.Context, key *models.KeyRecord) error {
	if err := r.db.WithContext(ctx).Create(key).Error; err != nil {
		return errors.WrapError(err, constants.ErrCodeServerError, "failed to store key")
	}
	return nil
}

// GetByID retrieves a key by its ID.
func (r *KeyRepository) GetByID(ctx context.Context, id string) (*models.KeyRecord, error) {
	var key models.KeyRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&key).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrKeyNotFound(id)
	}
	if err != nil {
		return nil, errors.WrapError(err, constants.ErrCodeServerError, "failed to load key")
	}
	return &key, nil
}

// List returns every stored key, oldest first.
func (r *KeyRepository) List(ctx context.Context) ([]*models.KeyRecord, error) {
	var keys []*models.KeyRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&keys).Error; err != nil {
		return nil, errors.WrapError(err, constants.ErrCodeServerError, "failed to list keys")
	}
	return keys, nil
}

// UpdateStatus changes the status of a key, stamping revoked_at on revocation.
// A key already in the requested status is left untouched.
func (r *KeyRepository) UpdateStatus(ctx context.Context, id string, status constants.KeyStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == constants.KeyStatusRevoked {
		updates["revoked_at"] = time.Now().UTC()
	}

	res := r.db.WithContext(ctx).Model(&models.KeyRecord{}).
		Where("id = ? AND status <> ?", id, status).
		Updates(updates)
	if res.Error != nil {
		return errors.WrapError(res.Error, constants.ErrCodeServerError, "failed to update key status")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.KeyRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return errors.WrapError(err, constants.ErrCodeServerError, "failed to update key status")
	}
	if count == 0 {
		return errors.ErrKeyNotFound(id)
	}
	return nil
}

// Delete removes a key permanently.
func (r *KeyRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.KeyRecord{})
	if res.Error != nil {
		return errors.WrapError(res.Error, constants.ErrCodeServerError, "failed to delete key")
	}
	if res.RowsAffected == 0 {
		return errors.ErrKeyNotFound(id)
	}
	return nil
}
