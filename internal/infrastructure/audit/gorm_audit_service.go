// Package audit implements the AuditService interface using GORM.
package audit

import (
	"context"

	"github.com/turtacn/mrsa/internal/domain/models"
	"github.com/turtacn/mrsa/internal/domain/service"
	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/errors"
	"gorm.io/gorm"
)

// GormAuditService provides a GORM-backed implementation of the AuditService.
// It stores audit events next to the keys they describe.
type GormAuditService struct {
	db *gorm.DB
}

// NewGormAuditService creates and configures a new GormAuditService.
func NewGormAuditService(db *gorm.DB) service.AuditService {
	return &GormAuditService{
		db: db,
	}
}

// LogEvent saves an AuditEvent to the database.
func (s *GormAuditService) LogEvent(ctx context.Context, event models.AuditEvent) error {
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return errors.WrapError(err, constants.ErrCodeServerError, "failed to record audit event")
	}
	return nil
}

// ListByKey returns the events recorded for keyID, oldest first.
func (s *GormAuditService) ListByKey(ctx context.Context, keyID string) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	err := s.db.WithContext(ctx).Where("key_id = ?", keyID).Order("id ASC").Find(&events).Error
	if err != nil {
		return nil, errors.WrapError(err, constants.ErrCodeServerError, "failed to list audit events")
	}
	return events, nil
}
