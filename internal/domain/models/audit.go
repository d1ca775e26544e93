package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/turtacn/mrsa/pkg/constants"
)

// AuditEvent is a single entry in the key lifecycle audit trail.
type AuditEvent struct {
	ID        uint                     `gorm:"primaryKey" json:"-"`
	EventID   string                   `gorm:"uniqueIndex;not null" json:"event_id"`
	KeyID     string                   `gorm:"index;not null" json:"key_id"`
	EventType constants.AuditEventType `gorm:"not null" json:"event_type"`
	RequestID string                   `json:"request_id,omitempty"`
	Message   string                   `json:"message,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

// TableName pins the table name independently of the struct name.
func (AuditEvent) TableName() string { return "mrsa_audit_events" }

// NewAuditEvent creates an audit event for keyID.
func NewAuditEvent(keyID string, eventType constants.AuditEventType, message string) AuditEvent {
	return AuditEvent{
		EventID:   uuid.NewString(),
		KeyID:     keyID,
		EventType: eventType,
		Message:   message,
	}
}

// WithRequestID sets the request that caused the event.
func (e AuditEvent) WithRequestID(requestID string) AuditEvent {
	e.RequestID = requestID
	return e
}
