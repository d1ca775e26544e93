package dto

import "github.com/turtacn/mrsa/internal/domain/models"

// GenerateKeyRequest asks for one or more new keys. Count defaults to 1.
type GenerateKeyRequest struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// KeyListResponse lists stored keys
type KeyListResponse struct {
	Keys  []models.KeyInfo `json:"keys"`
	Total int              `json:"total"`
}

// KeyEventsResponse lists the audit trail of a key
type KeyEventsResponse struct {
	KeyID  string              `json:"key_id"`
	Events []models.AuditEvent `json:"events"`
}

// CipherRequest carries a single block for encryption or decryption
type CipherRequest struct {
	Value *uint64 `json:"value" binding:"required"`
}

// CipherResponse carries the transformed block
type CipherResponse struct {
	KeyID string `json:"key_id"`
	Value uint64 `json:"value"`
}

// PrimalityResponse reports a Miller-Rabin verdict
type PrimalityResponse struct {
	N     uint64 `json:"n"`
	Prime bool   `json:"prime"`
}
