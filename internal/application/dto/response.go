package dto

import (
	"time"

	"github.com/turtacn/mrsa/pkg/errors"
)

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Success   bool                  `json:"success"`
	Data      interface{}           `json:"data,omitempty"`
	Error     *errors.ErrorResponse `json:"error,omitempty"`
	RequestID string                `json:"request_id,omitempty"`
	Timestamp int64                 `json:"timestamp"`
}

// SuccessResponse wraps data in a successful envelope
func SuccessResponse(data interface{}, requestID string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		RequestID: requestID,
		Timestamp: time.Now().Unix(),
	}
}

// ErrorResponse wraps err in a failed envelope and returns the HTTP status to send
func ErrorResponse(err error, requestID string) (*APIResponse, int) {
	body, status := errors.ToErrorResponse(err)
	return &APIResponse{
		Success:   false,
		Error:     body,
		RequestID: requestID,
		Timestamp: time.Now().Unix(),
	}, status
}
