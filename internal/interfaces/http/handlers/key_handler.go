package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/mrsa/internal/application/dto"
	"github.com/turtacn/mrsa/internal/domain/service"
	"github.com/turtacn/mrsa/pkg/errors"
	"github.com/turtacn/mrsa/pkg/logger"
)

// KeyHandler serves the key management and cipher endpoints.
type KeyHandler struct {
	keys service.KeyManagementService
	log  logger.Logger
}

// NewKeyHandler creates a new KeyHandler.
func NewKeyHandler(keys service.KeyManagementService, log logger.Logger) *KeyHandler {
	return &KeyHandler{keys: keys, log: log}
}

// GenerateKey handles POST /v1/keys. An empty body generates one unlabeled key;
// count > 1 generates a batch.
func (h *KeyHandler) GenerateKey(c *gin.Context) {
	var req dto.GenerateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		sendError(c, errors.ErrInvalidRequest(err.Error()))
		return
	}

	if req.Count < 0 {
		sendError(c, errors.ErrInvalidRequest("count must not be negative"))
		return
	}

	ctx := c.Request.Context()
	if req.Count <= 1 {
		info, err := h.keys.GenerateKey(ctx, req.Label)
		if err != nil {
			h.log.ForContext(ctx).Error(ctx, "Key generation failed", err)
			sendError(c, err)
			return
		}
		sendSuccess(c, http.StatusCreated, info)
		return
	}

	infos, err := h.keys.GenerateKeys(ctx, req.Label, req.Count)
	if err != nil {
		h.log.ForContext(ctx).Error(ctx, "Batch key generation failed", err, logger.Fields{"count": req.Count})
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusCreated, dto.KeyListResponse{Keys: infos, Total: len(infos)})
}

// ListKeys handles GET /v1/keys.
func (h *KeyHandler) ListKeys(c *gin.Context) {
	infos, err := h.keys.ListKeys(c.Request.Context())
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.KeyListResponse{Keys: infos, Total: len(infos)})
}

// GetKey handles GET /v1/keys/:id. Only the public part is returned.
func (h *KeyHandler) GetKey(c *gin.Context) {
	info, err := h.keys.GetKey(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, info)
}

// RevokeKey handles DELETE /v1/keys/:id.
func (h *KeyHandler) RevokeKey(c *gin.Context) {
	if err := h.keys.RevokeKey(c.Request.Context(), c.Param("id")); err != nil {
		sendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// KeyEvents handles GET /v1/keys/:id/events.
func (h *KeyHandler) KeyEvents(c *gin.Context) {
	id := c.Param("id")
	events, err := h.keys.KeyEvents(c.Request.Context(), id)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.KeyEventsResponse{KeyID: id, Events: events})
}

// Encrypt handles POST /v1/keys/:id/encrypt.
func (h *KeyHandler) Encrypt(c *gin.Context) {
	h.cipher(c, h.keys.Encrypt)
}

// Decrypt handles POST /v1/keys/:id/decrypt.
func (h *KeyHandler) Decrypt(c *gin.Context) {
	h.cipher(c, h.keys.Decrypt)
}

func (h *KeyHandler) cipher(c *gin.Context, op func(context.Context, string, uint64) (uint64, error)) {
	var req dto.CipherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, errors.ErrInvalidRequest("body must be {\"value\": <uint64>}"))
		return
	}

	id := c.Param("id")
	out, err := op(c.Request.Context(), id, *req.Value)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, dto.CipherResponse{KeyID: id, Value: out})
}
