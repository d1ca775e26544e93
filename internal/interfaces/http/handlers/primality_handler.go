package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/mrsa/internal/application/dto"
	"github.com/turtacn/mrsa/pkg/errors"
	"github.com/turtacn/mrsa/pkg/primality"
)

// PrimalityHandler exposes the deterministic Miller-Rabin test.
type PrimalityHandler struct{}

// NewPrimalityHandler creates a new PrimalityHandler.
func NewPrimalityHandler() *PrimalityHandler {
	return &PrimalityHandler{}
}

// Check handles GET /v1/primality/:n.
func (h *PrimalityHandler) Check(c *gin.Context) {
	n, err := strconv.ParseUint(c.Param("n"), 10, 64)
	if err != nil {
		sendError(c, errors.ErrInvalidRequest("n must be a decimal unsigned 64-bit integer"))
		return
	}
	sendSuccess(c, http.StatusOK, dto.PrimalityResponse{N: n, Prime: primality.MillerRabin(n)})
}
