package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/turtacn/mrsa/internal/application/dto"
	"github.com/turtacn/mrsa/pkg/constants"
)

func requestID(c *gin.Context) string {
	return c.GetString(string(constants.ContextKeyRequestID))
}

func sendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.SuccessResponse(data, requestID(c)))
}

func sendError(c *gin.Context, err error) {
	body, status := dto.ErrorResponse(err, requestID(c))
	c.JSON(status, body)
}
