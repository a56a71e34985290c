// File: /utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"crosspaths-api/models"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{
		Error: err,
		Code:  status,
	})
}

func SendValidationError(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Message: err,
		Code:    http.StatusBadRequest,
	})
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(http.StatusOK, response)
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{
		Message: message,
		Data:    data,
	}
	c.JSON(http.StatusCreated, response)
}

// SendEngineError maps the engine error taxonomy onto HTTP status codes.
// Check-in and shared-event replays are no-op successes, so ErrConflict only
// shows up for genuine state conflicts such as duplicate registration.
func SendEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		SendError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		SendError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict):
		SendError(c, http.StatusConflict, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, err.Error())
	}
}
