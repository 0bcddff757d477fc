package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grapplay/internal/shared/errors"
)

// APIResponse is the wire envelope checkout clients consume: a bare
// success flag on 200, a bare error string otherwise.
type APIResponse struct {
	Success bool   `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SuccessResponse sends the success envelope.
func SuccessResponse(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{Success: true})
}

// ErrorResponse sends an error envelope with the given status code.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{Error: message})
}

// ErrorResponseWithError maps an error to the envelope. Settlement failures
// all surface as 400 to the caller; the taxonomy detail lives in logs.
func ErrorResponseWithError(c *gin.Context, err error) {
	if appErr := errors.GetAppError(err); appErr != nil {
		ErrorResponse(c, http.StatusBadRequest, appErr.Message)
		return
	}
	ErrorResponse(c, http.StatusBadRequest, err.Error())
}
