package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tinydi/errors"
)

// ErrorResponse is the JSON body sent for failed requests.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a machine-readable code and a message.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// RespondWithError writes err as an ErrorResponse. Container errors are
// server faults and map to 500; anything else is reported as INTERNAL.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorBody{
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Details,
		}})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorBody{Code: "INTERNAL", Message: err.Error()},
	})
}

// RespondBadRequest writes a 400 with code BAD_REQUEST.
func RespondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorBody{Code: "BAD_REQUEST", Message: err.Error()},
	})
}
