package response

import (
	"net/http"

	"villagestay/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Success writes a success envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}

// Error writes an error envelope.
func Error(c *gin.Context, code int, message string, errors interface{}) {
	RespondJSON(c, "error", code, message, nil, errors)
}

// FromError maps a service error to the standard envelope. Typed apperrors
// carry their own status code; anything else is reported as a 500 without
// leaking internals to the client.
func FromError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		var details interface{}
		if appErr.Field != "" {
			details = map[string]string{"field": appErr.Field}
		}
		Error(c, appErr.HTTPStatus(), appErr.Message, details)
		return
	}
	Error(c, http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
}
