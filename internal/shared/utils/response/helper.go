package response

import (
	"campusevents/internal/shared/apperrors"

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

// RespondError renders a service error using its taxonomy kind for the HTTP
// status and exposes the kind so clients can branch without string matching.
func RespondError(c *gin.Context, err error) {
	RespondJSON(c, "error", apperrors.HTTPStatus(err), err.Error(), nil, gin.H{
		"kind": apperrors.KindOf(err),
	})
}
