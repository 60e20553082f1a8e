package response

import (
	"tiketix/internal/shared/rejection"

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

// RespondRejection maps a service error to an HTTP response. Typed rejections
// keep their message and kind; anything else becomes an opaque 500.
func RespondRejection(c *gin.Context, err error) {
	code := rejection.HTTPStatus(err)
	if r := rejection.As(err); r != nil {
		RespondJSON(c, "error", code, r.Message, nil, gin.H{"kind": r.Kind})
		return
	}
	RespondJSON(c, "error", code, "internal server error", nil, nil)
}
