package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse is the envelope every dashboard action answers with.
// RequestID matches the X-Request-ID header so a failure report can be
// traced to its log line.
type JSONResponse struct {
	Status    bool        `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:    code >= 200 && code < 300,
		Message:   message,
		Data:      data,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	})
}

// RespondError aborts the chain with a failed envelope. message goes to the
// client as is, so it must never be a raw backend error.
func RespondError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, JSONResponse{
		Status:    false,
		Message:   message,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	})
}
