package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the JSON body of every /api response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	CodeNotFound = "NOT_FOUND"
	CodeInternal = "INTERNAL_ERROR"
)

// OK writes data with status 200.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Fail writes an error envelope with the given status.
func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{Error: &ErrorInfo{Code: code, Message: message}})
}

// NotFound reports that the named resource does not exist.
func NotFound(c *gin.Context, resource string) {
	Fail(c, http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// Internal reports an unexpected server-side failure.
func Internal(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, CodeInternal, message)
}
