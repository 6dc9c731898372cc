package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resp is the JSON envelope for the API's structured endpoints.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

// NewOKResp wraps data in a success envelope.
func NewOKResp(data any) Resp {
	return Resp{
		ErrorCode: 0,
		Message:   MessageSuccess,
		Data:      data,
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// Error sends a 400 envelope carrying err's message.
func Error(c *gin.Context, err error, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}

	c.JSON(http.StatusBadRequest, Resp{
		ErrorCode: 1,
		Message:   err.Error(),
		Data:      data,
	})
}

// InternalError sends 500 without leaking err to the client.
func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: InternalServerErrorCode,
		Message:   DefaultErrorMessage,
	})
}

// Text sends body as text/plain with the given status.
func Text(c *gin.Context, code int, body string) {
	c.String(code, body)
}

// NotFound sends a plain-text 404.
func NotFound(c *gin.Context) {
	c.String(http.StatusNotFound, TextNotFound)
}

// MethodNotAllowed sends a plain-text 405.
func MethodNotAllowed(c *gin.Context) {
	c.String(http.StatusMethodNotAllowed, TextMethodNotAllowed)
}

// TooManyRequests sends a plain-text 429.
func TooManyRequests(c *gin.Context) {
	c.String(http.StatusTooManyRequests, TextTooManyRequests)
}
