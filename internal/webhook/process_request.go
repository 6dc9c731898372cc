package webhook

import "github.com/gin-gonic/gin"

// processListDeadLettersReq binds and validates the dead-letter query parameters.
func (h *Handler) processListDeadLettersReq(c *gin.Context) (listDeadLettersReq, error) {
	var req listDeadLettersReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}
