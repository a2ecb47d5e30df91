package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/aitoolhub/aitoolhub/common/helper"
)

// RequestId attaches a request identifier to the context and response so
// log lines and client reports can be correlated.
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(helper.RequestIdKey)
		if id == "" {
			id = helper.GenRequestID()
		}
		c.Set(helper.RequestIdKey, id)
		c.Header(helper.RequestIdKey, id)
		c.Next()
	}
}
