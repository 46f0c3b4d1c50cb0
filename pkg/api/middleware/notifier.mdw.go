package middleware

import (
	"stockwatch-backend/pkg/notify"

	"github.com/gin-gonic/gin"
)

// Adds the stock notification server to the Gin context so write endpoints
// can publish change events.
func NotifierMiddleware(server *notify.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("notifier", server)
		c.Next()
	}
}
