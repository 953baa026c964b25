package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS allows credentialed cross-origin calls from the listed origins.
// A "*" entry allows any other origin, without credentials.
func CORS(allowedOrigins ...string) gin.HandlerFunc {
	allowAny := slices.Contains(allowedOrigins, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()
		switch {
		case origin == "":
		case origin != "*" && slices.Contains(allowedOrigins, origin):
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			setAllowMethods(c)
		case allowAny:
			h.Set("Access-Control-Allow-Origin", "*")
			setAllowMethods(c)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func setAllowMethods(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", allowHeaders(c))
}

func allowHeaders(c *gin.Context) string {
	if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
		return requested
	}
	return strings.Join([]string{"Content-Type", "Authorization"}, ", ")
}
