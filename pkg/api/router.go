package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"user-registration/pkg/middleware"
)

// NewRouter wires the registration form routes
func NewRouter(h *Handlers, logger *slog.Logger, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(logger), middleware.CORS(allowedOrigins...))
	router.SetHTMLTemplate(Templates())

	router.GET("/", h.ShowForm)
	router.POST("/", h.SubmitForm)
	router.GET("/health", h.HealthCheck)

	apiGroup := router.Group("/api/form")
	apiGroup.GET("", h.GetForm)
	apiGroup.POST("/fields", h.EditField)
	apiGroup.POST("/submit", h.SubmitFormJSON)

	return router
}
