// Package gateway is the notification gateway: it accepts send-email
// requests from the registration form and delivers the confirmation email
// in the background.
package gateway

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-registration/pkg/middleware"
	"user-registration/pkg/models"
)

// Enqueuer accepts email tasks
type Enqueuer interface {
	Enqueue(ctx context.Context, userID, email string) (string, error)
}

// Handlers contains the gateway HTTP handlers
type Handlers struct {
	queue  Enqueuer
	logger *slog.Logger
}

// NewHandlers creates gateway handlers backed by queue
func NewHandlers(queue Enqueuer, logger *slog.Logger) *Handlers {
	return &Handlers{queue: queue, logger: logger}
}

// Root describes the service
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "User Registration Email Service API",
		"version": "1.0.0",
	})
}

// Health reports liveness
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// SendEmail queues the confirmation email for a registered user
func (h *Handlers) SendEmail(c *gin.Context) {
	var req models.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	taskID, err := h.queue.Enqueue(c.Request.Context(), req.UserID, req.Email)
	if err != nil {
		h.logger.Error("error queueing email", "userId", req.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to queue email: " + err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, models.EmailServiceResponse{
		Success: true,
		TaskID:  taskID,
		Message: "Email queued successfully",
	})
}

// NewRouter wires the gateway routes
func NewRouter(h *Handlers, logger *slog.Logger, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(logger), middleware.CORS(allowedOrigins...))

	router.GET("/", h.Root)
	api := router.Group("/api")
	api.POST("/send-email", h.SendEmail)
	api.GET("/health", h.Health)
	return router
}
