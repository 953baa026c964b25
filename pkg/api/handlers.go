package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"user-registration/pkg/form"
	"user-registration/pkg/models"
)

// SessionCookie carries the form session id
const SessionCookie = "registration_session"

// Handlers contains all HTTP handlers for the registration form
type Handlers struct {
	sessions   *form.Sessions
	logger     *slog.Logger
	sessionTTL time.Duration
}

// NewHandlers creates a new Handlers instance
func NewHandlers(sessions *form.Sessions, sessionTTL time.Duration, logger *slog.Logger) *Handlers {
	return &Handlers{
		sessions:   sessions,
		logger:     logger,
		sessionTTL: sessionTTL,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// session returns the caller's controller and refreshes the cookie
func (h *Handlers) session(c *gin.Context) *form.Controller {
	current, _ := c.Cookie(SessionCookie)
	id, ctrl := h.sessions.Open(current)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(h.sessionTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
	return ctrl
}

// ShowForm renders the registration page
func (h *Handlers) ShowForm(c *gin.Context) {
	ctrl := h.session(c)
	c.HTML(http.StatusOK, "form.html", ctrl.View())
}

// SubmitForm handles the classic form post: every posted field is applied
// as an edit, then the form is submitted
func (h *Handlers) SubmitForm(c *gin.Context) {
	ctrl := h.session(c)

	for _, name := range models.Fields {
		value, ok := c.GetPostForm(name)
		if !ok {
			continue
		}
		if err := ctrl.Edit(name, value); err != nil {
			h.renderBusy(c, ctrl, err)
			return
		}
	}

	view, err := ctrl.Submit(c.Request.Context())
	if err != nil {
		h.renderBusy(c, ctrl, err)
		return
	}
	c.HTML(statusFor(view), "form.html", view)
}

func (h *Handlers) renderBusy(c *gin.Context, ctrl *form.Controller, err error) {
	h.logger.Warn("form rejected input", "error", err)
	c.HTML(http.StatusConflict, "form.html", ctrl.View())
}

// GetForm returns the current form snapshot
func (h *Handlers) GetForm(c *gin.Context) {
	c.JSON(http.StatusOK, h.session(c).View())
}

type fieldEdit struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value"`
}

// EditField applies one field edit
func (h *Handlers) EditField(c *gin.Context) {
	ctrl := h.session(c)

	var edit fieldEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	if err := ctrl.Edit(edit.Name, edit.Value); err != nil {
		switch {
		case errors.Is(err, form.ErrUnknownField):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, form.ErrSubmissionInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// SubmitFormJSON submits the session's form and returns the resulting snapshot
func (h *Handlers) SubmitFormJSON(c *gin.Context) {
	ctrl := h.session(c)

	view, err := ctrl.Submit(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(statusFor(view), view)
}

func statusFor(v form.View) int {
	switch v.State {
	case form.StateSucceeded:
		return http.StatusOK
	case form.StateFailed:
		return http.StatusBadGateway
	}
	if len(v.Errors) > 0 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}
