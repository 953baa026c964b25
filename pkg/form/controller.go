// Package form holds the registration form state machine: field values,
// per-field validation errors and the outcome of the last submission.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"user-registration/pkg/models"
	"user-registration/pkg/utils"
)

// State of the registration form.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Button labels and status messages.
const (
	LabelSubmit     = "Register"
	LabelSubmitting = "Registering..."

	MsgSuccess        = "Registration successful! A confirmation email will be sent shortly."
	MsgGenericFailure = "Registration failed. Please try again."
)

var (
	// ErrSubmissionInFlight is returned by Submit and Edit while a submission is running.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	// ErrUnknownField is returned by Edit for names outside models.Fields.
	ErrUnknownField = errors.New("unknown form field")
)

// Registrar is the registration service as seen by the form.
type Registrar interface {
	Register(ctx context.Context, data models.UserData) (string, error)
	Notify(ctx context.Context, userID, email string) (*models.EmailServiceResponse, error)
}

// View is a snapshot of everything the UI renders.
type View struct {
	State       State                `json:"-"`
	StateName   string               `json:"state"`
	Values      models.UserData      `json:"values"`
	Errors      models.FormErrors    `json:"errors"`
	Status      *models.SubmitStatus `json:"status,omitempty"`
	Disabled    bool                 `json:"disabled"`
	SubmitLabel string               `json:"submitLabel"`
}

// Controller owns one form instance. It is safe for concurrent use; at
// most one submission runs at a time.
type Controller struct {
	registrar Registrar
	logger    *slog.Logger

	mu     sync.Mutex
	state  State
	values models.UserData
	errs   models.FormErrors
	status *models.SubmitStatus
}

// NewController returns an idle, empty form.
func NewController(registrar Registrar, logger *slog.Logger) *Controller {
	return &Controller{
		registrar: registrar,
		logger:    logger,
		errs:      models.FormErrors{},
	}
}

// Edit sets a field value and clears that field's error, if any.
func (c *Controller) Edit(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitting {
		return ErrSubmissionInFlight
	}
	if !c.values.Set(field, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if c.errs.Has(field) {
		delete(c.errs, field)
	}
	return nil
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Submit validates the form and, when valid, registers the user and
// triggers the confirmation email. The returned error is only
// ErrSubmissionInFlight; outcomes are reported through View.Status.
func (c *Controller) Submit(ctx context.Context) (View, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return View{}, ErrSubmissionInFlight
	}

	c.status = nil
	c.state = StateValidating
	errs := Validate(c.values)
	c.errs = errs
	if len(errs) > 0 {
		c.state = StateIdle
		c.logger.Debug("registration form invalid", "fields", len(errs))
		v := c.viewLocked()
		c.mu.Unlock()
		return v, nil
	}

	c.state = StateSubmitting
	data := c.values
	c.mu.Unlock()

	done := false
	defer func() {
		if done {
			return
		}
		// run panicked; Submitting must still be left before the panic propagates
		c.mu.Lock()
		c.state = StateFailed
		c.status = &models.SubmitStatus{Type: models.StatusError, Message: MsgGenericFailure}
		c.mu.Unlock()
	}()

	outcome := c.run(ctx, data)
	done = true

	c.mu.Lock()
	defer c.mu.Unlock()
	if outcome == nil {
		c.state = StateSucceeded
		c.values = models.UserData{}
		c.status = &models.SubmitStatus{Type: models.StatusSuccess, Message: MsgSuccess}
	} else {
		msg := outcome.Error()
		if msg == "" {
			msg = MsgGenericFailure
		}
		c.state = StateFailed
		c.status = &models.SubmitStatus{Type: models.StatusError, Message: msg}
	}
	return c.viewLocked(), nil
}

// run performs register then notify. Called without the lock held.
func (c *Controller) run(ctx context.Context, data models.UserData) error {
	userID, err := c.registrar.Register(ctx, data)
	if err != nil {
		c.logger.Error("registration error", "error", err)
		return err
	}

	if _, err := c.registrar.Notify(ctx, userID, data.Email); err != nil {
		// The user record already exists at this point.
		c.logger.Warn("user registered but confirmation email was not triggered",
			"userId", userID, "emailHash", utils.HashEmail(data.Email), "error", err)
		return err
	}
	return nil
}

func (c *Controller) viewLocked() View {
	v := View{
		State:       c.state,
		StateName:   c.state.String(),
		Values:      c.values,
		Errors:      maps.Clone(c.errs),
		Disabled:    c.state == StateSubmitting,
		SubmitLabel: LabelSubmit,
	}
	if v.Errors == nil {
		v.Errors = models.FormErrors{}
	}
	if v.Disabled {
		v.SubmitLabel = LabelSubmitting
	}
	if c.status != nil {
		s := *c.status
		v.Status = &s
	}
	return v
}
