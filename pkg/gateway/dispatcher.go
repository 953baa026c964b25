package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"user-registration/pkg/models"
	"user-registration/pkg/store"
	"user-registration/pkg/utils"
)

// ErrQueueFull is returned when the task buffer has no room
var ErrQueueFull = errors.New("email queue is full")

// Dispatcher queues welcome emails and sends them in the background
type Dispatcher struct {
	tasks    chan models.EmailTask
	mailer   Mailer
	store    store.DocumentStore
	logger   *slog.Logger
	minDelay time.Duration

	// OnResult, when set, observes every processed task
	OnResult func(models.EmailTaskResult)
}

// NewDispatcher creates a dispatcher with a buffer of queueSize tasks.
// Enqueue takes at least minDelay to return.
func NewDispatcher(mailer Mailer, documentStore store.DocumentStore, queueSize int, minDelay time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		tasks:    make(chan models.EmailTask, queueSize),
		mailer:   mailer,
		store:    documentStore,
		logger:   logger,
		minDelay: minDelay,
	}
}

// TaskID is the id returned to the caller for a queued email
func TaskID(userID, email string) string {
	return fmt.Sprintf("task-%s-%s", userID, email)
}

// Enqueue adds a task without blocking on the worker
func (d *Dispatcher) Enqueue(ctx context.Context, userID, email string) (string, error) {
	start := time.Now()

	task := models.EmailTask{ID: TaskID(userID, email), UserID: userID, Email: email}
	select {
	case d.tasks <- task:
	default:
		return "", ErrQueueFull
	}

	if wait := d.minDelay - time.Since(start); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
		}
	}
	return task.ID, nil
}

// Run processes tasks until ctx is done
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("email dispatcher started", "mode", d.mailer.Mode())
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("email dispatcher stopped", "pending", len(d.tasks))
			return
		case task := <-d.tasks:
			result := d.process(ctx, task)
			if d.OnResult != nil {
				d.OnResult(result)
			}
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, task models.EmailTask) models.EmailTaskResult {
	result := models.EmailTaskResult{
		Email:  task.Email,
		UserID: task.UserID,
		Mode:   d.mailer.Mode(),
	}

	msg, err := RenderWelcome(task.UserID, task.Email)
	if err == nil {
		result.MessageID, err = d.mailer.Send(ctx, task.UserID, msg)
	}
	if err != nil {
		d.logger.Error("error sending email", "userId", task.UserID, "error", err)
		result.Error = err.Error()
		return result
	}
	result.Success = true

	err = d.store.UpdateDocument(ctx, store.UsersCollection, task.UserID, store.Document{
		"emailSent":      true,
		"emailSentAt":    store.ServerTimestamp,
		"emailMessageId": result.MessageID,
	})
	if err != nil {
		// delivery already happened; the flag is best effort
		d.logger.Warn("could not mark email as sent", "userId", task.UserID, "error", err)
	}

	d.logger.Info("email sent", "userId", task.UserID,
		"emailHash", utils.HashEmail(task.Email), "messageId", result.MessageID)
	return result
}
