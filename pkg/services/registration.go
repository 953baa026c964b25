package services

import (
	"context"
	"errors"
	"log/slog"

	"user-registration/pkg/clients/emailgateway"
	"user-registration/pkg/models"
	"user-registration/pkg/store"
	"user-registration/pkg/utils"
)

// RegistrationService persists users and triggers their confirmation email
type RegistrationService interface {
	Register(ctx context.Context, data models.UserData) (string, error)
	Notify(ctx context.Context, userID, email string) (*models.EmailServiceResponse, error)
}

type registrationServiceImpl struct {
	store   store.DocumentStore
	gateway emailgateway.Client
	logger  *slog.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	documentStore store.DocumentStore,
	gateway emailgateway.Client,
	logger *slog.Logger,
) RegistrationService {
	return &registrationServiceImpl{
		store:   documentStore,
		gateway: gateway,
		logger:  logger,
	}
}

// Register writes a new user record and returns its store id
func (s *registrationServiceImpl) Register(ctx context.Context, data models.UserData) (string, error) {
	record := store.Document{
		"email":     data.Email,
		"firstName": data.FirstName,
		"lastName":  data.LastName,
		"createdAt": store.ServerTimestamp,
		"emailSent": false,
	}

	id, err := s.store.CreateDocument(ctx, store.UsersCollection, record)
	if err != nil {
		s.logger.Error("error registering user", "emailHash", utils.HashEmail(data.Email), "error", err)
		return "", &Error{
			Kind:    ErrRegistrationFailed,
			Message: "Failed to register user: " + err.Error(),
			Err:     err,
		}
	}

	s.logger.Info("user registered", "userId", id, "emailHash", utils.HashEmail(data.Email))
	return id, nil
}

// Notify asks the gateway to send the confirmation email for userID
func (s *registrationServiceImpl) Notify(ctx context.Context, userID, email string) (*models.EmailServiceResponse, error) {
	resp, err := s.gateway.SendEmail(ctx, userID, email)
	if err != nil {
		kind := ErrEmailServiceUnreachable
		var statusErr *emailgateway.StatusError
		var respErr *emailgateway.ResponseError
		if errors.As(err, &statusErr) || errors.As(err, &respErr) {
			kind = ErrEmailServiceRejected
		}

		s.logger.Error("error triggering email", "userId", userID, "kind", kind.Error(), "error", err)
		return nil, &Error{
			Kind:    kind,
			Message: "Failed to trigger email: " + err.Error(),
			Err:     err,
		}
	}

	s.logger.Info("email triggered", "userId", userID, "taskId", resp.TaskID)
	return resp, nil
}
