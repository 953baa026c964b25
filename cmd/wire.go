package cmd

import (
	"context"
	"log/slog"

	"user-registration/pkg/clients/emailgateway"
	"user-registration/pkg/config"
	"user-registration/pkg/services"
	"user-registration/pkg/store/connector"
)

// newRegistrationService connects the document store and builds the
// service around it. The caller owns the returned connector.
func newRegistrationService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.RegistrationService, *connector.Connector, error) {
	conn := connector.New(cfg, logger)
	documentStore, err := conn.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	gateway := emailgateway.NewClient(cfg.EmailServiceURL, nil)
	return services.NewRegistrationService(documentStore, gateway, logger), conn, nil
}
