package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"user-registration/pkg/config"
	"user-registration/pkg/gateway"
	"user-registration/pkg/store/connector"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Serve the notification gateway and email dispatcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		gin.SetMode(cfg.GinMode)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		conn := connector.New(cfg, logger)
		documentStore, err := conn.Connect(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		dispatcher := gateway.NewDispatcher(newMailer(cfg, logger), documentStore, cfg.EmailQueueSize, cfg.EmailMinDelay, logger)
		go dispatcher.Run(ctx)

		router := gateway.NewRouter(gateway.NewHandlers(dispatcher, logger), logger, cfg.CORSAllowedOrigins)
		return serve(ctx, ":"+cfg.GatewayPort, router, logger)
	},
}

func newMailer(cfg *config.Config, logger *slog.Logger) gateway.Mailer {
	if cfg.Mailer == "smtp" {
		return gateway.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return &gateway.LogMailer{Logger: logger, Delay: cfg.SimulatedSendDelay}
}
