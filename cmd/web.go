package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"user-registration/pkg/api"
	"user-registration/pkg/form"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the registration form",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		gin.SetMode(cfg.GinMode)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, conn, err := newRegistrationService(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer conn.Close()

		sessions := form.NewSessions(cfg.SessionTTL, func() *form.Controller {
			return form.NewController(svc, logger)
		})
		handlers := api.NewHandlers(sessions, cfg.SessionTTL, logger)
		router := api.NewRouter(handlers, logger, cfg.CORSAllowedOrigins)

		return serve(ctx, ":"+cfg.Port, router, logger)
	},
}
