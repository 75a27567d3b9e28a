package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dsemotion/internal/api"
	"dsemotion/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		engine engineFlags
		port   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := engine.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := container.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			gin.SetMode(cfg.Server.GinMode)
			server := api.NewServer(c.Service, c.Logger)
			return server.Start(ctx, ":"+cfg.Server.Port, cfg.Server.ShutdownTimeout)
		},
	}

	engine.register(cmd)
	cmd.Flags().StringVar(&port, "port", "", "listen port (default: PORT or 8080)")
	return cmd
}
