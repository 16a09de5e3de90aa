package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reelcap/internal/api"
	"reelcap/internal/runstore"
	"reelcap/internal/textmetrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the caption plan API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if b := strings.TrimSpace(bind); b != "" {
				cfg.Paths.APIBind = b
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			fonts := textmetrics.NewOpenType()
			defer fonts.Close()

			return ctx.withStore(func(store *runstore.Store) error {
				server := api.NewServer(api.ServerConfig{
					Config:    cfg,
					Store:     store,
					Fonts:     fonts,
					Logger:    logger,
					StartTime: time.Now(),
				})
				listener, err := net.Listen("tcp", server.Addr())
				if err != nil {
					return fmt.Errorf("listen on %s: %w", server.Addr(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", listener.Addr())

				errCh := make(chan error, 1)
				go func() { errCh <- server.Serve(listener) }()

				select {
				case err := <-errCh:
					return err
				case <-signalCtx.Done():
				}
				shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(signalCtx), shutdownTimeout)
				defer cancelShutdown()
				if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				return <-errCh
			})
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default paths.api_bind)")
	return cmd
}
