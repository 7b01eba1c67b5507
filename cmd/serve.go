package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/samarth/internal/observability"
	"github.com/KaramelBytes/samarth/internal/server"
	"github.com/KaramelBytes/samarth/internal/snapshot"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	servePreload bool
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and JSON API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		metrics := observability.NewMetrics()
		onLoad = func(s *snapshot.Snapshot, elapsed time.Duration, err error) {
			if s != nil {
				metrics.RecordLoad(s.Rainfall.Len(), s.Crops.Len(), elapsed, err)
				return
			}
			metrics.RecordLoad(0, 0, elapsed, err)
		}
		st, err := dataStore()
		if err != nil {
			return err
		}
		if servePreload {
			if _, err := st.Get(); err != nil {
				return err
			}
		}

		addr := cfg.HTTPAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := server.NewServer(server.Options{
			Addr:           addr,
			Store:          st,
			Metrics:        metrics,
			Logger:         logger,
			Period:         periodLabel(),
			Chart:          chartOptions(),
			AllowedOrigins: serveOrigins,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		timeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		logger.WithField("timeout", timeout).Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config http_addr)")
	serveCmd.Flags().BoolVar(&servePreload, "preload", false, "load both datasets before accepting requests")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "cors-origin", nil, "allowed CORS origin (repeatable; default any)")
}
