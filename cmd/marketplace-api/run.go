package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	apiserver "github.com/solosphere/marketplace/internal/api_server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the marketplace api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, teardown, err := setup()
		if err != nil {
			return err
		}
		defer teardown()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		s, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := migrate(cfg, s, db); err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		listener, err := newListener(cfg.ListenAddress())
		if err != nil {
			return errors.Wrap(err, "creating listener")
		}

		metricsListener, err := newListener(cfg.Service.MetricsAddress)
		if err != nil {
			return errors.Wrap(err, "creating metrics listener")
		}

		go func() {
			defer cancel()
			server := apiserver.New(cfg, s, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Errorw("Error running server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, metricsListener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Errorw("Error running metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
