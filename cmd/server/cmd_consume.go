package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/flight-booking-admin/internal/config"
	"github.com/iliyamo/flight-booking-admin/internal/logger"
	"github.com/iliyamo/flight-booking-admin/internal/queue"
)

// server consume
var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Append reservation events to <RESERVATION_LOG_DIR>/reservations.log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		qcfg := config.LoadQueueConfig()
		if !qcfg.Enabled {
			return errors.New("QUEUE_ENABLED=false: nothing to consume")
		}
		log := logger.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL")).With("service", "consumer")

		err := queue.NewConsumer(qcfg, log).Run(ctx)
		if errors.Is(err, context.Canceled) {
			log.Info("consumer stopped")
			return nil
		}
		return err
	},
}
