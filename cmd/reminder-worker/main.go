package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"librospese/internal/amqp"
	"librospese/internal/cli"
	"librospese/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting reminder-worker")

	st := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer st.Close()

	client := cli.InitAMQP(logger, cfg)
	var publisher services.ReminderPublisher
	if client != nil {
		defer client.Close()
		publisher = client
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled, due payments will only be logged")
	}

	processor := services.NewReminderProcessor(st, publisher)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return processor.Run(gctx, cfg.ReminderInterval)
	})
	if client != nil {
		// Consume our own queue as the notification channel: each event is
		// surfaced in the worker log until a real notifier takes the queue.
		g.Go(func() error {
			return client.ConsumeReminders(gctx, func(msg *amqp.ReminderMessage) error {
				logger.Info("Payment reminder",
					"record_id", msg.RecordID,
					"category", msg.Category,
					"amount", msg.Amount,
					"due_date", msg.DueDate,
					"days_left", msg.DaysLeft)
				return nil
			})
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Reminder worker error", "error", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Reminder worker stopped gracefully")
}
