package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pocketfin/pocketfin/internal/config"
	"github.com/pocketfin/pocketfin/internal/notify"
)

// notify-worker drains the push notification queue and forwards each message
// to the Expo push gateway. Run it alongside the API when NOTIFY_BACKEND=amqp.
func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notify worker")
		os.Exit(1)
	}

	queue, err := notify.NewQueueSender(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to connect to AMQP", "err", err)
		os.Exit(1)
	}
	defer queue.Close()

	expo := notify.NewExpoSender(cfg.ExpoPushURL)

	logger.Info("notify worker started", "queue", cfg.AMQPQueue)
	err = queue.Consume(ctx, func(msg *notify.PushMessage) error {
		return expo.Send(ctx, msg.Token, msg.Title, msg.Body)
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("consumer stopped unexpectedly", "err", err)
		os.Exit(1)
	}
	logger.Info("notify worker stopped")
}
