package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/pocketfin/pocketfin/internal/config"
	"github.com/pocketfin/pocketfin/internal/finance"
	"github.com/pocketfin/pocketfin/internal/httpapi"
	"github.com/pocketfin/pocketfin/internal/media"
	"github.com/pocketfin/pocketfin/internal/notify"
	"github.com/pocketfin/pocketfin/internal/service/stats"
	"github.com/pocketfin/pocketfin/internal/service/transaction"
	"github.com/pocketfin/pocketfin/internal/service/wallet"
	"github.com/pocketfin/pocketfin/internal/storage/memory"
	pgstore "github.com/pocketfin/pocketfin/internal/storage/postgres"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := buildLoggerFromEnv()
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration invalid", "err", err)
		os.Exit(1)
	}

	var uploader media.Uploader
	if cfg.GCSBucket != "" {
		uploader = media.NewGCSUploader(cfg.GCSBucket)
		logger.Info("image uploads enabled", "bucket", cfg.GCSBucket)
	} else {
		logger.Info("image uploads disabled - no GCS_BUCKET provided")
	}

	var sender notify.Sender
	switch cfg.NotifyBackend {
	case "expo":
		sender = notify.NewExpoSender(cfg.ExpoPushURL)
		logger.Info("push notifications: expo direct")
	case "amqp":
		q, err := notify.NewQueueSender(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("failed to connect to AMQP", "err", err)
			os.Exit(1)
		}
		defer q.Close()
		sender = q
		logger.Info("push notifications: amqp queue", "queue", cfg.AMQPQueue)
	default:
		logger.Info("push notifications disabled")
	}

	var (
		srvMux  http.Handler
		closeFn func()
	)
	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		pg, err := pgstore.Open(ctx, dsn)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFn = pg.Close
		if devSeed() {
			user, wl, err := pg.SeedDev(ctx)
			if err != nil {
				logger.Error("dev seed failed", "err", err)
			} else {
				logger.Info("DEV seed (postgres)", "user_id", user.ID.String(), "wallet_id", wl.ID.String())
			}
		}
		srvMux = buildAPI(pg, pg, uploader, sender, cfg, logger).Handler()
		logger.Info("storage backend: postgres")
	} else {
		store := memory.New()
		user := finance.User{ID: uuid.New(), Name: "Dev User"}
		store.SeedUser(user)
		wl := finance.Wallet{
			ID: uuid.New(), UserID: user.ID, Name: "Cash",
			Balance: decimal.Zero, TotalIncome: decimal.Zero, TotalExpenses: decimal.Zero,
			Created: time.Now().UTC(),
		}
		store.SeedWallet(wl)
		logger.Info("DEV seed (memory)", "user_id", user.ID.String(), "wallet_id", wl.ID.String())
		srvMux = buildAPI(store, nil, uploader, sender, cfg, logger).Handler()
		logger.Info("storage backend: memory")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srvMux,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("pocketfin service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// backend groups the interfaces every service pulls from one store.
type backend interface {
	wallet.Repo
	wallet.Writer
	wallet.Purger
	transaction.Repo
	transaction.Writer
	stats.Reader
}

func buildAPI(st backend, ready httpapi.ReadyChecker, uploader media.Uploader, sender notify.Sender, cfg *config.Config, logger *slog.Logger) *httpapi.Server {
	recon := wallet.NewReconciler(st, st, cfg.StrictEdits)
	walletSvc := wallet.New(st, st, st, uploader, cfg.CascadeBatchSize, logger)
	txSvc := transaction.New(st, st, recon, uploader, sender, logger)
	statsSvc := stats.New(st)
	return httpapi.New(walletSvc, txSvc, statsSvc, ready, logger)
}

func devSeed() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("DEV_SEED")))
	return v == "1" || v == "true" || v == "yes"
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLoggerFromEnv() *slog.Logger {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
