package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"librospese/internal/cli"
	apphttp "librospese/internal/http"
	"librospese/internal/services"
	"librospese/internal/store"
	"librospese/internal/store/memory"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	var (
		records     store.RecordStore
		attachments store.AttachmentStore
	)
	switch cfg.DataBackend {
	case "sqlite":
		st := cli.InitSQLite(logger, cfg.SQLiteDBPath)
		defer st.Close()
		records, attachments = st, st
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		st := memory.New()
		records, attachments = st, st
		logger.Info("Initialized memory backend")
	}

	ledger := services.NewLedgerService(context.Background(), records, attachments)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, cfg.MaxAttachmentBytes)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting librospese server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
