package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"qshare/internal/config"
	"qshare/internal/reaper"
	"qshare/internal/server"
	"qshare/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the qshare API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath, store.Options{
				Retention:        cfg.Limits.Retention.Duration,
				MaxFilesPerGroup: cfg.Limits.MaxFilesPerGroup,
				MaxBytesPerFile:  cfg.Limits.MaxBytesPerFile,
			})
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rp := reaper.New(st, cfg.Limits.SweepInterval.Duration, slog.Default().With("component", "reaper"))
			go rp.Run(ctx)

			srv := server.New(addr, st, server.Options{
				Version:          version,
				ShareBaseURL:     cfg.ShareURLBase(),
				AdminTokenHash:   cfg.AdminTokenHash,
				MaxFilesPerGroup: cfg.Limits.MaxFilesPerGroup,
				MaxBytesPerFile:  cfg.Limits.MaxBytesPerFile,
				MaxBytesPerGroup: cfg.Limits.MaxBytesPerGroup,
				CompressionLevel: cfg.Limits.CompressionLevel,
			}, logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}
