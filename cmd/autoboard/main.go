package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"autoboard/internal/config"
	"autoboard/internal/server"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "autoboard:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	var (
		logCfg  config.Logger
		dbCfg   config.Database
		authCfg config.Auth
		httpCfg config.HTTP
	)

	flags := append(httpCfg.Flags(), logCfg.Flags()...)
	flags = append(flags, dbCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)

	app := &cli.Command{
		Name:    "autoboard",
		Usage:   "Task board REST backend",
		Version: version,
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger, closer, err := logCfg.Configure()
			if err != nil {
				return err
			}
			defer closer()
			logger.Info("starting autoboard", slog.String("version", version), slog.Any("logger", logCfg))

			store, err := dbCfg.Configure(logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Error("failed to close database", slog.String("error", err.Error()))
				}
			}()

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			verifier, err := authCfg.Configure(ctx, logger)
			if err != nil {
				return err
			}

			srv := server.New(store, verifier, logger, server.WithCORSOrigins(httpCfg.CORSOrigins()...))
			return serve(ctx, logger, &http.Server{
				Addr:              httpCfg.Addr(),
				Handler:           srv.Engine(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
			})
		},
	}

	return app.Run(ctx, args)
}

// serve runs httpServer until ctx is cancelled, then drains it for 5 seconds.
func serve(ctx context.Context, logger *slog.Logger, httpServer *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return goerr.Wrap(err, "server stopped unexpectedly", goerr.V("addr", httpServer.Addr))
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
		return goerr.Wrap(err, "shutdown server")
	}

	logger.Info("server stopped")
	return nil
}
