package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"autoboard/internal/client"
	"autoboard/internal/config"
	"autoboard/internal/shell"
)

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args); err != nil {
		_, _ = color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	var (
		logCfg    config.Logger
		clientCfg config.Client
	)

	app := &cli.Command{
		Name:      "autoboard-shell",
		Usage:     "Interactive client of the autoboard server",
		ArgsUsage: "[-- command [flags]]",
		Flags:     append(clientCfg.Flags(), logCfg.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger, closer, err := logCfg.Configure()
			if err != nil {
				return err
			}
			defer closer()

			api, err := client.New(clientCfg.APIURL(), client.WithTimeout(clientCfg.Timeout()))
			if err != nil {
				return err
			}

			session := &shell.Session{Client: api}
			if token := clientCfg.Token(); token != "" {
				if _, err := session.Login(ctx, token); err != nil {
					logger.Warn("token from flags rejected", slog.String("error", err.Error()))
				}
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sh := shell.New(session, os.Stdin, os.Stdout, logger)
			if c.Args().Present() {
				return sh.Execute(ctx, c.Args().Slice())
			}
			return sh.Run(ctx)
		},
	}

	return app.Run(ctx, args)
}
