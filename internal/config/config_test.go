package config_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"autoboard/internal/auth"
	"autoboard/internal/config"
)

// parse runs flags through a throwaway command so Destination fields are filled.
func parse(t *testing.T, flags []cli.Flag, args ...string) {
	t.Helper()
	cmd := &cli.Command{
		Name:   "test",
		Flags:  flags,
		Action: func(context.Context, *cli.Command) error { return nil },
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...))).Required()
}

func TestDatabase_Configure(t *testing.T) {
	var logCfg config.Logger
	var dbCfg config.Database
	path := filepath.Join(t.TempDir(), "data", "board.db")

	flags := append(logCfg.Flags(), dbCfg.Flags()...)
	parse(t, flags, "--log-level", "error", "--db-dsn", path)

	logger, closer, err := logCfg.Configure()
	gt.NoError(t, err).Required()
	defer closer()

	store, err := dbCfg.Configure(logger)
	gt.NoError(t, err).Required()
	gt.NoError(t, store.Close())
}

func TestDatabase_UnknownDriver(t *testing.T) {
	var logCfg config.Logger
	var dbCfg config.Database
	parse(t, append(logCfg.Flags(), dbCfg.Flags()...), "--db-driver", "oracle")

	logger, closer, err := logCfg.Configure()
	gt.NoError(t, err).Required()
	defer closer()

	_, err = dbCfg.Configure(logger)
	gt.Error(t, err)
}

func TestLogger_BadLevel(t *testing.T) {
	var logCfg config.Logger
	parse(t, logCfg.Flags(), "--log-level", "chatty")

	_, _, err := logCfg.Configure()
	gt.Error(t, err)
}

func TestAuth_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("no auth user", func(t *testing.T) {
		var logCfg config.Logger
		var authCfg config.Auth
		parse(t, append(logCfg.Flags(), authCfg.Flags()...), "--log-level", "error", "--no-auth-user", "dev")
		logger, closer, err := logCfg.Configure()
		gt.NoError(t, err).Required()
		defer closer()

		v, err := authCfg.Configure(ctx, logger)
		gt.NoError(t, err).Required()
		id, err := v.Verify(ctx, "")
		gt.NoError(t, err).Required()
		gt.Value(t, id.UserID).Equal("dev")
	})

	t.Run("client id required", func(t *testing.T) {
		var logCfg config.Logger
		var authCfg config.Auth
		parse(t, append(logCfg.Flags(), authCfg.Flags()...), "--log-level", "error")
		logger, closer, err := logCfg.Configure()
		gt.NoError(t, err).Required()
		defer closer()

		_, err = authCfg.Configure(ctx, logger)
		gt.Error(t, err)
	})

	t.Run("validator", func(t *testing.T) {
		var logCfg config.Logger
		var authCfg config.Auth
		parse(t, append(logCfg.Flags(), authCfg.Flags()...), "--log-level", "error", "--google-client-id", "client-1")
		logger, closer, err := logCfg.Configure()
		gt.NoError(t, err).Required()
		defer closer()

		v, err := authCfg.Configure(ctx, logger)
		gt.NoError(t, err).Required()
		_, ok := v.(*auth.Validator)
		gt.Bool(t, ok).True()
	})
}

func TestHTTPAndClientDefaults(t *testing.T) {
	var httpCfg config.HTTP
	var clientCfg config.Client
	parse(t, append(httpCfg.Flags(), clientCfg.Flags()...), "--cors-origin", "http://a.example", "--timeout", "3s")

	gt.Value(t, httpCfg.Addr()).Equal(":8080")
	gt.Array(t, httpCfg.CORSOrigins()).Length(1)
	gt.Value(t, clientCfg.APIURL()).Equal("http://localhost:8080")
	gt.Value(t, clientCfg.Timeout()).Equal(3 * time.Second)
}
