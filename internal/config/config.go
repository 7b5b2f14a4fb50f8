// Package config groups command line flags of both binaries and turns them
// into configured components.
package config

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"autoboard/internal/auth"
	"autoboard/internal/logging"
	"autoboard/internal/storage"
)

// Logger holds CLI flags for log output.
type Logger struct {
	level  string
	format string
	file   string
}

// Flags returns CLI flags for logger configuration
func (l *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Category:    "Logging",
			Sources:     cli.EnvVars("AUTOBOARD_LOG_LEVEL"),
			Destination: &l.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (text or json)",
			Value:       "text",
			Category:    "Logging",
			Sources:     cli.EnvVars("AUTOBOARD_LOG_FORMAT"),
			Destination: &l.format,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "Also write logs to this file, rotated at 50MB",
			Category:    "Logging",
			Sources:     cli.EnvVars("AUTOBOARD_LOG_FILE"),
			Destination: &l.file,
		},
	}
}

// Configure builds the logger. The caller runs the returned closer on exit.
func (l *Logger) Configure() (*slog.Logger, func(), error) {
	logger, closer, err := logging.New(logging.Config{
		Level:      l.level,
		Format:     l.format,
		File:       l.file,
		MaxSizeMB:  50,
		MaxBackups: 3,
	})
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure logger")
	}
	return logger, closer, nil
}

// LogValue renders the logger flags in startup logs.
func (l Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", l.level),
		slog.String("format", l.format),
		slog.String("file", l.file),
	)
}

// Database holds CLI flags for the relational store.
type Database struct {
	driver string
	dsn    string
}

// Flags returns CLI flags for database configuration
func (d *Database) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db-driver",
			Usage:       "Database driver (sqlite or postgres)",
			Value:       storage.DriverSQLite,
			Category:    "Database",
			Sources:     cli.EnvVars("AUTOBOARD_DB_DRIVER"),
			Destination: &d.driver,
		},
		&cli.StringFlag{
			Name:        "db-dsn",
			Usage:       "sqlite file path or postgres connection string",
			Value:       "data/autoboard.db",
			Category:    "Database",
			Sources:     cli.EnvVars("AUTOBOARD_DB_DSN"),
			Destination: &d.dsn,
		},
	}
}

// Configure opens the store. The caller is responsible for calling Close().
func (d *Database) Configure(logger *slog.Logger) (*storage.Store, error) {
	store, err := storage.Open(d.driver, d.dsn, logger)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("driver", d.driver))
	}
	logger.Info("database ready", slog.String("driver", d.driver))
	return store, nil
}

// Auth holds CLI flags for ID token verification.
type Auth struct {
	clientID   string
	jwksURL    string
	issuers    []string
	noAuthUser string
}

// Flags returns CLI flags for authentication
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "google-client-id",
			Usage:       "OAuth client ID expected in the token audience",
			Category:    "Authentication",
			Sources:     cli.EnvVars("AUTOBOARD_GOOGLE_CLIENT_ID"),
			Destination: &a.clientID,
		},
		&cli.StringFlag{
			Name:        "jwks-url",
			Usage:       "URL of the JSON Web Key Set used to verify tokens",
			Value:       auth.GoogleJWKSURL,
			Category:    "Authentication",
			Sources:     cli.EnvVars("AUTOBOARD_JWKS_URL"),
			Destination: &a.jwksURL,
		},
		&cli.StringSliceFlag{
			Name:        "token-issuer",
			Usage:       "Accepted token issuer (repeatable)",
			Value:       slices.Clone(auth.GoogleIssuers),
			Category:    "Authentication",
			Sources:     cli.EnvVars("AUTOBOARD_TOKEN_ISSUER"),
			Destination: &a.issuers,
		},
		&cli.StringFlag{
			Name:        "no-auth-user",
			Usage:       "Skip token verification and act as this user ID (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("AUTOBOARD_NO_AUTH_USER"),
			Destination: &a.noAuthUser,
		},
	}
}

// Configure returns the verifier selected by the flags.
func (a *Auth) Configure(ctx context.Context, logger *slog.Logger) (auth.Verifier, error) {
	if a.noAuthUser != "" {
		logger.Warn("running without token verification (development only)", slog.String("user_id", a.noAuthUser))
		return auth.NoAuth{UserID: a.noAuthUser}, nil
	}
	if a.clientID == "" {
		return nil, goerr.New("google-client-id is required unless no-auth-user is set")
	}

	v, err := auth.NewValidator(ctx, a.clientID, a.jwksURL, auth.WithIssuers(a.issuers...))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure token validator")
	}
	logger.Info("token verification enabled", slog.String("jwks_url", a.jwksURL))
	return v, nil
}

// HTTP holds CLI flags for the listener.
type HTTP struct {
	addr        string
	corsOrigins []string
}

// Flags returns CLI flags for the HTTP server
func (h *HTTP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP listen address",
			Value:       ":8080",
			Sources:     cli.EnvVars("AUTOBOARD_ADDR"),
			Destination: &h.addr,
		},
		&cli.StringSliceFlag{
			Name:        "cors-origin",
			Usage:       "Browser origin allowed to call the API (repeatable)",
			Sources:     cli.EnvVars("AUTOBOARD_CORS_ORIGIN"),
			Destination: &h.corsOrigins,
		},
	}
}

// Addr returns the listen address
func (h *HTTP) Addr() string {
	return h.addr
}

// CORSOrigins returns the allowed browser origins
func (h *HTTP) CORSOrigins() []string {
	return h.corsOrigins
}

// Client holds CLI flags of the shell client.
type Client struct {
	apiURL  string
	token   string
	timeout time.Duration
}

// Flags returns CLI flags for the REST client
func (c *Client) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "Base URL of the autoboard server",
			Value:       "http://localhost:8080",
			Sources:     cli.EnvVars("AUTOBOARD_API_URL"),
			Destination: &c.apiURL,
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "ID token used for authenticated commands",
			Sources:     cli.EnvVars("AUTOBOARD_TOKEN"),
			Destination: &c.token,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout of a single API request",
			Value:       10 * time.Second,
			Sources:     cli.EnvVars("AUTOBOARD_TIMEOUT"),
			Destination: &c.timeout,
		},
	}
}

// APIURL returns the server base URL
func (c *Client) APIURL() string {
	return c.apiURL
}

// Token returns the ID token given on the command line
func (c *Client) Token() string {
	return c.token
}

// Timeout returns the per request timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}
