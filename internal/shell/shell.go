// Package shell implements the interactive autoboard command line.
package shell

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"autoboard/internal/client"
	"autoboard/internal/models"
)

// ErrNotLoggedIn is returned by commands that need a signed in user.
var ErrNotLoggedIn = errors.New("not logged in, run login --token <id token> first")

// Session is the state carried between commands of one shell.
type Session struct {
	Client *client.Client
	User   *models.User
}

// Login verifies token against the server and remembers the user behind it.
func (s *Session) Login(ctx context.Context, token string) (*models.User, error) {
	previous := s.Client.Token()
	s.Client.SetToken(token)

	user, err := s.Client.Me(ctx)
	if err != nil {
		s.Client.SetToken(previous)
		return nil, goerr.Wrap(err, "login failed")
	}
	s.User = user
	return user, nil
}

func (s *Session) requireUser() (*models.User, error) {
	if s.User == nil {
		return nil, ErrNotLoggedIn
	}
	return s.User, nil
}

// Shell reads commands from in and writes results to out.
type Shell struct {
	session *Session
	in      *bufio.Reader
	out     printer
	logger  *slog.Logger
}

func New(session *Session, in io.Reader, out io.Writer, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{
		session: session,
		in:      bufio.NewReader(in),
		out:     printer{w: out},
		logger:  logger,
	}
}

// Session returns the state shared by all commands.
func (s *Shell) Session() *Session {
	return s.session
}

// Run reads commands until exit, quit or end of input. Command failures are
// printed and do not stop the loop.
func (s *Shell) Run(ctx context.Context) error {
	s.out.info("autoboard shell. Type help for commands, exit to leave.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.out.prompt("autoboard> ")

		line, err := s.readLine()
		if errors.Is(err, io.EOF) && line == "" {
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return goerr.Wrap(err, "read command")
		}

		args, perr := splitArgs(line)
		if perr != nil {
			s.out.error(perr)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}

		if err := s.Execute(ctx, args); err != nil {
			s.logger.Debug("command failed", slog.String("command", args[0]), slog.Any("error", err))
			s.out.error(err)
		}
	}
}

// ask prints label and returns the next input line without surrounding spaces.
func (s *Shell) ask(label string) (string, error) {
	s.out.prompt(label)
	line, err := s.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return "", goerr.Wrap(err, "read answer")
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", goerr.New("input closed")
	}
	return line, nil
}

func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	return strings.TrimSpace(line), err
}

// splitArgs splits a command line on spaces, keeping quoted parts together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, goerr.New("unterminated quote", goerr.V("line", line))
	}
	if inToken {
		args = append(args, current.String())
	}
	return args, nil
}
