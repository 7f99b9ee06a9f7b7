package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/memkv/internal/cli/connection"
	"github.com/yndnr/memkv/internal/cli/output"
	"github.com/yndnr/memkv/internal/cli/repl"
)

// REPLCommand returns the repl command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start an interactive session",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "save-history",
				Usage: "Persist history to " + repl.DefaultHistoryPath(),
			},
		},
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	s := getSession(c)
	if s == nil {
		return errNoSession
	}
	if s.inREPL {
		return errors.New("already in repl")
	}

	historyFile := ""
	if c.Bool("save-history") {
		historyFile = repl.DefaultHistoryPath()
	}

	fmt.Fprintf(c.App.Writer, "connected to %s, type help or exit\n", s.mgr.Addr())

	r := repl.New(lineExecutor(c, s),
		repl.WithInput(c.App.Reader),
		repl.WithOutput(c.App.Writer),
		repl.WithHistory(repl.NewHistory(historyFile)),
	)
	return r.Run(c.Context)
}

// lineExecutor runs each REPL line through a fresh app that shares the
// session, so the connection survives between lines.
func lineExecutor(c *cli.Context, s *session) repl.Executor {
	shared := *s
	shared.owned = false
	shared.inREPL = true

	return func(ctx context.Context, args []string) error {
		app := newApp(&shared)
		app.Reader = c.App.Reader
		app.Writer = c.App.Writer
		app.ErrWriter = c.App.ErrWriter
		app.HideVersion = true
		app.ExitErrHandler = func(*cli.Context, error) {}

		err := app.RunContext(ctx, append([]string{c.App.Name}, args...))

		var serverErr *connection.ServerError
		if errors.As(err, &serverErr) {
			output.PrintError(c.App.Writer, serverErr)
			return nil
		}
		return err
	}
}
