package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/yndnr/memkv/internal/cli/config"
	"github.com/yndnr/memkv/internal/cli/connection"
	"github.com/yndnr/memkv/internal/cli/output"
	"github.com/yndnr/memkv/internal/infra/buildinfo"
)

const sessionKey = "session"

// session is the per-run state shared by every command, and by every
// line of a REPL.
type session struct {
	mgr     *connection.Manager
	format  output.Format
	timeout time.Duration

	// owned sessions are closed by the app that created them.
	owned bool
	inREPL bool
}

// App creates the CLI application.
func App() *cli.App {
	return newApp(nil)
}

func newApp(shared *session) *cli.App {
	app := &cli.App{
		Name:                 "memkv-cli",
		Usage:                "memkv command-line client",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			SetCommand(),
			GetCommand(),
			KeysCommand(),
			ConfigCommand(),
			REPLCommand(),
		},
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return fmt.Errorf("unknown command %q", c.Args().First())
			}
			return cli.ShowAppHelp(c)
		},
		Metadata: map[string]any{},
	}

	if shared != nil {
		app.Metadata[sessionKey] = shared
		return app
	}

	app.Before = func(c *cli.Context) error {
		s, err := newSession(c)
		if err != nil {
			return err
		}
		c.App.Metadata[sessionKey] = s
		return nil
	}
	app.After = func(c *cli.Context) error {
		if s := getSession(c); s != nil && s.owned {
			return s.mgr.Disconnect()
		}
		return nil
	}
	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "memkv server address",
			EnvVars: []string{"MEMKV_SERVER"},
			Value:   cliconfig.Default().DefaultServer,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			EnvVars: []string{"MEMKV_OUTPUT"},
			Value:   string(output.FormatTable),
		},
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "Server profile from the CLI config file",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"MEMKV_CLI_CONFIG"},
			Value:   cliconfig.DefaultConfigPath(),
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Dial and request timeout",
			Value: cliconfig.Default().Timeout,
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	Output  string
	Profile string
	Config  string
	Timeout time.Duration
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:  c.String("server"),
		Output:  c.String("output"),
		Profile: c.String("profile"),
		Config:  c.String("config"),
		Timeout: c.Duration("timeout"),
	}
}

// newSession resolves settings with the precedence flag/env, then CLI
// config file, then built-in default.
func newSession(c *cli.Context) (*session, error) {
	flags := ParseGlobalFlags(c)

	cfg, err := cliconfig.Load(flags.Config)
	if err != nil {
		return nil, fmt.Errorf("load cli config: %w", err)
	}

	server := flags.Server
	if !c.IsSet("server") || flags.Profile != "" {
		if server, err = cfg.Server(flags.Profile); err != nil {
			return nil, err
		}
	}

	formatName := flags.Output
	if !c.IsSet("output") && cfg.DefaultOutput != "" {
		formatName = cfg.DefaultOutput
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	timeout := flags.Timeout
	if !c.IsSet("timeout") && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &session{
		mgr:     connection.NewManager(server, timeout),
		format:  format,
		timeout: timeout,
		owned:   true,
	}, nil
}

func getSession(c *cli.Context) *session {
	s, _ := c.App.Metadata[sessionKey].(*session)
	return s
}

// errNoSession means a command ran without the app Before hook.
var errNoSession = errors.New("cli session not initialized")
