package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/memkv/internal/cli/output"
)

// call sends one request on the session connection.
func call(c *cli.Context, args ...string) (any, error) {
	s := getSession(c)
	if s == nil {
		return nil, errNoSession
	}

	ctx, cancel := context.WithTimeout(c.Context, s.timeout)
	defer cancel()
	return s.mgr.Call(ctx, args...)
}

// render writes a result in the session format.
func render(c *cli.Context, data any) error {
	format := output.FormatTable
	if s := getSession(c); s != nil {
		format = s.format
	}
	return output.NewFormatter(format).Format(c.App.Writer, data)
}

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return fmt.Errorf("%s: expected %d argument(s), got %d (usage: %s %s)",
			c.Command.Name, n, c.NArg(), c.Command.Name, c.Command.ArgsUsage)
	}
	return nil
}

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the server answers",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 0); err != nil {
				return err
			}
			reply, err := call(c, "PING")
			if err != nil {
				return err
			}
			return render(c, reply)
		},
	}
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Have the server repeat a message",
		ArgsUsage: "MESSAGE",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			reply, err := call(c, "ECHO", c.Args().First())
			if err != nil {
				return err
			}
			return render(c, reply)
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value, optionally expiring after --px milliseconds",
		ArgsUsage: "KEY VALUE [PX MILLISECONDS]",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:  "px",
				Usage: "Expire after this many milliseconds",
			},
		},
		Action: setAction,
	}
}

func setAction(c *cli.Context) error {
	args := c.Args().Slice()

	var px string
	switch {
	case len(args) == 4 && strings.EqualFold(strings.TrimLeft(args[2], "-"), "px"):
		if _, err := strconv.ParseUint(args[3], 10, 64); err != nil {
			return fmt.Errorf("set: invalid PX %q", args[3])
		}
		px = args[3]
	case len(args) == 2:
		if c.IsSet("px") {
			px = strconv.FormatUint(c.Uint64("px"), 10)
		}
	default:
		return fmt.Errorf("set: expected KEY VALUE [PX MILLISECONDS], got %d argument(s)", len(args))
	}

	req := []string{"SET", args[0], args[1]}
	if px != "" {
		req = append(req, "px", px)
	}

	reply, err := call(c, req...)
	if err != nil {
		return err
	}
	return render(c, reply)
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Read a value; prints (nil) when absent or expired",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			reply, err := call(c, "GET", c.Args().First())
			if err != nil {
				return err
			}
			return render(c, reply)
		},
	}
}

// KeysCommand returns the keys command.
func KeysCommand() *cli.Command {
	return &cli.Command{
		Name:      "keys",
		Usage:     "List live keys matching a glob pattern (default *)",
		ArgsUsage: "[PATTERN]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return fmt.Errorf("keys: expected at most 1 argument, got %d", c.NArg())
			}
			pattern := "*"
			if c.NArg() == 1 {
				pattern = c.Args().First()
			}

			reply, err := call(c, "KEYS", pattern)
			if err != nil {
				return err
			}
			return render(c, toStrings(reply))
		},
	}
}

// toStrings narrows an array reply to []string.
func toStrings(reply any) []string {
	items, _ := reply.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
