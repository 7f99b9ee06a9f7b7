package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// ConfigCommand returns the config command group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Read server configuration parameters",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show one parameter (dir, dbfilename)",
				ArgsUsage: "NAME",
				Action:    configGetAction,
			},
		},
	}
}

func configGetAction(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}

	reply, err := call(c, "CONFIG", "GET", c.Args().First())
	if err != nil {
		return err
	}

	pair := toStrings(reply)
	if len(pair) != 2 {
		if reply == nil {
			return render(c, nil)
		}
		return fmt.Errorf("config get: unexpected reply %v", reply)
	}
	return render(c, map[string]string{pair[0]: pair[1]})
}
