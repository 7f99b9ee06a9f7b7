package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/yndnr/memkv/internal/cli/command"
	"github.com/yndnr/memkv/internal/cli/connection"
	"github.com/yndnr/memkv/internal/cli/output"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		var serverErr *connection.ServerError
		if errors.As(err, &serverErr) {
			output.PrintError(os.Stderr, serverErr)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
