package repl

import "strings"

// DefaultCommands are the words offered for completion.
var DefaultCommands = []string{
	"ping", "echo", "set", "get", "keys", "config get",
	"help", "history", "exit", "quit",
}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over commands, or DefaultCommands when none are given.
func NewCompleter(commands ...string) *Completer {
	if len(commands) == 0 {
		commands = DefaultCommands
	}
	return &Completer{commands: commands}
}

// Complete returns completion suggestions for the given prefix.
// Matching ignores case.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
