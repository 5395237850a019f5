// Package shell implements the line-oriented command loop over a catalog.
package shell

import (
	"fmt"
	"strings"
)

const (
	CmdQuit      = "quit"
	CmdChains    = "chains"
	CmdStores    = "stores"
	CmdSelection = "selection"
	CmdCheapest  = "cheapest"
	CmdProducts  = "products"
)

// arity is the exact number of arguments each command takes.
var arity = map[string]int{
	CmdQuit:      0,
	CmdChains:    0,
	CmdStores:    1,
	CmdSelection: 2,
	CmdCheapest:  1,
	CmdProducts:  0,
}

type Command struct {
	Name string
	Args []string
}

// ArityError is a known command with too few or too many arguments.
type ArityError struct {
	Command string
	Got     int
}

func (e *ArityError) Error() string { return "error in command " + e.Command }

type UnknownCommandError struct {
	Token string
}

func (e *UnknownCommandError) Error() string { return "unknown command: " + e.Token }

// Parse splits line on whitespace and checks the argument count against the
// command's arity. A blank line yields the zero Command and no error.
func Parse(line string) (Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Command{}, nil
	}

	name, args := tokens[0], tokens[1:]
	want, ok := arity[name]
	if !ok {
		return Command{}, &UnknownCommandError{Token: name}
	}
	if len(args) != want {
		return Command{}, &ArityError{Command: name, Got: len(args)}
	}
	return Command{Name: name, Args: args}, nil
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s %s", c.Name, strings.Join(c.Args, " "))
}
