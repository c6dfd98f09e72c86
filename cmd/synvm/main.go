// cmd/synvm is the command-line interface to the Synacor Challenge virtual
// machine and assembler.
package main

import (
	"context"
	"os"

	"github.com/ninebark/synvm/internal/cli"
	"github.com/ninebark/synvm/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Assembler(),
	cmd.Executor(),
	cmd.Disassembler(),
}

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
