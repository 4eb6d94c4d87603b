package cli

import (
	"github.com/urfave/cli/v2"
	"go.scalc.org/scalc/scalc/go/calcval"
)

// demoExpression is tokenized by the `demo` subcommand.
const demoExpression = "125+14"

type demoCmd struct {
	commonCmd
}

// DemoCommand returns a [*cli.Command] that prints the tokens of a fixed
// expression.
func DemoCommand() *cli.Command {
	cmd := &demoCmd{
		commonCmd: newCommonCmd(),
	}
	return &cli.Command{
		Name:        "demo",
		Description: "demo prints the tokens of " + demoExpression + ".",
		Usage:       "scalc demo",
		Action:      cmd.action,
	}
}

func (cmd *demoCmd) action(cliCtx *cli.Context) error {
	return calcval.PrintExpression(cmd.stdout, demoExpression)
}
