package cli

import (
	"github.com/urfave/cli/v2"
	"go.scalc.org/scalc/go/skerr"
	"go.scalc.org/scalc/scalc/go/config"
)

type schemaCmd struct {
	commonCmd
}

// SchemaCommand returns a [*cli.Command] that prints the JSON Schema of rule
// set files.
func SchemaCommand() *cli.Command {
	cmd := &schemaCmd{
		commonCmd: newCommonCmd(),
	}
	return &cli.Command{
		Name:        "schema",
		Description: "schema prints the JSON Schema that --rules files must satisfy.",
		Usage:       "scalc schema",
		Action:      cmd.action,
	}
}

func (cmd *schemaCmd) action(cliCtx *cli.Context) error {
	_, err := cmd.stdout.Write(config.Schema())
	return skerr.Wrap(err)
}
