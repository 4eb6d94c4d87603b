// scalc tokenizes calculator expressions, from the command line or over HTTP.
package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"go.scalc.org/scalc/go/sklog"
	scalccli "go.scalc.org/scalc/scalc/go/cmd/scalc/cli"
)

func main() {
	app := &cli.App{
		Name:        "scalc",
		Description: "scalc splits calculator expressions into numbers and operators.",
		Commands: []*cli.Command{
			scalccli.TokenizeCommand(),
			scalccli.ServeCommand(),
			scalccli.SchemaCommand(),
			scalccli.DemoCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		sklog.Fatal(err)
	}
}
