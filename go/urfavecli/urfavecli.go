// Package urfavecli contains helpers for CLIs built on github.com/urfave/cli/v2.
package urfavecli

import (
	cli "github.com/urfave/cli/v2"
	"go.scalc.org/scalc/go/sklog"
)

// LogFlags logs the value of every flag known to the command being run,
// including flags of its parent commands.
func LogFlags(cliContext *cli.Context) {
	for _, name := range cliContext.FlagNames() {
		sklog.Infof("Flags: --%s=%v", name, cliContext.Value(name))
	}
}
