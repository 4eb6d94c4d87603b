// Package cli implements the subcommands of the scalc executable.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.scalc.org/scalc/go/sklog"
	"go.scalc.org/scalc/go/urfavecli"
	"go.scalc.org/scalc/scalc/go/config"
)

// flag names
const (
	rulesFlagName          = "rules"
	ruleSetFlagName        = "rule-set"
	formatFlagName         = "format"
	portFlagName           = "port"
	promPortFlagName       = "prom-port"
	cacheSizeFlagName      = "cache-size"
	qpsFlagName            = "qps"
	burstFlagName          = "burst"
	allowedOriginsFlagName = "allowed-origins"
	maxInputBytesFlagName  = "max-input-bytes"
	verboseFlagName        = "verbose"
)

// commonCmd holds the flags and output streams shared by every subcommand.
type commonCmd struct {
	rulesPath string
	verbose   bool

	stdin  io.Reader
	stdout io.Writer
}

func newCommonCmd() commonCmd {
	return commonCmd{
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
}

func (cmd *commonCmd) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        rulesFlagName,
			Value:       "",
			Usage:       "JSON5 file of named rule sets. The built-in rule sets are used if empty.",
			Destination: &cmd.rulesPath,
		},
		&cli.BoolFlag{
			Name:        verboseFlagName,
			Value:       false,
			Usage:       "Log at debug level.",
			Destination: &cmd.verbose,
		},
	}
}

// before runs ahead of the action of every subcommand.
func (cmd *commonCmd) before(cliCtx *cli.Context) error {
	sklog.SetVerbose(cmd.verbose)
	urfavecli.LogFlags(cliCtx)
	return nil
}

// loadConfig returns the rule sets from --rules, or the built-in ones.
func (cmd *commonCmd) loadConfig(ctx context.Context) (*config.Config, error) {
	if cmd.rulesPath == "" {
		return config.Default(ctx)
	}
	return config.Load(ctx, cmd.rulesPath)
}
