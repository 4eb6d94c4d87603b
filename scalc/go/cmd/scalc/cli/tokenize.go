package cli

import (
	"bufio"

	"github.com/urfave/cli/v2"
	"go.scalc.org/scalc/go/skerr"
	"go.scalc.org/scalc/go/sklog"
	"go.scalc.org/scalc/scalc/go/calcval"
	"go.scalc.org/scalc/scalc/go/format"
)

const defaultRuleSet = "calc"

// tokenizeCmd holds the flag values for the `tokenize` subcommand.
//
// With no --rules, --rule-set or --format the expressions are printed one
// CalcVal per line, exactly like the `demo` subcommand does.
type tokenizeCmd struct {
	commonCmd
	ruleSet string
	format  string
}

// TokenizeCommand returns a [*cli.Command] that tokenizes each argument, or
// each line of stdin if there are no arguments.
func TokenizeCommand() *cli.Command {
	cmd := &tokenizeCmd{
		commonCmd: newCommonCmd(),
	}
	return &cli.Command{
		Name:        "tokenize",
		Description: "tokenize splits expressions into tokens.",
		Usage:       "scalc tokenize [--rules <file> --rule-set <name>] [--format text|table|json] <expr>...",
		Flags:       cmd.flags(),
		Before:      cmd.before,
		Action:      cmd.action,
	}
}

func (cmd *tokenizeCmd) flags() []cli.Flag {
	fl := []cli.Flag{
		&cli.StringFlag{
			Name:        ruleSetFlagName,
			Value:       "",
			Usage:       "Name of the rule set to tokenize with. Defaults to " + defaultRuleSet + ".",
			Destination: &cmd.ruleSet,
		},
		&cli.StringFlag{
			Name:        formatFlagName,
			Value:       "",
			Usage:       "Output format, one of text, table or json.",
			Destination: &cmd.format,
		},
	}
	return append(fl, cmd.commonCmd.flags()...)
}

// inputs returns the expressions to tokenize.
func (cmd *tokenizeCmd) inputs(cliCtx *cli.Context) ([]string, error) {
	if cliCtx.NArg() > 0 {
		return cliCtx.Args().Slice(), nil
	}
	var ret []string
	scanner := bufio.NewScanner(cmd.stdin)
	for scanner.Scan() {
		ret = append(ret, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, skerr.Wrapf(err, "reading stdin")
	}
	return ret, nil
}

func (cmd *tokenizeCmd) action(cliCtx *cli.Context) error {
	inputs, err := cmd.inputs(cliCtx)
	if err != nil {
		return err
	}

	if cmd.rulesPath == "" && cmd.ruleSet == "" && cmd.format == "" {
		for _, s := range inputs {
			if err := calcval.PrintExpression(cmd.stdout, s); err != nil {
				return err
			}
		}
		return nil
	}

	f := format.Text
	if cmd.format != "" {
		f, err = format.ToFormat(cmd.format)
		if err != nil {
			return err
		}
	}
	ruleSet := cmd.ruleSet
	if ruleSet == "" {
		ruleSet = defaultRuleSet
	}
	cfg, err := cmd.loadConfig(cliCtx.Context)
	if err != nil {
		return err
	}
	p, err := cfg.Parser(ruleSet)
	if err != nil {
		return err
	}
	for _, s := range inputs {
		r := format.Collect(p.Parse(s))
		if r.Error != nil {
			sklog.Debugf("Tokenizing %q with %s: %s", s, ruleSet, r.Error)
		}
		if err := format.Write(cmd.stdout, f, r); err != nil {
			return err
		}
	}
	return nil
}
