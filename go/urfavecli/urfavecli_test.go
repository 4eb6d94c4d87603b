package urfavecli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v2"
	"go.scalc.org/scalc/go/sklog/sklogimpl"
	"go.scalc.org/scalc/go/sklog/stdlogging"
)

type fauxSyncWriter struct {
	b *bytes.Buffer
}

func newFauxSyncWriter() fauxSyncWriter {
	return fauxSyncWriter{
		b: &bytes.Buffer{},
	}
}

func (f *fauxSyncWriter) Write(p []byte) (n int, err error) {
	return f.b.Write(p)
}

func (f *fauxSyncWriter) Sync() error {
	return nil
}

func (f *fauxSyncWriter) String() string {
	return f.b.String()
}

func TestLogFlags(t *testing.T) {
	logsBuffer := newFauxSyncWriter()

	// Send logs to a buffer.
	sklogimpl.SetLogger(stdlogging.New(&logsBuffer, false))
	defer sklogimpl.SetLogger(stdlogging.New(os.Stderr, false))

	commandFlags := []cli.Flag{
		&cli.BoolFlag{
			Name: "verbose",
		},
		&cli.StringFlag{
			Name: "rules",
		},
		&cli.StringFlag{
			Name:  "rule-set",
			Value: "calc",
		},
		&cli.StringFlag{
			Name: "format",
		},
		&cli.IntFlag{
			Name: "cache-size",
		},
		&cli.DurationFlag{
			Name: "timeout",
		},
		&cli.StringSliceFlag{
			Name: "expr",
		},
	}
	app := &cli.App{
		Name: "testapp",
		Commands: []*cli.Command{
			{
				Name:  "my-command",
				Flags: commandFlags,
				Action: func(c *cli.Context) error {
					LogFlags(c)
					return nil
				},
			},
		},
	}

	// Don't print anything on stderr/stdout.
	oldHelpPrinter := cli.HelpPrinter
	cli.HelpPrinter = func(_ io.Writer, _ string, _ interface{}) {}
	defer func() {
		cli.HelpPrinter = oldHelpPrinter
	}()

	err := app.Run([]string{
		"testapp",
		"my-command",
		"--rules=rules.json5",
		"--format=table",
		"--cache-size=128",
		"--timeout=24s",
	})
	require.NoError(t, err)

	flagLines := []string{}
	for _, line := range strings.Split(logsBuffer.String(), "\n") {
		if strings.Contains(line, "Flags:") {
			// Strip off everything before Flags: which contains timestamps and
			// other stuff that changes.
			flagLines = append(flagLines, strings.Split(line, "Flags:")[1])
		}
	}

	for _, expected := range []string{
		" --verbose=false",
		" --rules=rules.json5",
		" --rule-set=calc",
		" --format=table",
		" --cache-size=128",
		" --timeout=24s",
	} {
		require.Contains(t, flagLines, expected)
	}
}
