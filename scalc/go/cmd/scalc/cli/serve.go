package cli

import (
	"net/http"

	"github.com/urfave/cli/v2"
	"go.scalc.org/scalc/go/metrics2"
	"go.scalc.org/scalc/go/skerr"
	"go.scalc.org/scalc/go/sklog"
	"go.scalc.org/scalc/scalc/go/server"
	"go.scalc.org/scalc/scalc/go/tokencache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// serveCmd holds the flag values for the `serve` subcommand.
type serveCmd struct {
	commonCmd
	port           string
	promPort       string
	cacheSize      int
	qps            float64
	burst          int
	maxInputBytes  int
	allowedOrigins cli.StringSlice

	// listenAndServe is replaced in tests.
	listenAndServe func(addr string, h http.Handler) error
}

// ServeCommand returns a [*cli.Command] that runs the tokenize HTTP service.
func ServeCommand() *cli.Command {
	cmd := &serveCmd{
		commonCmd:      newCommonCmd(),
		listenAndServe: http.ListenAndServe,
	}
	return &cli.Command{
		Name:        "serve",
		Description: "serve runs the tokenize HTTP service.",
		Usage:       "scalc serve --port :8000 [--rules <file>] [--cache-size <n>]",
		Flags:       cmd.flags(),
		Before:      cmd.before,
		Action:      cmd.action,
	}
}

func (cmd *serveCmd) flags() []cli.Flag {
	fl := []cli.Flag{
		&cli.StringFlag{
			Name:        portFlagName,
			Value:       ":8000",
			Usage:       "HTTP service address (e.g., ':8000')",
			Destination: &cmd.port,
		},
		&cli.StringFlag{
			Name:        promPortFlagName,
			Value:       "",
			Usage:       "Metrics service address (e.g., ':20000'). Metrics are always served on --port at /metrics as well.",
			Destination: &cmd.promPort,
		},
		&cli.IntFlag{
			Name:        cacheSizeFlagName,
			Value:       1000,
			Usage:       "Number of scan results to keep in memory. 0 disables the cache.",
			Destination: &cmd.cacheSize,
		},
		&cli.Float64Flag{
			Name:        qpsFlagName,
			Value:       0,
			Usage:       "Tokenize requests allowed per second. 0 means no limit.",
			Destination: &cmd.qps,
		},
		&cli.IntFlag{
			Name:        burstFlagName,
			Value:       10,
			Usage:       "Tokenize requests allowed in a burst above --qps.",
			Destination: &cmd.burst,
		},
		&cli.IntFlag{
			Name:        maxInputBytesFlagName,
			Value:       server.DefaultMaxInputBytes,
			Usage:       "Longest input accepted by /_/tokenize, in bytes. Longer inputs get a 413.",
			Destination: &cmd.maxInputBytes,
		},
		&cli.StringSliceFlag{
			Name:        allowedOriginsFlagName,
			Usage:       "Origins allowed to make cross-origin requests, may be '*'.",
			Destination: &cmd.allowedOrigins,
		},
	}
	return append(fl, cmd.commonCmd.flags()...)
}

// handler builds the service from the flag values.
func (cmd *serveCmd) handler(cliCtx *cli.Context) (http.Handler, error) {
	if cmd.cacheSize < 0 {
		return nil, skerr.Fmt("--%s must not be negative, got %d", cacheSizeFlagName, cmd.cacheSize)
	}
	if cmd.maxInputBytes < 0 {
		return nil, skerr.Fmt("--%s must not be negative, got %d", maxInputBytesFlagName, cmd.maxInputBytes)
	}
	if cmd.qps < 0 {
		return nil, skerr.Fmt("--%s must not be negative, got %g", qpsFlagName, cmd.qps)
	}
	cfg, err := cmd.loadConfig(cliCtx.Context)
	if err != nil {
		return nil, err
	}
	var cache *tokencache.Cache
	if cmd.cacheSize > 0 {
		cache, err = tokencache.New(cmd.cacheSize)
		if err != nil {
			return nil, err
		}
	}
	var limiter *rate.Limiter
	if cmd.qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(cmd.qps), cmd.burst)
	}
	sklog.Infof("Serving rule sets: %q", cfg.Names())
	return server.New(cfg.Parsers(), cache, limiter, cmd.maxInputBytes).Handler(cmd.allowedOrigins.Value()), nil
}

func (cmd *serveCmd) action(cliCtx *cli.Context) error {
	h, err := cmd.handler(cliCtx)
	if err != nil {
		return err
	}
	var g errgroup.Group
	if cmd.promPort != "" {
		g.Go(func() error {
			sklog.Infof("Serving metrics on %s", cmd.promPort)
			return skerr.Wrap(cmd.listenAndServe(cmd.promPort, metrics2.Handler()))
		})
	}
	g.Go(func() error {
		sklog.Infof("Ready to serve on %s", cmd.port)
		return skerr.Wrap(cmd.listenAndServe(cmd.port, h))
	})
	return g.Wait()
}
