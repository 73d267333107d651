// reggie - Python regular expression inspector
//
// Parses patterns into a syntax tree, renders them back, reports their
// structure and matches them against input lines.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"

	"github.com/kolkov/reggie"
)

// version is set at build time via -ldflags.
var version = "dev"

const defaultLogLevel = "warning"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli holds state shared by all subcommands.
type cli struct {
	logLevel string
	logger   *zap.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{logLevel: defaultLogLevel, logger: zap.NewNop()}
	root := &cobra.Command{
		Use:           "reggie",
		Short:         "Inspect Python regular expressions",
		Example:       `reggie analyze '(?P<year>\d{4})-(?P<month>\d{2})'`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setupLogger()
		},
	}
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", defaultLogLevel,
		`Specifies logging level ("error", "warning", "info", "debug")`)

	root.AddCommand(
		c.parseCommand(),
		c.fmtCommand(),
		c.analyzeCommand(),
		c.matchCommand(),
	)
	return root
}

func (c *cli) setupLogger() error {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.OutputPaths = []string{"stderr"}
	config.DisableStacktrace = true
	switch c.logLevel {
	case "error":
		config.Level.SetLevel(zapcore.ErrorLevel)
	case "warning":
		config.Level.SetLevel(zapcore.WarnLevel)
	case "info":
		config.Level.SetLevel(zapcore.InfoLevel)
	case "debug":
		config.Level.SetLevel(zapcore.DebugLevel)
	default:
		return xerrors.Errorf("unsupported value %q for --log-level", c.logLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return xerrors.Errorf("unable to build logger: %w", err)
	}
	c.logger = logger
	return nil
}

// parse builds a pattern with the shared logger and reports warnings.
func (c *cli) parse(pattern string, config *reggie.Config) (*reggie.Pattern, error) {
	if config == nil {
		config = &reggie.Config{}
	}
	config.Logger = c.logger
	config.Filename = "<pattern>"
	p, err := reggie.Parse(pattern, config)
	if err != nil {
		return nil, xerrors.Errorf("invalid pattern %q: %w", pattern, err)
	}
	for _, w := range p.Warnings() {
		c.logger.Warn(w)
	}
	return p, nil
}

func fprintln(cmd *cobra.Command, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), args...)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func boolString(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
