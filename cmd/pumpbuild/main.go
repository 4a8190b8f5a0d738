package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cli holds the flags shared by all commands.
type cli struct {
	out        io.Writer
	dir        string
	configPath string
	verbose    bool
	log        *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out, log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "pumpbuild",
		Short: "Combine the template and JS fragments into one deployable file",
		Long: `pumpbuild merges the template document and the fragment files into a
single artifact. Fragments are inserted in front of the anchor line, in the
configured preferred order followed by the remaining files alphabetically,
each re-indented and labelled with the file it came from.

Settings are read from assemble.yml (or assemble.yaml / assemble.toml) in
--dir. Without a config file the built-in defaults are used; run
'pumpbuild init' to write them out.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(c.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&c.dir, "dir", "d", ".", "project directory holding the config and inputs")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: assemble.yml in --dir)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.newInitCmd(),
		c.newWatchCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(out, "pumpbuild %s\n", version)
			},
		},
	)
	return root
}

// newLogger builds the stderr logger. Only warnings and errors are shown
// unless verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
