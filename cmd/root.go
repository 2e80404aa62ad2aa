// Package cmd implements the tinyre command line tool.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coregx/tinyre"
)

// ErrNoMatch is returned by match and search when no input matched. The
// tool exits with status 1 in that case, like grep.
var ErrNoMatch = errors.New("no match")

type options struct {
	verbose       bool
	stepLimit     int
	maxDepth      int
	noQuickReject bool

	logger *zap.Logger
}

func (o *options) config() tinyre.Config {
	config := tinyre.DefaultConfig()
	config.StepLimit = o.stepLimit
	config.MaxMatchDepth = o.maxDepth
	config.EnableQuickReject = !o.noQuickReject
	return config
}

func (o *options) compile(pattern string) (*tinyre.Pattern, error) {
	p, err := tinyre.CompileWithConfig(pattern, o.config())
	if err != nil {
		o.logger.Error("invalid pattern", zap.String("pattern", pattern), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// NewRootCmd builds the command tree. Each call returns an independent
// tree, so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

// newRootCmd builds the tree with a preset logger. A nil logger is created
// from the --verbose flag when a command runs.
func newRootCmd(logger *zap.Logger) *cobra.Command {
	opts := &options{logger: logger}

	rootCmd := &cobra.Command{
		Use:           "tinyre",
		Short:         "tinyre - compile, test and apply small rewrite patterns",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logger != nil {
				return nil
			}
			var err error
			if opts.verbose {
				opts.logger, err = zap.NewDevelopment()
			} else {
				opts.logger, err = zap.NewProduction()
			}
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.IntVar(&opts.stepLimit, "step-limit", 0, "Stop matching after this many steps (0 = unbounded)")
	flags.IntVar(&opts.maxDepth, "max-depth", tinyre.DefaultConfig().MaxMatchDepth, "Give up once a match holds this many open choice points")
	flags.BoolVar(&opts.noQuickReject, "no-quick-reject", false, "Always run the full matcher")

	rootCmd.AddCommand(newMatchCmd(opts))
	rootCmd.AddCommand(newSearchCmd(opts))
	rootCmd.AddCommand(newReplaceCmd(opts))
	rootCmd.AddCommand(newInspectCmd(opts))
	rootCmd.AddCommand(newRulesCmd(opts))
	return rootCmd
}

// Execute runs the tool with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
