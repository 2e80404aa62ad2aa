package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coregx/tinyre/internal/rules"
)

func newRulesCmd(opts *options) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Work with YAML rule files",
	}
	rulesCmd.AddCommand(newRulesVerifyCmd(opts))
	rulesCmd.AddCommand(newRulesApplyCmd(opts))
	return rulesCmd
}

func loadRules(opts *options, path string) (*rules.Set, error) {
	f, err := rules.Load(path)
	if err != nil {
		opts.logger.Error("failed to load rules", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	set, err := rules.Compile(f, opts.config(), opts.logger)
	if err != nil {
		opts.logger.Error("failed to compile rules", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	return set, nil
}

func newRulesVerifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Check that every example in a rules file produces its expected output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadRules(opts, args[0])
			if err != nil {
				return err
			}
			failures := set.Verify()
			w := cmd.OutOrStdout()
			for _, f := range failures {
				fmt.Fprintln(w, f)
			}
			if len(failures) > 0 {
				return fmt.Errorf("%d example(s) failed", len(failures))
			}
			fmt.Fprintf(w, "%d rule(s) ok\n", set.Len())
			return nil
		},
	}
}

func newRulesApplyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <file> <word>...",
		Short: "Rewrite words with the first matching rule",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadRules(opts, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, word := range args[1:] {
				out, rule := set.Apply(word)
				if rule == "" {
					rule = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", word, out, rule)
			}
			return nil
		},
	}
}
