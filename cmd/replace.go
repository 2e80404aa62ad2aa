package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coregx/tinyre"
)

func newReplaceCmd(opts *options) *cobra.Command {
	var search bool

	cmd := &cobra.Command{
		Use:   "replace <pattern> <template> <text>...",
		Short: `Rewrite matching texts with a \0..\3 template`,
		Long: `Rewrite each text that matches pattern with template.

The template may refer to the whole match as \0 and to groups as \1 to \3.
Texts that do not match are printed unchanged.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.compile(args[0])
			if err != nil {
				return err
			}
			tmpl := tinyre.CompileTemplate(args[1])

			w := cmd.OutOrStdout()
			for _, text := range args[2:] {
				var m *tinyre.PatternMatch
				if search {
					m = p.Search(text)
				} else {
					m = p.Match(text)
				}
				out, err := tmpl.Expand(m)
				if err != nil {
					opts.logger.Debug("left unchanged", zap.String("text", text), zap.Error(err))
					fmt.Fprintln(w, text)
					continue
				}
				fmt.Fprintln(w, out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&search, "search", false, "Search for the match instead of anchoring at the start")
	return cmd
}
