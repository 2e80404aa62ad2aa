package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coregx/tinyre"
)

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <pattern>",
		Short: "Show the compiled node chain and the metrics of a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.compile(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			maxLen := "unbounded"
			if n := p.MaximumLength(); n != tinyre.Unbounded {
				maxLen = fmt.Sprint(n)
			}
			fmt.Fprintf(w, "pattern:     %s\n", p)
			fmt.Fprintf(w, "groups:      %d\n", p.NumGroups())
			for g := 1; g <= p.NumGroups(); g++ {
				fmt.Fprintf(w, "  group %d:   always set = %v\n", g, p.GroupAlwaysSet(g))
			}
			fmt.Fprintf(w, "min length:  %d\n", p.MinimumLength())
			fmt.Fprintf(w, "max length:  %s\n", maxLen)
			fmt.Fprintf(w, "end anchor:  %v\n", p.HasEndAnchor())

			prog := p.Program()
			required := prog.RequiredBytes()
			fmt.Fprintf(w, "required:    %s\n", required.String())
			fmt.Fprintf(w, "literals:    %q\n", prog.RequiredLiterals())
			fmt.Fprintf(w, "program:\n%s", prog)
			return nil
		},
	}
}
