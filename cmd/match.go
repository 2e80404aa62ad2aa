package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coregx/tinyre"
)

func newMatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "match <pattern> <text>...",
		Short: "Match texts at their start and print the capture groups",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd.OutOrStdout(), opts, args[0], args[1:], false)
		},
	}
}

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <pattern> <text>...",
		Short: "Find the leftmost match in each text and print the capture groups",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd.OutOrStdout(), opts, args[0], args[1:], true)
		},
	}
}

func runMatch(w io.Writer, opts *options, pattern string, texts []string, search bool) error {
	p, err := opts.compile(pattern)
	if err != nil {
		return err
	}

	found := 0
	for _, text := range texts {
		var m *tinyre.PatternMatch
		if search {
			m = p.Search(text)
		} else {
			m = p.Match(text)
		}
		if err := m.Err(); err != nil {
			opts.logger.Warn("matcher gave up", zap.String("text", text), zap.Error(err))
		}
		if !m.Matched() {
			fmt.Fprintf(w, "%s\t-\n", text)
			continue
		}
		found++
		fmt.Fprintf(w, "%s\t%s\n", text, formatGroups(m, p.NumGroups()))
	}

	opts.logger.Debug("match finished",
		zap.String("pattern", pattern),
		zap.Int("texts", len(texts)),
		zap.Int("matched", found))
	if found == 0 {
		return ErrNoMatch
	}
	return nil
}

// formatGroups renders groups 0..n as i[start,end]"text", with unset groups
// shown as i:unset.
func formatGroups(m *tinyre.PatternMatch, n int) string {
	parts := make([]string, 0, n+1)
	for i := 0; i <= n; i++ {
		start, end := m.Span(i)
		if start < 0 {
			parts = append(parts, fmt.Sprintf("%d:unset", i))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d[%d,%d]%q", i, start, end, m.Group(i)))
	}
	return strings.Join(parts, " ")
}
