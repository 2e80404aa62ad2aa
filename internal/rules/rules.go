// Package rules loads word rewrite rules from YAML and applies them with
// tinyre patterns.
//
// A rules file looks like:
//
//	rules:
//	  - name: y-plural
//	    pattern: '^(.+)ies$'
//	    template: '\1y'
//	    examples:
//	      - in: cities
//	        out: city
//
// Rules are tried in file order and the first one that matches rewrites the
// word. An anchored rule replaces the whole word with its expanded template.
// A rule with search set finds the leftmost match anywhere in the word and
// replaces only the matched part.
package rules

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/coregx/tinyre"
)

// Example is an input word and the output the rule set must produce for it.
type Example struct {
	In  string `yaml:"in"`
	Out string `yaml:"out"`
}

// Rule is one pattern/template pair as written in the rules file.
type Rule struct {
	Name     string    `yaml:"name"`
	Pattern  string    `yaml:"pattern"`
	Template string    `yaml:"template"`
	Search   bool      `yaml:"search,omitempty"`
	Examples []Example `yaml:"examples,omitempty"`
}

// File is the top-level document of a rules file.
type File struct {
	Rules []Rule `yaml:"rules"`
}

// Load reads and decodes a rules file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a rules document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding rules: %w", err)
	}
	return &f, nil
}

type compiledRule struct {
	Rule
	pattern  *tinyre.Pattern
	template *tinyre.Template
}

// Set is a compiled, ordered list of rules.
type Set struct {
	rules  []compiledRule
	logger *zap.Logger
}

// Compile compiles every rule in f. The first malformed pattern aborts
// compilation; the error names the rule.
func Compile(f *File, config tinyre.Config, logger *zap.Logger) (*Set, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Set{logger: logger}
	for i, r := range f.Rules {
		p, err := tinyre.CompileWithConfig(r.Pattern, config)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.Name, err)
		}
		s.rules = append(s.rules, compiledRule{
			Rule:     r,
			pattern:  p,
			template: tinyre.CompileTemplate(r.Template),
		})
	}
	return s, nil
}

// Len returns the number of rules.
func (s *Set) Len() int {
	return len(s.rules)
}

// Apply rewrites word with the first matching rule. It returns the word
// unchanged and an empty rule name when no rule matches.
func (s *Set) Apply(word string) (string, string) {
	for i := range s.rules {
		r := &s.rules[i]
		var m *tinyre.PatternMatch
		if r.Search {
			m = r.pattern.Search(word)
		} else {
			m = r.pattern.Match(word)
		}
		if err := m.Err(); err != nil {
			s.logger.Warn("rule gave up",
				zap.String("rule", r.Name),
				zap.String("word", word),
				zap.Error(err))
			continue
		}
		if !m.Matched() {
			continue
		}
		out, err := r.template.Expand(m)
		if err != nil {
			// Expand only fails on a non-match, which was ruled out above.
			continue
		}
		if r.Search {
			start, end := m.Span(0)
			out = word[:start] + out + word[end:]
		}
		s.logger.Debug("applied rule",
			zap.String("rule", r.Name),
			zap.String("word", word),
			zap.String("result", out))
		return out, r.Name
	}
	return word, ""
}

// Failure describes an example whose actual output differs from the
// expected one.
type Failure struct {
	Rule    string
	Example Example
	Got     string
	Applied string
}

func (f Failure) String() string {
	applied := f.Applied
	if applied == "" {
		applied = "no rule"
	}
	return fmt.Sprintf("%s: %q -> %q (by %s), want %q", f.Rule, f.Example.In, f.Got, applied, f.Example.Out)
}

// Verify runs every example through the whole set, so earlier rules that
// shadow later ones are caught too.
func (s *Set) Verify() []Failure {
	var failures []Failure
	for _, r := range s.rules {
		for _, ex := range r.Examples {
			got, applied := s.Apply(ex.In)
			if got != ex.Out {
				failures = append(failures, Failure{
					Rule:    r.Name,
					Example: ex,
					Got:     got,
					Applied: applied,
				})
			}
		}
	}
	return failures
}
