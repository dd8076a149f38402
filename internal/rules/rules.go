package rules

import (
	"fmt"
	"regexp"

	"github.com/cascadewm/cascade/internal/platform"
)

// Directives is the combined outcome of matching one window against the
// rule set. All directives are applied atomically before the window's
// first retile. Pointer fields are nil when no rule set them; for
// conflicting rules the first match wins.
type Directives struct {
	Skip       bool
	Workspace  *int
	Monitor    *int
	Floating   bool
	Fullscreen bool
	NoFocus    bool
	Opacity    *float64
}

// Matcher produces directives for a window's metadata. Implementations
// must be synchronous and must not retain the argument.
type Matcher interface {
	Match(win platform.Window) Directives
}

// Rule is one user-defined rule: match criteria plus the directives it
// contributes. Empty patterns match everything.
type Rule struct {
	Class      string
	Title      string
	Skip       bool
	Workspace  *int
	Monitor    *int
	Floating   bool
	Fullscreen bool
	NoFocus    bool
	Opacity    *float64
}

type compiledRule struct {
	class *regexp.Regexp
	title *regexp.Regexp
	rule  Rule
}

// RuleMatcher matches windows against an ordered list of compiled rules.
type RuleMatcher struct {
	rules []compiledRule
}

// NewRuleMatcher compiles the rule patterns. Patterns are anchored
// regular expressions over the window class and title.
func NewRuleMatcher(rules []Rule) (*RuleMatcher, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		cr := compiledRule{rule: r}
		if r.Class != "" {
			re, err := regexp.Compile("^(?:" + r.Class + ")$")
			if err != nil {
				return nil, fmt.Errorf("rule %d: invalid class pattern: %w", i, err)
			}
			cr.class = re
		}
		if r.Title != "" {
			re, err := regexp.Compile("^(?:" + r.Title + ")$")
			if err != nil {
				return nil, fmt.Errorf("rule %d: invalid title pattern: %w", i, err)
			}
			cr.title = re
		}
		compiled = append(compiled, cr)
	}
	return &RuleMatcher{rules: compiled}, nil
}

// Match folds every matching rule into one directive set. Boolean
// directives are sticky once set; workspace, monitor and opacity keep the
// first matching rule's value.
func (m *RuleMatcher) Match(win platform.Window) Directives {
	var d Directives
	for _, cr := range m.rules {
		if cr.class != nil && !cr.class.MatchString(win.Class) {
			continue
		}
		if cr.title != nil && !cr.title.MatchString(win.Title) {
			continue
		}
		r := cr.rule
		if r.Skip {
			d.Skip = true
		}
		if r.Floating {
			d.Floating = true
		}
		if r.Fullscreen {
			d.Fullscreen = true
		}
		if r.NoFocus {
			d.NoFocus = true
		}
		if r.Workspace != nil && d.Workspace == nil {
			d.Workspace = r.Workspace
		}
		if r.Monitor != nil && d.Monitor == nil {
			d.Monitor = r.Monitor
		}
		if r.Opacity != nil && d.Opacity == nil {
			d.Opacity = r.Opacity
		}
	}
	return d
}

// NoRules is a Matcher that never produces directives.
type NoRules struct{}

func (NoRules) Match(platform.Window) Directives { return Directives{} }
