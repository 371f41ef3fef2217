package safety

import (
	"fmt"
	"regexp"
)

// DefaultFilterPatterns strips the erase-to-end-of-line sequence some
// shells emit heavily during line editing.
var DefaultFilterPatterns = []string{`\x1b\[K`}

// OutputFilter deletes configured escape sequences from rendered
// screen text before it is returned to the caller.
type OutputFilter struct {
	patterns []*regexp.Regexp
}

// NewOutputFilter compiles the given regular expressions. Empty
// entries are skipped.
func NewOutputFilter(patterns []string) (*OutputFilter, error) {
	f := &OutputFilter{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// Apply runs every pattern over text in order, deleting matches.
func (f *OutputFilter) Apply(text string) string {
	for _, re := range f.patterns {
		text = re.ReplaceAllString(text, "")
	}
	return text
}
