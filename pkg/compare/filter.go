package compare

import (
	"regexp"
)

// ExcludeFilter matches candidate paths against a set of exclusion patterns
type ExcludeFilter struct {
	patterns []*regexp.Regexp
}

// NewExcludeFilter compiles the given pattern strings as regular expressions.
// An empty set is valid and excludes nothing. A pattern that does not compile
// returns a *PatternError and no filter.
func NewExcludeFilter(patterns []string) (*ExcludeFilter, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &PatternError{Pattern: pattern, Err: err}
		}
		compiled = append(compiled, re)
	}

	return &ExcludeFilter{patterns: compiled}, nil
}

// Match reports whether path matches any pattern in the set. Matching is
// unanchored and applies to the full path string, not just the basename;
// patterns wanting start or end anchoring must write the anchors themselves.
func (f *ExcludeFilter) Match(path string) bool {
	for _, re := range f.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Size returns the number of compiled patterns
func (f *ExcludeFilter) Size() int {
	return len(f.patterns)
}
