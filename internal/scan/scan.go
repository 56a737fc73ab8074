// Package scan finds asset-path placeholders in reference file content.
package scan

import (
	"fmt"
	"regexp"

	"revstamp/internal/errors"
)

// Match is a single placeholder occurrence. Start/End span the whole
// placeholder; PathStart/PathEnd span the captured path inside it.
type Match struct {
	Start     int
	End       int
	PathStart int
	PathEnd   int
	Path      string
}

// Scanner locates every non-overlapping placeholder in a file's content.
// Matching is a pure function of the content; there is no cursor carried
// between calls, so scanning one file can never skip or double-count
// matches in the next.
type Scanner struct {
	re *regexp.Regexp
}

// NewScanner compiles the placeholder pattern. The pattern must contain
// exactly one capturing group, which yields the asset path text.
func NewScanner(pattern string) (*Scanner, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.New(errors.ConfigurationError, fmt.Sprintf("invalid placeholder pattern %q", pattern), err)
	}
	if re.NumSubexp() != 1 {
		return nil, errors.New(errors.ConfigurationError,
			fmt.Sprintf("placeholder pattern %q must have exactly one capturing group, has %d", pattern, re.NumSubexp()), nil)
	}
	return &Scanner{re: re}, nil
}

// Matches returns every placeholder occurrence in content, left to right.
// Occurrences whose capture group is empty are skipped.
func (s *Scanner) Matches(content []byte) []Match {
	idx := s.re.FindAllSubmatchIndex(content, -1)
	matches := make([]Match, 0, len(idx))
	for _, m := range idx {
		// m[0],m[1] full match; m[2],m[3] the single capture group.
		if m[2] < 0 || m[2] == m[3] {
			continue
		}
		matches = append(matches, Match{
			Start:     m[0],
			End:       m[1],
			PathStart: m[2],
			PathEnd:   m[3],
			Path:      string(content[m[2]:m[3]]),
		})
	}
	return matches
}

// Replace rebuilds content with each match substituted. The repl callback
// returns the replacement path for a match. When discard is true the whole
// placeholder is replaced by the path; otherwise only the captured substring
// is, preserving the decorator text around it.
func Replace(content []byte, matches []Match, discard bool, repl func(Match) string) []byte {
	if len(matches) == 0 {
		return content
	}
	out := make([]byte, 0, len(content))
	prev := 0
	for _, m := range matches {
		path := repl(m)
		if discard {
			out = append(out, content[prev:m.Start]...)
			out = append(out, path...)
			prev = m.End
		} else {
			out = append(out, content[prev:m.PathStart]...)
			out = append(out, path...)
			prev = m.PathEnd
		}
	}
	out = append(out, content[prev:]...)
	return out
}
