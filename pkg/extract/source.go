// Package extract provides the pattern-apply-cast-select primitive that every
// dialect uses to pull scalar facts out of a solver log.
package extract

import (
	"regexp"
	"strings"
)

// Number is the loose numeric fragment solvers print: signs, digits, exponents
// and dots in any order. Casting decides later whether the capture is usable.
const Number = `-?[\de\.\+]+`

// Fragments shared by dialect patterns.
const (
	NumberGroup = `(` + Number + `)`
	WordGroup   = `([\w, -]+)`
)

// Occurrence selectors for Source.Match and friends.
const (
	First = 0
	Last  = -1
)

// Source is an immutable log text buffer. It is owned by a single dialect
// adapter for the duration of one parse.
type Source struct {
	content string
}

// NewSource wraps raw log text.
func NewSource(content string) *Source {
	return &Source{content: content}
}

// Content returns the text buffer.
func (s *Source) Content() string {
	return s.content
}

// Lines splits the buffer on newlines.
func (s *Source) Lines() []string {
	return strings.Split(s.content, "\n")
}

// TruncateToLast returns a new Source starting at the last occurrence of the
// first marker found. Markers are tried in order. When no marker occurs the
// receiver is returned unchanged.
func (s *Source) TruncateToLast(markers ...string) *Source {
	for _, m := range markers {
		if pos := strings.LastIndex(s.content, m); pos != -1 {
			return &Source{content: s.content[pos:]}
		}
	}
	return s
}

// Contains reports whether the phrase occurs literally in the buffer.
func (s *Source) Contains(phrase string) bool {
	return strings.Contains(s.content, phrase)
}

// All returns the captured groups of every match, in order. A pattern
// without groups yields the whole match as a single group.
func (s *Source) All(re *regexp.Regexp) [][]string {
	matches := re.FindAllStringSubmatch(s.content, -1)
	out := make([][]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, groups(m))
	}
	return out
}

// Match returns the groups of one match occurrence. Negative occurrences
// count from the end, so Last selects the final match. ok is false when the
// occurrence does not exist.
func (s *Source) Match(re *regexp.Regexp, occurrence int) ([]string, bool) {
	if occurrence == First {
		m := re.FindStringSubmatch(s.content)
		if m == nil {
			return nil, false
		}
		return groups(m), true
	}
	all := s.All(re)
	idx := occurrence
	if idx < 0 {
		idx += len(all)
	}
	if idx < 0 || idx >= len(all) {
		return nil, false
	}
	return all[idx], true
}

// FindFirst returns the groups of the first match.
func (s *Source) FindFirst(re *regexp.Regexp) ([]string, bool) {
	return s.Match(re, First)
}

func groups(m []string) []string {
	if len(m) == 1 {
		return m
	}
	return m[1:]
}

// MatchLine returns the groups of the first match of re within line.
func MatchLine(re *regexp.Regexp, line string) ([]string, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return groups(m), true
}
