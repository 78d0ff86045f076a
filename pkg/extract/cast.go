package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind describes how a captured group is coerced.
type Kind uint8

const (
	// Raw keeps the capture exactly as matched.
	Raw Kind = iota
	// String trims surrounding whitespace.
	String
	// Int parses a base-10 integer.
	Int
	// Float parses a floating point number.
	Float
)

func (k Kind) String() string {
	switch k {
	case String:
		return "str"
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return "raw"
	}
}

// Value is one coerced capture. Exactly one of the typed fields is meaningful,
// selected by Kind.
type Value struct {
	Kind Kind
	Text string
	Int  int
	Flt  float64
}

type caster func(string) (Value, bool)

var casts = map[Kind]caster{
	Raw: func(s string) (Value, bool) {
		return Value{Kind: Raw, Text: s}, true
	},
	String: func(s string) (Value, bool) {
		return Value{Kind: String, Text: strings.TrimSpace(s)}, true
	},
	Int: func(s string) (Value, bool) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return Value{}, false
		}
		return Value{Kind: Int, Text: s, Int: n}, true
	},
	Float: func(s string) (Value, bool) {
		f, ok := ParseFloat(s)
		if !ok {
			return Value{}, false
		}
		return Value{Kind: Float, Text: s, Flt: f}, true
	},
}

// Cast coerces s to kind. ok is false when s does not parse.
func Cast(s string, kind Kind) (Value, bool) {
	c, found := casts[kind]
	if !found {
		c = casts[Raw]
	}
	return c(s)
}

// CastAll coerces each group with the kind at the same position. Positions
// beyond kinds stay String. Any failed cast fails the whole tuple.
func CastAll(groups []string, kinds ...Kind) ([]Value, bool) {
	out := make([]Value, len(groups))
	for i, g := range groups {
		kind := String
		if i < len(kinds) {
			kind = kinds[i]
		}
		v, ok := Cast(g, kind)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// ParseFloat parses s the lenient way solver logs need: surrounding blanks
// are ignored and the result must be a finite or infinite float.
func ParseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Floats coerces every group of one match occurrence to float64.
func (s *Source) Floats(re *regexp.Regexp, occurrence int) ([]float64, bool) {
	g, ok := s.Match(re, occurrence)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(g))
	for i, v := range g {
		f, ok := ParseFloat(v)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// Ints coerces every group of one match occurrence to int.
func (s *Source) Ints(re *regexp.Regexp, occurrence int) ([]int, bool) {
	vals, ok := s.Typed(re, occurrence, repeat(Int, re.NumSubexp())...)
	if !ok {
		return nil, false
	}
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = v.Int
	}
	return out, true
}

// Typed coerces one match occurrence with a per-position kind list.
func (s *Source) Typed(re *regexp.Regexp, occurrence int, kinds ...Kind) ([]Value, bool) {
	g, ok := s.Match(re, occurrence)
	if !ok {
		return nil, false
	}
	return CastAll(g, kinds...)
}

// Float returns group pos of the first match as a float, or nil.
func (s *Source) Float(re *regexp.Regexp, pos int) *float64 {
	return s.FloatAt(re, pos, First)
}

// FloatAt returns group pos of the given occurrence as a float, or nil.
func (s *Source) FloatAt(re *regexp.Regexp, pos, occurrence int) *float64 {
	v, ok := s.group(re, pos, occurrence, Float)
	if !ok {
		return nil
	}
	return &v.Flt
}

// Int returns group pos of the first match as an int, or nil.
func (s *Source) Int(re *regexp.Regexp, pos int) *int {
	v, ok := s.group(re, pos, First, Int)
	if !ok {
		return nil
	}
	return &v.Int
}

// Text returns group pos of the first match trimmed, or nil.
func (s *Source) Text(re *regexp.Regexp, pos int) *string {
	v, ok := s.group(re, pos, First, String)
	if !ok {
		return nil
	}
	return &v.Text
}

func (s *Source) group(re *regexp.Regexp, pos, occurrence int, kind Kind) (Value, bool) {
	g, ok := s.Match(re, occurrence)
	if !ok || pos < 0 || pos >= len(g) {
		return Value{}, false
	}
	return Cast(g[pos], kind)
}

func repeat(k Kind, n int) []Kind {
	if n < 1 {
		n = 1
	}
	out := make([]Kind, n)
	for i := range out {
		out[i] = k
	}
	return out
}
