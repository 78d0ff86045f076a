package dialect

import (
	"regexp"
	"strings"
	"sync"
)

// slots maps a template placeholder to the pattern fragment it renders as.
// Every fragment is exactly one capture group.
type slots map[string]string

func (s slots) clone() slots {
	out := make(slots, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Rule narrows or substitutes slots for a line that carries Marker.
type Rule struct {
	Marker *regexp.Regexp
	Apply  func(s slots, marker []string)
}

// LineGrammar parses progress lines whose shape depends on markers. Rules
// are evaluated top-down against the line; each one that matches rewrites
// slots before the template is rendered and matched.
type LineGrammar struct {
	filter   *regexp.Regexp
	schema   []string
	defaults slots
	template string
	rules    []Rule

	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// NewLineGrammar builds a grammar. template references slots as {name}.
func NewLineGrammar(filter string, schema []string, template string, defaults slots, rules ...Rule) *LineGrammar {
	return &LineGrammar{
		filter:   regexp.MustCompile(filter),
		schema:   schema,
		defaults: defaults,
		template: template,
		rules:    rules,
		cache:    map[string]*regexp.Regexp{},
	}
}

func (g *LineGrammar) Filter() *regexp.Regexp { return g.filter }
func (g *LineGrammar) Schema() []string       { return g.schema }

// ProcessLine applies the matching rules and then the rendered pattern.
func (g *LineGrammar) ProcessLine(line string) ([]string, bool) {
	s := g.defaults.clone()
	for _, r := range g.rules {
		if m := r.Marker.FindStringSubmatch(line); m != nil {
			r.Apply(s, m)
		}
	}
	re, ok := g.compile(g.render(s))
	if !ok {
		return nil, false
	}
	m := re.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	cells := make([]string, len(m)-1)
	for i, c := range m[1:] {
		cells[i] = strings.TrimSpace(c)
	}
	return cells, true
}

func (g *LineGrammar) render(s slots) string {
	pairs := make([]string, 0, 2*len(s))
	for k, v := range s {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(g.template)
}

func (g *LineGrammar) compile(pattern string) (*regexp.Regexp, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if re, ok := g.cache[pattern]; ok {
		return re, re != nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		g.cache[pattern] = nil
		return nil, false
	}
	g.cache[pattern] = re
	return re, true
}

// set replaces several slots with one fragment.
func set(s slots, fragment string, names ...string) {
	for _, n := range names {
		s[n] = fragment
	}
}

// uniform returns slots all rendering as fragment.
func uniform(fragment string, names ...string) slots {
	s := make(slots, len(names))
	set(s, fragment, names...)
	return s
}
