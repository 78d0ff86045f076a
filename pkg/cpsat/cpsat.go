// Package cpsat reads the block-structured console output of the CP-SAT
// solver. A log is a sequence of blank-line separated blocks; three kinds
// carry data: the solver banner, the search progress and the response
// summary.
package cpsat

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// BlockKind identifies the role of a block.
type BlockKind int

const (
	OtherBlock BlockKind = iota
	SolverBlock
	SearchBlock
	ResponseBlock
)

func (k BlockKind) String() string {
	switch k {
	case SolverBlock:
		return "solver"
	case SearchBlock:
		return "search"
	case ResponseBlock:
		return "response"
	default:
		return "other"
	}
}

// Block is a run of consecutive non-blank lines.
type Block struct {
	Kind  BlockKind
	Lines []string
}

// EventKind classifies one search progress line.
type EventKind string

const (
	Solution EventKind = "solution"
	Bound    EventKind = "bound"
	Done     EventKind = "done"
	Model    EventKind = "model"
)

// Event is one '#' line of the search block.
type Event struct {
	Kind EventKind
	// Index is the solution counter, zero for non-solution events.
	Index int
	// Time is the wall clock of the event in seconds.
	Time    float64
	Best    string
	Next    [2]string
	Message string
}

// Row is one entry of the search table: the incumbent and bound known
// after an event.
type Row struct {
	Time  float64
	Best  string
	Bound string
	Event string
}

const (
	solverPrefix   = "Starting CP-SAT solver"
	responsePrefix = "CpSolverResponse summary:"
	searchPrefix   = "Starting Search"
)

var (
	versionRe = regexp.MustCompile(`^Starting CP-SAT solver (v?\S+)`)
	eventRe   = regexp.MustCompile(`^#(\d+|Bound|Done|Model)\s+([\d.]+)s(?:\s+best:(\S+))?(?:\s+next:\[([^,\]]*),([^\]]*)\])?\s*(.*)$`)
	fieldRe   = regexp.MustCompile(`^([\w ]+):\s*(.*)$`)
)

// Log is a parsed CP-SAT console log.
type Log struct {
	blocks []Block
}

// Parse splits text into classified blocks. It never fails; text that is
// not a CP-SAT log simply yields no typed blocks.
func Parse(text string) *Log {
	var (
		blocks  []Block
		current []string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		blocks = append(blocks, Block{Kind: classify(current), Lines: current})
		current = nil
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return &Log{blocks: blocks}
}

func classify(lines []string) BlockKind {
	first := strings.TrimSpace(lines[0])
	switch {
	case strings.HasPrefix(first, solverPrefix):
		return SolverBlock
	case strings.HasPrefix(first, responsePrefix):
		return ResponseBlock
	case strings.HasPrefix(first, searchPrefix):
		return SearchBlock
	}
	for _, l := range lines {
		if eventRe.MatchString(strings.TrimSpace(l)) {
			return SearchBlock
		}
	}
	return OtherBlock
}

// Blocks returns every block in order.
func (l *Log) Blocks() []Block {
	return l.blocks
}

// Block returns the last block of the given kind.
func (l *Log) Block(kind BlockKind) (Block, bool) {
	for i := len(l.blocks) - 1; i >= 0; i-- {
		if l.blocks[i].Kind == kind {
			return l.blocks[i], true
		}
	}
	return Block{}, false
}

// Version returns the solver version from the banner block.
func (l *Log) Version() *string {
	b, ok := l.Block(SolverBlock)
	if !ok {
		return nil
	}
	m := versionRe.FindStringSubmatch(strings.TrimSpace(b.Lines[0]))
	if m == nil {
		return nil
	}
	return &m[1]
}

// Events returns the parsed '#' lines of the search block.
func (l *Log) Events() []Event {
	b, ok := l.Block(SearchBlock)
	if !ok {
		return nil
	}
	var events []Event
	for _, line := range b.Lines {
		m := eventRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		t, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		ev := Event{
			Time:    t,
			Best:    m[3],
			Next:    [2]string{m[4], m[5]},
			Message: strings.TrimSpace(m[6]),
		}
		switch m[1] {
		case "Bound":
			ev.Kind = Bound
		case "Done":
			ev.Kind = Done
		case "Model":
			ev.Kind = Model
		default:
			ev.Kind = Solution
			ev.Index, _ = strconv.Atoi(m[1])
		}
		events = append(events, ev)
	}
	return events
}

// Table folds the events into the incumbent/bound trace. Model events are
// skipped. Values missing on a line carry over from the previous row.
func (l *Log) Table() []Row {
	var (
		rows  []Row
		best  string
		bound string
	)
	for _, ev := range l.Events() {
		if ev.Kind == Model {
			continue
		}
		if ev.Best != "" {
			best = ev.Best
		}
		if b, ok := ev.bound(); ok {
			bound = b
		}
		rows = append(rows, Row{Time: ev.Time, Best: best, Bound: bound, Event: string(ev.Kind)})
	}
	return rows
}

// bound picks the side of the next interval that is the proven bound: the
// lower end when minimizing and the upper end when maximizing.
func (e Event) bound() (string, bool) {
	lo, hi := e.Next[0], e.Next[1]
	if lo == "" && hi == "" {
		return "", false
	}
	best, errB := strconv.ParseFloat(e.Best, 64)
	high, errH := strconv.ParseFloat(hi, 64)
	if errB != nil || errH != nil || best >= high {
		return lo, true
	}
	return hi, true
}

// Response returns the key/value pairs of the response summary block.
func (l *Log) Response() (*Response, bool) {
	b, ok := l.Block(ResponseBlock)
	if !ok {
		return nil, false
	}
	r := &Response{fields: map[string]string{}}
	for _, line := range b.Lines[1:] {
		m := fieldRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		key := strings.TrimSpace(m[1])
		if _, dup := r.fields[key]; !dup {
			r.keys = append(r.keys, key)
		}
		r.fields[key] = strings.TrimSpace(m[2])
	}
	return r, true
}

// Response is the CpSolverResponse summary.
type Response struct {
	keys   []string
	fields map[string]string
}

// ToDict returns a copy of every field.
func (r *Response) ToDict() map[string]string {
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Keys returns field names in log order.
func (r *Response) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Get returns the raw value of a field.
func (r *Response) Get(key string) (string, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Float returns a numeric field, or nil when absent or not a finite number.
func (r *Response) Float(key string) *float64 {
	v, ok := r.fields[key]
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}

// Gap returns the relative gap between objective and best bound in percent.
// It is nil when either is missing or the objective is zero.
func (r *Response) Gap() *float64 {
	obj, bound := r.Float("objective"), r.Float("best_bound")
	if obj == nil || bound == nil || *obj == 0 {
		return nil
	}
	g := math.Abs(*obj-*bound) / math.Abs(*obj) * 100
	return &g
}
