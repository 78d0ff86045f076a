package cpsat

import "testing"

const sampleLog = `Starting CP-SAT solver v9.3.10497
Parameters: log_search_progress: true

Initial optimization model '':
#Variables: 10 (10 in objective)

Starting Search at 0.01s with 8 workers.
#Bound   0.02s best:inf   next:[0,100]    initial_domain
#1       0.03s best:50    next:[0,49]     fixed_bools:0/10
#Model   0.04s var:10/10 constraints:5/5
#2       0.05s best:30    next:[0,29]     quick_restart
#Bound   0.06s best:30    next:[15,29]    max_lp
#3       1.10s best:15    next:[15,14]    core
#Done    3.59s core

CpSolverResponse summary:
status: OPTIMAL
objective: 15
best_bound: 15
booleans: 100
walltime: 3.6
usertime: 3.5908
deterministic_time: 1.2
`

func TestParse_Blocks(t *testing.T) {
	log := Parse(sampleLog)
	kinds := []BlockKind{}
	for _, b := range log.Blocks() {
		kinds = append(kinds, b.Kind)
	}
	want := []BlockKind{SolverBlock, OtherBlock, SearchBlock, ResponseBlock}
	if len(kinds) != len(want) {
		t.Fatalf("Blocks() kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("block %d kind = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestLog_Version(t *testing.T) {
	v := Parse(sampleLog).Version()
	if v == nil || *v != "v9.3.10497" {
		t.Fatalf("Version() = %v, want v9.3.10497", v)
	}
	if Parse("nothing").Version() != nil {
		t.Error("Version() of a foreign log should be nil")
	}
}

func TestLog_Events(t *testing.T) {
	events := Parse(sampleLog).Events()
	if len(events) != 7 {
		t.Fatalf("Events() len = %d, want 7", len(events))
	}
	if events[1].Kind != Solution || events[1].Index != 1 || events[1].Best != "50" {
		t.Errorf("Events()[1] = %+v", events[1])
	}
	if events[2].Kind != Model {
		t.Errorf("Events()[2] kind = %s, want model", events[2].Kind)
	}
	if events[6].Kind != Done || events[6].Time != 3.59 {
		t.Errorf("Events()[6] = %+v", events[6])
	}
}

func TestLog_Table(t *testing.T) {
	rows := Parse(sampleLog).Table()
	if len(rows) != 6 {
		t.Fatalf("Table() len = %d, want 6", len(rows))
	}
	tests := []struct {
		i     int
		best  string
		bound string
	}{
		{0, "inf", "0"},
		{1, "50", "0"},
		{3, "30", "15"},
		{4, "15", "15"},
		{5, "15", "15"},
	}
	for _, tt := range tests {
		if rows[tt.i].Best != tt.best || rows[tt.i].Bound != tt.bound {
			t.Errorf("Table()[%d] = %+v, want best %s bound %s", tt.i, rows[tt.i], tt.best, tt.bound)
		}
	}
}

func TestLog_TableMaximize(t *testing.T) {
	log := Parse("Starting Search at 0.01s\n#1 0.10s best:5 next:[6,20] x\n#2 0.20s best:9 next:[10,12] y\n")
	rows := log.Table()
	if len(rows) != 2 {
		t.Fatalf("Table() len = %d", len(rows))
	}
	if rows[1].Bound != "12" {
		t.Errorf("maximize bound = %s, want 12", rows[1].Bound)
	}
}

func TestResponse(t *testing.T) {
	r, ok := Parse(sampleLog).Response()
	if !ok {
		t.Fatal("Response() missing")
	}
	if got, _ := r.Get("status"); got != "OPTIMAL" {
		t.Errorf("status = %q", got)
	}
	if u := r.Float("usertime"); u == nil || *u != 3.5908 {
		t.Errorf("usertime = %v", u)
	}
	if g := r.Gap(); g == nil || *g != 0 {
		t.Errorf("Gap() = %v, want 0", g)
	}
	if r.Keys()[0] != "status" {
		t.Errorf("Keys() = %v", r.Keys())
	}
	if len(r.ToDict()) != 7 {
		t.Errorf("ToDict() = %v", r.ToDict())
	}
}

func TestResponse_ZeroObjectiveGap(t *testing.T) {
	r, ok := Parse("CpSolverResponse summary:\nstatus: OPTIMAL\nobjective: 0\nbest_bound: 0\n").Response()
	if !ok {
		t.Fatal("Response() missing")
	}
	if r.Gap() != nil {
		t.Errorf("Gap() = %v, want nil", *r.Gap())
	}
}

func TestResponse_NonFiniteValues(t *testing.T) {
	r, ok := Parse("CpSolverResponse summary:\nstatus: UNKNOWN\nobjective: inf\nbest_bound: -inf\nusertime: NaN\n").Response()
	if !ok {
		t.Fatal("Response() missing")
	}
	for _, key := range []string{"objective", "best_bound", "usertime"} {
		if v := r.Float(key); v != nil {
			t.Errorf("Float(%q) = %v, want nil", key, *v)
		}
	}
	if g := r.Gap(); g != nil {
		t.Errorf("Gap() = %v, want nil", *g)
	}
	if raw, _ := r.Get("objective"); raw != "inf" {
		t.Errorf("Get(objective) = %q, want raw text kept", raw)
	}
}
