// Package pda builds the PDA (push-down automaton) state graph and its
// compressed action tables from a resolved grammar: LALR(1) state
// construction, action ordering for backtracking, precedence-based
// conflict resolution, shift-reduce folding, and table compression.
package pda

import (
	"sort"

	"github.com/nihei9/pdabuild/symbol"
)

// ActionKind is the 2-bit tag packed into every Action.
type ActionKind uint8

const (
	ActionShift ActionKind = iota
	ActionReduce
	// ActionShiftReduce is a shift immediately followed by a reduce,
	// produced by the advance-reductions optimization (§4.9) when a
	// shift's target state has exactly one possible action.
	ActionShiftReduce
)

func (k ActionKind) String() string {
	switch k {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionShiftReduce:
		return "shift-reduce"
	default:
		return "?"
	}
}

// Action is one alternative a transition may take. Target is a state
// number for ActionShift, a production number for ActionReduce and
// ActionShiftReduce. The order Actions appear in a Trans is the order
// a backtracking runtime must try them once sortActions (§4.6) has run.
type Action struct {
	Kind   ActionKind
	Target int

	// PrecSym is part of the action-set deduplication key
	// (actionSetKey). No pass in this package assigns it, so every
	// action Build produces carries IDNil here, including actions that
	// survived precedence resolution.
	PrecSym symbol.ID

	// Time is the monotonic stamp the action-ordering pass (§4.5)
	// assigns the first time it reaches this action; zero means
	// unstamped. Lower times sort earlier (§4.6).
	Time int

	// Priority is this action's shift priority: for a shift, the
	// declaring production element's priorVal (propagated via
	// Trans.ShiftPriority); for a reduce, always zero, since the
	// grammar model this module builds on has no per-reduction
	// priority annotation distinct from precedence (see DESIGN.md).
	// Higher priorities sort earlier (§4.6).
	Priority int
}

// Trans is one outgoing transition of a State, labeled by a single
// symbol, carrying every action a backtracking parser may attempt on
// it plus the commit bookkeeping attached at the point the action was
// stamped. Region information is not carried per-transition: it is
// attached to the source/target State (see State.Regions).
type Trans struct {
	Sym     symbol.ID
	Actions []*Action

	// CommitLen is the accumulated commit length in effect for this
	// transition, carried over from the ProdFSM transition(s) that
	// contributed to it.
	CommitLen int

	// ShiftPriority is the highest priorVal of any production element
	// that contributed a shift to this transition; new shift Actions
	// are stamped with it in genGraph.
	ShiftPriority int

	// actionSetID is assigned by the action-set dedup pass (§4.10);
	// zero until that pass runs.
	actionSetID int
}

// transMap is an ordered map from symbol to Trans, keyed so that
// iteration is always in ascending symbol-id order. It replaces the
// intrusive ordered-map container the original builder uses (see
// SPEC_FULL.md §9 / DESIGN.md): a sorted slice is enough here since
// entries are inserted once per state and then only iterated.
type transMap struct {
	keys []symbol.ID
	m    map[symbol.ID]*Trans
}

func newTransMap() *transMap {
	return &transMap{m: map[symbol.ID]*Trans{}}
}

func (tm *transMap) get(sym symbol.ID) (*Trans, bool) {
	t, ok := tm.m[sym]
	return t, ok
}

func (tm *transMap) getOrCreate(sym symbol.ID) *Trans {
	if t, ok := tm.m[sym]; ok {
		return t
	}
	t := &Trans{Sym: sym}
	tm.m[sym] = t
	tm.keys = append(tm.keys, sym)
	sort.Slice(tm.keys, func(i, j int) bool { return tm.keys[i] < tm.keys[j] })
	return t
}

func (tm *transMap) ordered() []*Trans {
	out := make([]*Trans, len(tm.keys))
	for i, k := range tm.keys {
		out[i] = tm.m[k]
	}
	return out
}

// State is one PDA state: the set of transitions available once the
// parser has reached it.
type State struct {
	Num   int
	Trans *transMap

	// Regions/PreRegions are the token regions the region-attachment
	// pass (§4.8) records for this state: Regions are the regions the
	// runtime should scan while predicting a token out of this state;
	// PreRegions are the regions to scan immediately on entry to this
	// state, before the first token is predicted. Both are
	// deduplicated vectors, never containing the same region twice.
	Regions    []string
	PreRegions []string
}

func newState(num int) *State {
	return &State{Num: num, Trans: newTransMap()}
}

func (s *State) addRegion(name string) {
	for _, r := range s.Regions {
		if r == name {
			return
		}
	}
	s.Regions = append(s.Regions, name)
}

func (s *State) addPreRegion(name string) {
	for _, r := range s.PreRegions {
		if r == name {
			return
		}
	}
	s.PreRegions = append(s.PreRegions, name)
}

// eofTokenRegion is the synthetic region name recorded on a state that
// has no region of its own but does have an outgoing EOF transition
// (§4.8's fallback), mirroring the original builder's eofTokenRegion
// singleton.
const eofTokenRegion = "<eof>"

// Graph is the complete PDA state graph for one compiled grammar.
type Graph struct {
	States []*State

	// StartStates maps each declared start symbol to the state number
	// a parse beginning with it starts in. EOFSymbols maps the same
	// start symbol to its own paired EOF terminal. Every declared
	// start symbol gets an entry in both maps (§6's "one per possible
	// start symbol" external tables).
	StartStates map[symbol.ID]int
	EOFSymbols  map[symbol.ID]symbol.ID

	FirstNonTermID symbol.ID

	// BranchPoints records one human-readable line per transition
	// where sortActions found more than one action, when
	// Options.LogBranchPoints is set (§4.6).
	BranchPoints []string
}

func (g *Graph) State(num int) *State {
	if num < 0 || num >= len(g.States) {
		return nil
	}
	return g.States[num]
}
