package pda

import (
	"fmt"
	"sort"

	"github.com/nihei9/pdabuild/compressor"
	"github.com/nihei9/pdabuild/symbol"
)

// Tables is the compressed, table-driven form of a Graph (§6): the
// external interface a runtime actually links against. A transition
// is looked up as Lookup(state, symbol) -> an action-set index, and
// the action-set's entries are then read out of the flat Actions/
// Targs/CommitLen slices starting at ActInds[setIdx].
type Tables struct {
	StateCount int

	// Offsets/Indicies/Owners are the row-displacement-compressed
	// transition table: Offsets[state] is the displacement applied
	// to every column for that state, and a lookup at
	// Offsets[state]+int(sym) is valid only if Owners at that index
	// equals state.
	Offsets  []int
	Indicies []int
	Owners   []int

	// ActInds maps an action-set index to its starting offset in the
	// flat per-action slices below; one past its entries is either
	// the next set's ActInds value or len(Actions).
	ActInds   []int
	Actions   []ActionKind
	Targs     []int
	CommitLen []int

	// Keys holds, per state, the (min, max) symbol id that state has
	// any outgoing transition on: Keys[2*state] and Keys[2*state+1].
	// A state with no outgoing transitions gets (-1, -1). A runtime
	// can use this to skip a Lookup entirely when the next symbol
	// falls outside a state's key range (§4.11).
	Keys []int

	// Regions/PreRegions are indexed by state number, mirroring
	// Graph.State's Regions/PreRegions vectors (§4.8).
	Regions    [][]string
	PreRegions [][]string

	StartStates map[symbol.ID]int
	EOFSymbols  map[symbol.ID]symbol.ID

	ParserSymbols  []symbol.ID
	FirstNonTermID symbol.ID
}

// Lookup returns the action-set index for (state, sym), or -1 if that
// transition does not exist.
func (t *Tables) Lookup(state int, sym symbol.ID) (int, error) {
	if state < 0 || state >= t.StateCount {
		return -1, fmt.Errorf("state out of range: %v", state)
	}
	d := t.Offsets[state]
	idx := d + int(sym)
	if idx < 0 || idx >= len(t.Owners) {
		return -1, nil
	}
	if t.Owners[idx] != state {
		return -1, nil
	}
	return t.Indicies[idx], nil
}

// buildTables compresses g into its flat table form, adapting the
// teacher's compressor.RowDisplacementTable (originally wired only
// into the lexical DFA transition table) as the bin-packer for the
// state/symbol sparse matrix, per DESIGN.md.
func buildTables(g *Graph) (*Tables, error) {
	symSet := map[symbol.ID]struct{}{}
	for _, st := range g.States {
		for _, tr := range st.Trans.ordered() {
			symSet[tr.Sym] = struct{}{}
		}
	}
	var maxSym symbol.ID
	for s := range symSet {
		if s > maxSym {
			maxSym = s
		}
	}
	colCount := int(maxSym) + 1
	if colCount == 0 {
		colCount = 1
	}

	entries := make([]int, len(g.States)*colCount)
	for i := range entries {
		entries[i] = compressor.ForbiddenValue
	}
	for _, st := range g.States {
		for _, tr := range st.Trans.ordered() {
			entries[st.Num*colCount+int(tr.Sym)] = tr.actionSetID
		}
	}

	orig, err := compressor.NewOriginalTable(entries, colCount)
	if err != nil {
		return nil, fmt.Errorf("failed to build the original transition table: %w", err)
	}
	rd := compressor.NewRowDisplacementTable(compressor.ForbiddenValue)
	if err := rd.Compress(orig); err != nil {
		return nil, fmt.Errorf("failed to compress the transition table: %w", err)
	}

	setCount := 0
	for _, st := range g.States {
		for _, tr := range st.Trans.ordered() {
			if tr.actionSetID+1 > setCount {
				setCount = tr.actionSetID + 1
			}
		}
	}

	actInds := make([]int, setCount)
	var actions []ActionKind
	var targs []int
	var commitLen []int
	done := make([]bool, setCount)
	keyByID := make([]string, setCount)

	// Walk states/transitions in a stable order so the flattened
	// action arrays are deterministic across builds of the same
	// grammar.
	for _, st := range g.States {
		for _, tr := range st.Trans.ordered() {
			id := tr.actionSetID
			if id == 0 {
				continue
			}
			if done[id] {
				if key := actionSetKey(tr); key != keyByID[id] {
					return nil, fmt.Errorf("%w: set %v", errActionSetInconsistent, id)
				}
				continue
			}
			done[id] = true
			keyByID[id] = actionSetKey(tr)
			actInds[id] = len(actions)
			for _, act := range tr.Actions {
				actions = append(actions, act.Kind)
				targs = append(targs, act.Target)
				commitLen = append(commitLen, tr.CommitLen)
			}
		}
	}

	keys := make([]int, 2*len(g.States))
	regions := make([][]string, len(g.States))
	preRegions := make([][]string, len(g.States))
	for _, st := range g.States {
		min, max := -1, -1
		for _, tr := range st.Trans.ordered() {
			k := int(tr.Sym)
			if min == -1 || k < min {
				min = k
			}
			if k > max {
				max = k
			}
		}
		keys[2*st.Num] = min
		keys[2*st.Num+1] = max
		regions[st.Num] = st.Regions
		preRegions[st.Num] = st.PreRegions
	}

	parserSyms := make([]symbol.ID, 0, len(symSet))
	for s := range symSet {
		parserSyms = append(parserSyms, s)
	}
	sort.Slice(parserSyms, func(i, j int) bool { return parserSyms[i] < parserSyms[j] })

	return &Tables{
		StateCount:     len(g.States),
		Offsets:        rd.RowDisplacement,
		Indicies:       rd.Entries,
		Owners:         rd.Bounds,
		ActInds:        actInds,
		Actions:        actions,
		Targs:          targs,
		CommitLen:      commitLen,
		Keys:           keys,
		Regions:        regions,
		PreRegions:     preRegions,
		StartStates:    g.StartStates,
		EOFSymbols:     g.EOFSymbols,
		ParserSymbols:  parserSyms,
		FirstNonTermID: g.FirstNonTermID,
	}, nil
}
