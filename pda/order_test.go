package pda

import (
	"testing"

	"github.com/nihei9/pdabuild/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOrderActions_RegionAttachment builds a one-terminal grammar whose
// terminal declares a home region with an ignore-only companion, and
// checks that ordering attaches the scan region to the predicting
// state and the ignore-only region to the post-shift state, per §4.8.
func TestOrderActions_RegionAttachment(t *testing.T) {
	b := grammar.NewBuilder()
	a := b.Terminal("a")
	b.NonTerminal("s")
	b.SetRoot("s")
	// s -> a a: the state after the first "a" still shifts, so
	// advance-reductions leaves the start state's shift on "a" a plain
	// shift whose target the test can follow.
	b.AddProduction("s", b.Elem("a"), b.Elem("a"))
	b.AddRegion(&grammar.Region{
		Name:             "main",
		IgnoreOnlyRegion: &grammar.Region{Name: "ign"},
	})

	g, err := b.Build()
	require.NoError(t, err)

	aSym, ok := g.Symbols.ByID(a)
	require.True(t, ok)
	aSym.Region = "main"

	require.NoError(t, grammar.WrapRoot(g))
	g.ResolvePrecedence()

	res, err := Build(g, Options{})
	require.NoError(t, err)

	startState := res.Graph.State(res.Graph.StartStates[g.StartSymbols[0]])
	require.NotNil(t, startState)
	assert.Contains(t, startState.Regions, "main")

	trans, ok := startState.Trans.get(a)
	require.True(t, ok)
	target := res.Graph.State(shiftTarget(trans))
	require.NotNil(t, target)
	assert.Contains(t, target.PreRegions, "ign")
}

// TestOrderActions_EOFFallbackRegion checks that a state with no region
// of its own, but an outgoing eof transition, scans the synthetic
// eof region as a fallback (§4.8).
func TestOrderActions_EOFFallbackRegion(t *testing.T) {
	b := grammar.NewBuilder()
	b.Terminal("a")
	b.NonTerminal("s")
	b.SetRoot("s")
	b.AddProduction("s", b.Elem("a"))

	g, err := b.Build()
	require.NoError(t, err)
	require.NoError(t, grammar.WrapRoot(g))
	g.ResolvePrecedence()

	res, err := Build(g, Options{})
	require.NoError(t, err)

	startSym, ok := g.Symbols.ByID(g.StartSymbols[0])
	require.True(t, ok)

	var sawEOFRegion bool
	for _, st := range res.Graph.States {
		if _, ok := st.Trans.get(startSym.EOFSym); ok {
			if contains(st.Regions, eofTokenRegion) {
				sawEOFRegion = true
			}
		}
	}
	assert.True(t, sawEOFRegion, "expected some state with an outgoing eof transition to fall back to the synthetic eof region")
}

// TestOrderActions_ReduceFirstOrdersFollowBeforeBody exercises the
// shortest-match branch of orderProd: when a non-terminal is marked
// ReduceFirst, every definition's follow action must be time-stamped
// before any definition's own body is descended into, so a
// backtracking runtime tries the empty/short alternative first.
func TestOrderActions_ReduceFirstOrdersFollowBeforeBody(t *testing.T) {
	b := grammar.NewBuilder()
	aID := b.Terminal("a")
	b.Terminal("b")
	opt := b.NonTerminal("opt")
	b.NonTerminal("s")
	b.SetRoot("s")

	// s -> opt a
	// opt -> b
	// opt -> (empty)
	b.AddProduction("s", b.Elem("opt"), b.Elem("a"))
	b.AddProduction("opt", b.Elem("b"))
	b.AddProduction("opt")

	g, err := b.Build()
	require.NoError(t, err)

	optSym, ok := g.Symbols.ByID(opt)
	require.True(t, ok)
	optSym.ReduceFirst = true

	require.NoError(t, grammar.WrapRoot(g))
	g.ResolvePrecedence()

	res, err := Build(g, Options{})
	require.NoError(t, err)

	startState := res.Graph.State(res.Graph.StartStates[g.StartSymbols[0]])
	require.NotNil(t, startState)

	// On "a" directly from the start state, the empty opt's reduce
	// must have a lower time than the shift into opt's "b" body.
	var emptyReduceTime, bShiftTime int
	for _, tr := range startState.Trans.ordered() {
		for _, act := range tr.Actions {
			if act.Kind == ActionReduce {
				prod := findProdByNum(g, act.Target)
				if prod != nil && prod.LHS == opt && len(prod.RHS) == 0 {
					emptyReduceTime = act.Time
				}
			}
		}
	}
	bTrans, ok := startState.Trans.get(mustLookup(t, g, "b"))
	require.True(t, ok)
	// advance-reductions folds this shift into a shift-reduce (the
	// state after "b" only reduces opt -> b); folding keeps its time.
	for _, act := range bTrans.Actions {
		if act.Kind == ActionShift || act.Kind == ActionShiftReduce {
			bShiftTime = act.Time
		}
	}

	require.NotZero(t, emptyReduceTime)
	require.NotZero(t, bShiftTime)
	assert.Less(t, emptyReduceTime, bShiftTime, "reduceFirst should order the empty alternative's reduce before descending into the other alternative's body")

	_ = aID
}

func findProdByNum(g *grammar.Grammar, num int) *grammar.Production {
	for _, p := range g.Prods {
		if p.Num == num {
			return p
		}
	}
	return nil
}

func mustLookup(t *testing.T, g *grammar.Grammar, name string) grammar.ID {
	t.Helper()
	for _, s := range g.Symbols.All() {
		if s.Text == name {
			return s.ID
		}
	}
	t.Fatalf("symbol %q not declared", name)
	return 0
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
