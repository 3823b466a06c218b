package pda

import (
	"errors"
	"testing"

	"github.com/nihei9/pdabuild/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalGrammar builds just enough of a grammar (one terminal "t", one
// non-terminal "n", one production n -> t) to give sortActions/
// validateCommitPoints real symbol ids to consult, without running the
// full LALR(1)/graph pipeline these tests don't need.
func minimalGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder()
	b.Terminal("t")
	b.NonTerminal("n")
	b.SetRoot("n")
	b.AddProduction("n", b.Elem("t"))
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestSortActions_OrdersByPriorityThenTime(t *testing.T) {
	g := minimalGrammar(t)
	tSym, _ := g.Symbols.Lookup("t")

	st := newState(0)
	trans := st.Trans.getOrCreate(tSym.ID)
	trans.Actions = []*Action{
		{Kind: ActionReduce, Target: 1, Priority: 0, Time: 1},
		{Kind: ActionShift, Target: 2, Priority: 5, Time: 9},
		{Kind: ActionReduce, Target: 3, Priority: 0, Time: 2},
	}
	graph := &Graph{States: []*State{st}}

	require.NoError(t, sortActions(graph, g, false))

	got := trans.Actions
	require.Len(t, got, 3)
	// Highest priority first...
	assert.Equal(t, ActionShift, got[0].Kind)
	assert.Equal(t, 5, got[0].Priority)
	// ... then equal-priority actions in ascending time order.
	assert.Equal(t, 1, got[1].Time)
	assert.Equal(t, 2, got[2].Time)
}

func TestSortActions_LogsBranchPoints(t *testing.T) {
	g := minimalGrammar(t)
	tSym, _ := g.Symbols.Lookup("t")

	st := newState(0)
	trans := st.Trans.getOrCreate(tSym.ID)
	trans.Actions = []*Action{
		{Kind: ActionReduce, Target: 1, Time: 1},
		{Kind: ActionReduce, Target: 2, Time: 2},
	}
	graph := &Graph{States: []*State{st}}

	require.NoError(t, sortActions(graph, g, true))
	assert.Len(t, graph.BranchPoints, 1)
}

func TestSortActions_NonTerminalTransitionMustBeSingleShift(t *testing.T) {
	g := minimalGrammar(t)
	nSym, _ := g.Symbols.Lookup("n")

	st := newState(0)
	trans := st.Trans.getOrCreate(nSym.ID)
	trans.Actions = []*Action{
		{Kind: ActionShift, Target: 1},
		{Kind: ActionShift, Target: 2},
	}
	graph := &Graph{States: []*State{st}}

	err := sortActions(graph, g, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNonTermTransitionNotSingleShift))
}

func TestSortActions_NonTerminalTransitionMustBeAShift(t *testing.T) {
	g := minimalGrammar(t)
	nSym, _ := g.Symbols.Lookup("n")

	st := newState(0)
	trans := st.Trans.getOrCreate(nSym.ID)
	trans.Actions = []*Action{
		{Kind: ActionReduce, Target: 1},
	}
	graph := &Graph{States: []*State{st}}

	err := sortActions(graph, g, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNonTermTransitionNotSingleShift))
}

func TestValidateCommitPoints_RejectsCommitOnNonTerminalElement(t *testing.T) {
	b := grammar.NewBuilder()
	b.Terminal("t")
	b.NonTerminal("n")
	b.NonTerminal("s")
	b.SetRoot("s")
	b.AddProduction("n", b.Elem("t"))
	nElem := b.Elem("n")
	nElem.Commit = true
	b.AddProduction("s", nElem)

	g, err := b.Build()
	require.NoError(t, err)

	err = validateCommitPoints(g)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errCommitOnNonTermTransition))
}

func TestValidateCommitPoints_AllowsCommitOnTerminalElement(t *testing.T) {
	b := grammar.NewBuilder()
	tElem := b.Terminal("t")
	b.NonTerminal("s")
	b.SetRoot("s")
	elem := b.Elem("t")
	elem.Commit = true
	b.AddProduction("s", elem)

	g, err := b.Build()
	require.NoError(t, err)

	assert.NoError(t, validateCommitPoints(g))
	_ = tElem
}
