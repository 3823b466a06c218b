package pda

import (
	"errors"
	"testing"

	"github.com/nihei9/pdabuild/grammar"
	"github.com/nihei9/pdabuild/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyParseStop_PassesACleanGrammar(t *testing.T) {
	b := grammar.NewBuilder()
	b.Terminal("a")
	sID := b.NonTerminal("s")
	b.SetRoot("s")
	b.AddProduction("s", b.Elem("a"))

	g, err := b.Build()
	require.NoError(t, err)

	sSym, ok := g.Symbols.ByID(sID)
	require.True(t, ok)
	sSym.ParseStop = true

	require.NoError(t, grammar.WrapRoot(g))
	g.ResolvePrecedence()

	_, err = Build(g, Options{VerifyParseStop: true})
	require.NoError(t, err)
}

// TestVerifyParseStop_DetectsResidualEOFTransition builds a graph by
// hand where a state unrelated to the start symbol's own accept path
// still carries a transition on that start symbol's eof terminal: this
// is scenario S6, the exact case verifyParseStop exists to reject.
func TestVerifyParseStop_DetectsResidualEOFTransition(t *testing.T) {
	b := grammar.NewBuilder()
	b.Terminal("a")
	sID := b.NonTerminal("s")
	b.SetRoot("s")
	b.AddProduction("s", b.Elem("a"))

	g, err := b.Build()
	require.NoError(t, err)

	sSym, ok := g.Symbols.ByID(sID)
	require.True(t, ok)
	sSym.ParseStop = true

	require.NoError(t, grammar.WrapRoot(g))
	eofID := sSym.EOFSym

	// state0 --s--> state1 --eof--> state2 (the intended sink)
	// state3 --eof--> state2          (a spurious survivor)
	state0 := newState(0)
	state0.Trans.getOrCreate(sID).Actions = []*Action{{Kind: ActionShift, Target: 1}}
	state1 := newState(1)
	state1.Trans.getOrCreate(eofID).Actions = []*Action{{Kind: ActionShift, Target: 2}}
	state2 := newState(2)
	state3 := newState(3)
	state3.Trans.getOrCreate(eofID).Actions = []*Action{{Kind: ActionShift, Target: 2}}

	graph := &Graph{
		States:      []*State{state0, state1, state2, state3},
		StartStates: map[symbol.ID]int{sID: 0},
		EOFSymbols:  map[symbol.ID]symbol.ID{sID: eofID},
	}

	err = verifyParseStop(graph, g)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errParseStopIncompatible))
}
