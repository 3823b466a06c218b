package pda

import (
	"testing"

	"github.com/nihei9/pdabuild/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildExprGrammar builds:
//
//	expr -> expr '+' term
//	expr -> term
//	term -> term '*' num
//	term -> num
//
// and wraps it with a root production, mirroring what a real caller
// does before invoking Build.
func buildExprGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder()
	b.Terminal("+")
	b.Terminal("*")
	b.Terminal("num")
	b.NonTerminal("expr")
	b.NonTerminal("term")
	b.SetRoot("expr")

	b.AddProduction("expr", b.Elem("expr"), b.Elem("+"), b.Elem("term"))
	b.AddProduction("expr", b.Elem("term"))
	b.AddProduction("term", b.Elem("term"), b.Elem("*"), b.Elem("num"))
	b.AddProduction("term", b.Elem("num"))

	g, err := b.Build()
	require.NoError(t, err)
	require.NoError(t, grammar.WrapRoot(g))
	g.ResolvePrecedence()
	return g
}

func TestBuild_Smoke(t *testing.T) {
	g := buildExprGrammar(t)

	res, err := Build(g, Options{})
	require.NoError(t, err)
	require.NotNil(t, res.Graph)
	require.NotNil(t, res.Tables)

	assert.Greater(t, len(res.Graph.States), 0)
	assert.Equal(t, len(res.Graph.States), res.Tables.StateCount)

	startState, ok := res.Tables.StartStates[g.StartSymbols[0]]
	require.True(t, ok)
	assert.GreaterOrEqual(t, startState, 0)
}

func TestBuild_TablesLookupMatchesGraph(t *testing.T) {
	g := buildExprGrammar(t)
	res, err := Build(g, Options{})
	require.NoError(t, err)

	for _, st := range res.Graph.States {
		for _, trans := range st.Trans.ordered() {
			idx, err := res.Tables.Lookup(st.Num, trans.Sym)
			require.NoError(t, err)
			assert.Equal(t, trans.actionSetID, idx)
		}
	}
}

func TestBuild_NoRoot(t *testing.T) {
	b := grammar.NewBuilder()
	b.Terminal("a")
	b.NonTerminal("s")
	b.AddProduction("s", b.Elem("a"))
	g, err := b.Build()
	require.Error(t, err)
	require.Nil(t, g)
}

func TestBuild_PrecedenceResolvesShiftReduceConflict(t *testing.T) {
	// A classic dangling-else-shaped ambiguity: expr -> expr + expr |
	// expr * expr | num, with '*' binding tighter than '+', both left
	// associative.
	b := grammar.NewBuilder()
	plus := b.Terminal("+")
	star := b.Terminal("*")
	b.Terminal("num")
	b.NonTerminal("expr")
	b.SetRoot("expr")

	b.AddProduction("expr", b.Elem("expr"), b.Elem("+"), b.Elem("expr"))
	b.AddProduction("expr", b.Elem("expr"), b.Elem("*"), b.Elem("expr"))
	b.AddProduction("expr", b.Elem("num"))

	g, err := b.Build()
	require.NoError(t, err)

	plusSym, _ := g.Symbols.ByID(plus)
	plusSym.PredType = 1 // symbol.PredLeft
	plusSym.PredValue = 1
	starSym, _ := g.Symbols.ByID(star)
	starSym.PredType = 1
	starSym.PredValue = 2

	require.NoError(t, grammar.WrapRoot(g))
	g.ResolvePrecedence()

	res, err := Build(g, Options{})
	require.NoError(t, err)

	for _, st := range res.Graph.States {
		for _, trans := range st.Trans.ordered() {
			var shifts, reduces int
			for _, a := range trans.Actions {
				if a.Kind == ActionShift {
					shifts++
				}
				if a.Kind == ActionReduce {
					reduces++
				}
			}
			if trans.Sym == plus || trans.Sym == star {
				assert.False(t, shifts > 0 && reduces > 0, "precedence should have resolved the shift/reduce conflict on %v", trans.Sym)
			}
		}
	}
}
