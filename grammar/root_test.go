package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRoot(t *testing.T) {
	_, g := buildExprGrammar(t)
	origStart := g.StartSymbols[0]

	require.NoError(t, WrapRoot(g))

	assert.NotEqual(t, origStart, g.WrapSym)
	assert.False(t, g.WrapSym.IsNil())

	var wrap *Production
	for _, p := range g.Prods {
		if p.LHS == g.WrapSym {
			wrap = p
		}
	}
	require.NotNil(t, wrap)
	assert.Len(t, wrap.RHS, 2)
	assert.Equal(t, origStart, wrap.RHS[0].Sym)

	startSym, ok := g.Symbols.ByID(origStart)
	require.True(t, ok)
	assert.False(t, startSym.EOFSym.IsNil())
	assert.Equal(t, startSym.EOFSym, wrap.RHS[1].Sym)

	rootSym, ok := g.Symbols.ByID(g.WrapSym)
	require.True(t, ok)
	assert.True(t, rootSym.StartState)
}

func TestWrapRoot_MultipleStartSymbols(t *testing.T) {
	b := NewBuilder()
	b.Terminal("a")
	b.Terminal("b")
	b.NonTerminal("x")
	b.NonTerminal("y")
	b.SetRoot("x")
	b.SetRoot("y")
	b.AddProduction("x", b.Elem("a"))
	b.AddProduction("y", b.Elem("b"))

	g, err := b.Build()
	require.NoError(t, err)
	require.Len(t, g.StartSymbols, 2)

	require.NoError(t, WrapRoot(g))

	var wraps []*Production
	for _, p := range g.Prods {
		if p.LHS == g.WrapSym {
			wraps = append(wraps, p)
		}
	}
	require.Len(t, wraps, 2)

	xSym, ok := g.Symbols.ByID(g.StartSymbols[0])
	require.True(t, ok)
	ySym, ok := g.Symbols.ByID(g.StartSymbols[1])
	require.True(t, ok)

	assert.False(t, xSym.EOFSym.IsNil())
	assert.False(t, ySym.EOFSym.IsNil())
	assert.NotEqual(t, xSym.EOFSym, ySym.EOFSym)
}
