package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildExprGrammar builds:
//
//	expr -> expr '+' term
//	expr -> term
//	term -> num
func buildExprGrammar(t *testing.T) (*Builder, *Grammar) {
	t.Helper()
	b := NewBuilder()
	b.Terminal("+")
	b.Terminal("num")
	b.NonTerminal("expr")
	b.NonTerminal("term")
	b.SetRoot("expr")

	b.AddProduction("expr", b.Elem("expr"), b.Elem("+"), b.Elem("term"))
	b.AddProduction("expr", b.Elem("term"))
	b.AddProduction("term", b.Elem("num"))

	g, err := b.Build()
	require.NoError(t, err)
	return b, g
}

func TestBuilder_Build(t *testing.T) {
	_, g := buildExprGrammar(t)

	assert.Len(t, g.Prods, 3)
	require.Len(t, g.StartSymbols, 1)
	assert.False(t, g.StartSymbols[0].IsNil())

	termSym, ok := g.Symbols.Lookup("term")
	require.True(t, ok)
	prods := g.ProdsByLHS(termSym.ID)
	assert.Len(t, prods, 1)
}

func TestBuilder_Build_NoProductions(t *testing.T) {
	b := NewBuilder()
	b.SetRoot("x")
	_, err := b.Build()
	assert.Error(t, err)
}

func TestBuilder_Build_UndefinedSymbol(t *testing.T) {
	b := NewBuilder()
	b.NonTerminal("expr")
	b.SetRoot("expr")
	b.AddProduction("expr", b.Elem("nope"))
	_, err := b.Build()
	assert.Error(t, err)
}

func TestBuilder_Build_RejectsExactDuplicateProduction(t *testing.T) {
	b := NewBuilder()
	b.Terminal("num")
	b.NonTerminal("expr")
	b.SetRoot("expr")
	b.AddProduction("expr", b.Elem("num"))
	b.AddProduction("expr", b.Elem("num"))

	_, err := b.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDuplicateProduction))
}
