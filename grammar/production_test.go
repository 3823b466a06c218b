package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildProdFSM(t *testing.T) {
	_, g := buildExprGrammar(t)

	var exprPlusTerm *Production
	for _, p := range g.Prods {
		if len(p.RHS) == 3 {
			exprPlusTerm = p
			break
		}
	}
	if !assert.NotNil(t, exprPlusTerm) {
		return
	}

	fsm := BuildProdFSM(exprPlusTerm)
	assert.Len(t, fsm.States, 4) // dot 0..3
	assert.True(t, fsm.States[3].IsFinal())
	assert.False(t, fsm.States[0].IsFinal())
	assert.Equal(t, exprPlusTerm.RHS[0].Sym, fsm.States[0].Trans.Sym)
}

func TestBuildProdFSM_CommitAccumulates(t *testing.T) {
	b := NewBuilder()
	b.Terminal("a")
	b.Terminal("b")
	b.Terminal("c")
	b.NonTerminal("s")
	b.SetRoot("s")

	a := b.Elem("a")
	a.Commit = true
	b.AddProduction("s", a, b.Elem("b"), b.Elem("c"))
	g, err := b.Build()
	if !assert.NoError(t, err) {
		return
	}

	fsm := BuildProdFSM(g.Prods[0])
	assert.Equal(t, 0, fsm.States[0].Trans.CommitLen)
	assert.Equal(t, 1, fsm.States[1].Trans.CommitLen)
	assert.Equal(t, 1, fsm.States[2].Trans.CommitLen)
}
