package main

import (
	"fmt"

	"github.com/nihei9/pdabuild/grammar"
)

// loadFixture resolves a grammar by name. There is no textual grammar
// DSL in scope for this module (surface-grammar parsing is an
// external collaborator's job), so a caller of this CLI names one of
// a small set of grammars expressed directly through the grammar
// package's builder API.
func loadFixture(name string) (*grammar.Grammar, error) {
	switch name {
	case "expr":
		return exprFixture()
	default:
		return nil, fmt.Errorf("unknown grammar fixture: %v", name)
	}
}

// exprFixture is a small left-recursive arithmetic grammar with two
// precedence levels, useful for exercising every pass of the build
// pipeline end to end.
func exprFixture() (*grammar.Grammar, error) {
	b := grammar.NewBuilder()
	plus := b.Terminal("+")
	star := b.Terminal("*")
	b.Terminal("num")
	b.NonTerminal("expr")
	b.NonTerminal("term")
	b.SetRoot("expr")

	b.AddProduction("expr", b.Elem("expr"), b.Elem("+"), b.Elem("term"))
	b.AddProduction("expr", b.Elem("term"))
	b.AddProduction("term", b.Elem("term"), b.Elem("*"), b.Elem("num"))
	b.AddProduction("term", b.Elem("num"))

	g, err := b.Build()
	if err != nil {
		return nil, err
	}

	plusSym, _ := g.Symbols.ByID(plus)
	plusSym.PredType = 1 // left
	plusSym.PredValue = 1
	starSym, _ := g.Symbols.ByID(star)
	starSym.PredType = 1 // left
	starSym.PredValue = 2

	if err := grammar.WrapRoot(g); err != nil {
		return nil, err
	}
	g.ResolvePrecedence()

	return g, nil
}
