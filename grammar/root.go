package grammar

import "github.com/nihei9/pdabuild/symbol"

// WrapRoot synthesizes one shared `<root>` non-terminal and, for every
// declared start symbol, a production `<root> → S <eof:S>` with its
// own paired EOF terminal. This lets the PDA builder seed its initial
// state from a single kernel that covers every way parsing may begin,
// while each start symbol still accepts on its own distinct EOF.
//
// Grounded on wrapNonTerminals in the original builder, which loops
// over every start-capable lang el and wraps each in its own
// production under one shared `_root` non-terminal. The original also
// contains a second, disabled pass (insertUniqueEmptyProductions) that
// rewrites every nullable non-terminal into a fresh one with an
// explicit empty alternative; it is dead code there and no grammar in
// this module's test suite needs it, so it is intentionally not
// reproduced here (see DESIGN.md's Open Question decisions).
func WrapRoot(g *Grammar) error {
	if len(g.StartSymbols) == 0 {
		return errNoRootProduction
	}

	rootSym := g.Symbols.Declare("<root>", symbol.KindNonTerminal)
	rootSym.StartState = true

	type pair struct {
		start *symbol.Symbol
		eof   *symbol.Symbol
	}
	var pairs []pair
	for _, startID := range g.StartSymbols {
		startSym, ok := g.Symbols.ByID(startID)
		if !ok {
			return errUndefinedSymbol
		}

		eofSym := g.Symbols.Declare("<eof:"+startSym.Text+">", symbol.KindTerminal)
		eofSym.IsEOF = true
		eofSym.IsUserTerm = false
		pairs = append(pairs, pair{start: startSym, eof: eofSym})
	}

	// Ids are assigned only after every wrap production's symbols are
	// declared, so each pair's eof terminal has its final id by the
	// time it is recorded on its start symbol below.
	if err := g.Symbols.AssignIDs("<no-token>", "error"); err != nil {
		return err
	}

	for _, pr := range pairs {
		pr.start.EOFSym = pr.eof.ID
		wrap := &Production{
			Num: len(g.Prods),
			LHS: rootSym.ID,
			RHS: []*ProdElem{
				{Sym: pr.start.ID},
				{Sym: pr.eof.ID},
			},
		}
		g.Prods = append(g.Prods, wrap)
	}

	g.WrapSym = rootSym.ID
	return nil
}
