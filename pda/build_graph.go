package pda

import (
	"fmt"

	"github.com/nihei9/pdabuild/grammar"
	"github.com/nihei9/pdabuild/symbol"
)

// genGraph translates an LALR(1) automaton into the shared PDA graph
// shape this module's later passes expect: a single Actions list per
// (state, symbol) transition, rather than the classic separate
// ACTION/GOTO tables. Shift and reduce actions are stamped in whatever
// order the automaton states were numbered; action ordering (§4.5),
// sorting (§4.6), precedence resolution (§4.7) and shift-reduce
// folding (§4.9) all run afterward and may reorder, resolve, or merge
// what this pass produces.
//
// fsms is the set of per-production FSMs built once in Build and
// shared with the ordering pass, so both passes consult the very same
// *grammar.ProdFSMState values (order.go's dot-coverage tracking keys
// off their pointer identity).
func genGraph(lalr1 *lalr1Automaton, g *grammar.Grammar, fsms []*grammar.ProdFSM) (*Graph, error) {
	numByKernel := map[kernelID]int{}
	for _, st := range lalr1.states {
		numByKernel[st.id] = st.num.Int()
	}

	stateCount := len(lalr1.states)
	states := make([]*State, stateCount)
	for _, st := range lalr1.states {
		states[st.num.Int()] = newState(st.num.Int())
	}

	fsmByProd := map[int]*grammar.ProdFSM{}
	for _, f := range fsms {
		fsmByProd[f.Prod.Num] = f
	}

	isTerminal := func(id symbol.ID) bool {
		sym, ok := g.Symbols.ByID(id)
		return ok && sym.IsTerminal()
	}
	byLHS := map[symbol.ID][]*grammar.Production{}
	for _, p := range g.Prods {
		byLHS[p.LHS] = append(byLHS[p.LHS], p)
	}

	for _, st := range lalr1.states {
		pst := states[st.num.Int()]

		closure, err := genLR0Closure(st.kernel, byLHS, g.WrapSym, isTerminal)
		if err != nil {
			return nil, err
		}
		for _, it := range closure {
			if it.dottedSymbol.IsNil() {
				continue
			}

			nextKID, ok := st.next[it.dottedSymbol]
			if !ok {
				return nil, fmt.Errorf("%w: symbol %v in state %v", errSuccessorKernelMissing, it.dottedSymbol, st.num)
			}
			targetNum, ok := numByKernel[nextKID]
			if !ok {
				return nil, fmt.Errorf("%w: successor kernel not numbered", errSuccessorKernelMissing)
			}

			trans := pst.Trans.getOrCreate(it.dottedSymbol)
			prodTrans := fsmByProd[it.prod.Num].States[it.dot].Trans
			if prodTrans.CommitLen > trans.CommitLen {
				trans.CommitLen = prodTrans.CommitLen
			}
			if prodTrans.Priority > trans.ShiftPriority {
				trans.ShiftPriority = prodTrans.Priority
			}

			// A GOTO (the state to resume in after reducing to a
			// non-terminal) is structurally identical to a shift:
			// both move the dot past one symbol on the state's
			// outgoing transition and push the successor state.
			// Representing it as an ActionShift lets the table
			// builder store it with no separate GOTO table.
			if len(trans.Actions) == 0 {
				trans.Actions = []*Action{{Kind: ActionShift, Target: targetNum}}
			}
			trans.Actions[0].Priority = trans.ShiftPriority
		}

		for _, it := range st.items {
			if !it.reducible {
				continue
			}
			for la := range it.lookAhead.symbols {
				trans := pst.Trans.getOrCreate(la)
				trans.Actions = append(trans.Actions, &Action{Kind: ActionReduce, Target: it.prod.Num})
			}
		}
		for _, it := range st.emptyProdItems {
			for la := range it.lookAhead.symbols {
				trans := pst.Trans.getOrCreate(la)
				trans.Actions = append(trans.Actions, &Action{Kind: ActionReduce, Target: it.prod.Num})
			}
		}
	}

	startStates := map[symbol.ID]int{}
	eofSymbols := map[symbol.ID]symbol.ID{}
	for _, startID := range g.StartSymbols {
		startSym, ok := g.Symbols.ByID(startID)
		if !ok {
			return nil, fmt.Errorf("undefined start symbol %v", startID)
		}
		// All start symbols share the same initial kernel: the LR(0)
		// construction seeds it with one item per wrap production
		// (§4.4), so parsing begins from the same PDA state no matter
		// which start symbol governs acceptance.
		startStates[startID] = numByKernel[lalr1.initialState]
		eofSymbols[startID] = startSym.EOFSym
	}

	graph := &Graph{
		States:         states,
		StartStates:    startStates,
		EOFSymbols:     eofSymbols,
		FirstNonTermID: g.Symbols.FirstNonTermID(),
	}
	return graph, nil
}
