package pda

import (
	"fmt"

	"github.com/nihei9/pdabuild/grammar"
)

// computeAdvanceReductions folds a shift into a fused shift-reduce
// action wherever the shift's target state has exactly one possible
// action regardless of the next look-ahead symbol: such a state does
// nothing but reduce by the same production no matter what comes
// next, so a runtime can skip materializing it and perform the
// reduce immediately after the shift.
//
// Grounded on computeAdvanceReductions in the original builder.
func computeAdvanceReductions(g *Graph) {
	singleReduceProd := make([]int, len(g.States))
	for i := range singleReduceProd {
		singleReduceProd[i] = -1
	}

	for _, st := range g.States {
		trans := st.Trans.ordered()
		if len(trans) == 0 {
			continue
		}
		prod := -1
		uniform := true
		for _, tr := range trans {
			if len(tr.Actions) != 1 || tr.Actions[0].Kind != ActionReduce {
				uniform = false
				break
			}
			p := tr.Actions[0].Target
			if prod == -1 {
				prod = p
			} else if prod != p {
				uniform = false
				break
			}
		}
		if uniform && prod != -1 {
			singleReduceProd[st.Num] = prod
		}
	}

	for _, st := range g.States {
		for _, trans := range st.Trans.ordered() {
			for _, act := range trans.Actions {
				if act.Kind != ActionShift {
					continue
				}
				if prod := singleReduceProd[act.Target]; prod != -1 {
					act.Kind = ActionShiftReduce
					act.Target = prod
				}
			}
		}
	}
}

// verifyParseStop checks, for every declared start symbol whose
// symbol is marked ParseStop, that following its root definition from
// the parser's start state reaches a sink with no further shifts, and
// that no OTHER, non-sink state still carries a transition on that
// start symbol's own EOF terminal: ParseStop exists so a runtime can
// stop cleanly once the start symbol's definition is recognized, and a
// grammar where some other state could still shift that same EOF
// defeats the guarantee the declaration is supposed to give.
//
// Grounded on verifyParseStopGrammar in the original builder.
func verifyParseStop(g *Graph, gram *grammar.Grammar) error {
	var errs []error
	for _, startID := range gram.StartSymbols {
		startSym, ok := gram.Symbols.ByID(startID)
		if !ok || !startSym.ParseStop {
			continue
		}

		startState := g.State(g.StartStates[startID])
		if startState == nil {
			errs = append(errs, fmt.Errorf("%w: start symbol %v has no start state", errParseStopIncompatible, startSym.Text))
			continue
		}
		overStart, ok := startState.Trans.get(startID)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: start symbol %v has no successor state", errParseStopIncompatible, startSym.Text))
			continue
		}
		postStart := g.State(shiftTarget(overStart))
		if postStart == nil {
			errs = append(errs, fmt.Errorf("%w: start symbol %v has no successor state", errParseStopIncompatible, startSym.Text))
			continue
		}
		eofTrans, ok := postStart.Trans.get(startSym.EOFSym)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: start symbol %v has no eof transition", errParseStopIncompatible, startSym.Text))
			continue
		}
		sinkNum := shiftTarget(eofTrans)

		for _, st := range g.States {
			if st.Num == sinkNum {
				continue
			}
			if _, ok := st.Trans.get(startSym.EOFSym); ok {
				errs = append(errs, fmt.Errorf("%w: state %v still has a transition on %v's eof", errParseStopIncompatible, st.Num, startSym.Text))
			}
		}
	}

	if len(errs) > 0 {
		return newBuildError("parse-stop", errs)
	}
	return nil
}
