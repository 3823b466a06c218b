package pda

import (
	"fmt"
	"sort"

	"github.com/nihei9/pdabuild/grammar"
)

// sortActions orders each transition's actions by (−priority, +time):
// a higher shift priority always wins outright, and among equal
// priorities the action action-ordering (§4.5) reached first comes
// first. It also asserts that every non-terminal-keyed (GOTO)
// transition carries exactly one action and that it is a shift or a
// shift-reduce: a
// GOTO is the single, deterministic successor state reached after
// reducing to that non-terminal, so it never legitimately branches
// (§4.6, testable property §8.2). When logBranchPoints is set, every
// terminal transition left with more than one action after sorting is
// recorded on g.BranchPoints for diagnostics.
//
// Grounded on sortActions in the original builder.
func sortActions(g *Graph, gram *grammar.Grammar, logBranchPoints bool) error {
	var errs []error

	for _, st := range g.States {
		for _, trans := range st.Trans.ordered() {
			sym, ok := gram.Symbols.ByID(trans.Sym)
			if ok && sym.IsNonTerminal() {
				if len(trans.Actions) != 1 {
					errs = append(errs, fmt.Errorf("%w: state %v on %v has %v actions", errNonTermTransitionNotSingleShift, st.Num, sym.Text, len(trans.Actions)))
					continue
				}
				if k := trans.Actions[0].Kind; k != ActionShift && k != ActionShiftReduce {
					errs = append(errs, fmt.Errorf("%w: state %v on %v is a %v", errNonTermTransitionNotSingleShift, st.Num, sym.Text, k))
				}
				continue
			}

			actions := trans.Actions
			sort.SliceStable(actions, func(i, j int) bool {
				a, b := actions[i], actions[j]
				if a.Priority != b.Priority {
					return a.Priority > b.Priority
				}
				return a.Time < b.Time
			})

			if logBranchPoints && len(actions) > 1 {
				g.BranchPoints = append(g.BranchPoints, fmt.Sprintf("state %v, symbol %v: %v branches", st.Num, trans.Sym, len(actions)))
			}
		}
	}

	return newBuildError("sort", errs)
}

// validateCommitPoints asserts that no production declares a commit
// point immediately following a non-terminal element: the transition
// such an element shifts on is a GOTO, taken only after the
// non-terminal has already been fully reduced, and a GOTO's single
// successor carries no notion of "the choices made reducing this
// non-terminal are now locked in" distinct from the reduce itself
// (§4.6).
func validateCommitPoints(gram *grammar.Grammar) error {
	var errs []error
	for _, p := range gram.Prods {
		for _, elem := range p.RHS {
			if !elem.Commit {
				continue
			}
			sym, ok := gram.Symbols.ByID(elem.Sym)
			if ok && sym.IsNonTerminal() {
				errs = append(errs, fmt.Errorf("%w: production %v", errCommitOnNonTermTransition, p.Num))
			}
		}
	}
	return newBuildError("commit", errs)
}
