package pda

import (
	"fmt"

	"github.com/nihei9/pdabuild/grammar"
	"github.com/nihei9/pdabuild/symbol"
)

// resolvePrecedence resolves conflicts on every terminal-keyed
// transition using the declared precedence and associativity of that
// terminal, weighed against whichever production a competing reduce
// would reduce by: a generic pairwise scan over the transition's
// action list, rather than a single always-shifts-first partition, so
// that reduce/reduce conflicts where both productions declare
// precedence resolve too, not only shift/reduce ones. Conflicts
// precedence cannot resolve (either side undeclared) are left as
// multiple actions for action-ordering to hand to a backtracking
// runtime; a Nonassoc terminal with a genuine conflict at equal
// precedence is a grammar error, since Nonassoc exists specifically to
// forbid chaining, not to request backtracking over it.
//
// Grounded on resolveConflict/predOf in the original builder.
func resolvePrecedence(g *Graph, gram *grammar.Grammar) error {
	prodByNum := map[int]*grammar.Production{}
	for _, p := range gram.Prods {
		prodByNum[p.Num] = p
	}

	var errs []error
	for _, st := range g.States {
		for _, trans := range st.Trans.ordered() {
			if len(trans.Actions) < 2 {
				continue
			}
			termSym, ok := gram.Symbols.ByID(trans.Sym)
			if !ok || termSym.IsNonTerminal() {
				continue
			}
			if err := resolveTransPrecedence(trans, termSym, prodByNum); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return newBuildError("precedence", errs)
	}
	return nil
}

type precInfo struct {
	predType  symbol.PredType
	predValue int
	has       bool
}

func actionPrec(a *Action, termSym *symbol.Symbol, prodByNum map[int]*grammar.Production) precInfo {
	switch a.Kind {
	case ActionShift, ActionShiftReduce:
		if termSym.PredType == symbol.PredNone {
			return precInfo{}
		}
		return precInfo{predType: termSym.PredType, predValue: termSym.PredValue, has: true}
	case ActionReduce:
		prod := prodByNum[a.Target]
		if prod == nil || prod.Prec == symbol.PredNone {
			return precInfo{}
		}
		return precInfo{predType: prod.Prec, predValue: prod.PrecValue, has: true}
	}
	return precInfo{}
}

// resolveTransPrecedence scans every pair (i, j) of actions on trans,
// i < j, resolving the pair by precedence when both sides declare
// one: the higher-precedence side survives outright; at equal
// precedence, associativity decides (Left keeps the reduce, Right
// keeps the shift, Nonassoc is an error); the loser is removed and the
// scan restarts, since removing an action shifts every later index.
func resolveTransPrecedence(trans *Trans, termSym *symbol.Symbol, prodByNum map[int]*grammar.Production) error {
restart:
	actions := trans.Actions
	for i := 0; i < len(actions); i++ {
		for j := i + 1; j < len(actions); j++ {
			pi := actionPrec(actions[i], termSym, prodByNum)
			pj := actionPrec(actions[j], termSym, prodByNum)
			if !pi.has || !pj.has {
				continue
			}

			if pi.predValue == pj.predValue {
				switch pi.predType {
				case symbol.PredNonassoc:
					return fmt.Errorf("nonassociative conflict on symbol %v", termSym.Text)
				case symbol.PredLeft:
					if actions[i].Kind == ActionShift {
						trans.Actions = precedenceRemove(actions, i)
					} else {
						trans.Actions = precedenceRemove(actions, j)
					}
					goto restart
				case symbol.PredRight:
					if actions[i].Kind != ActionShift {
						trans.Actions = precedenceRemove(actions, i)
					} else {
						trans.Actions = precedenceRemove(actions, j)
					}
					goto restart
				default:
					continue
				}
			}

			if pi.predValue > pj.predValue {
				trans.Actions = precedenceRemove(actions, j)
			} else {
				trans.Actions = precedenceRemove(actions, i)
			}
			goto restart
		}
	}
	return nil
}

func precedenceRemove(actions []*Action, idx int) []*Action {
	out := make([]*Action, 0, len(actions)-1)
	out = append(out, actions[:idx]...)
	out = append(out, actions[idx+1:]...)
	return out
}
