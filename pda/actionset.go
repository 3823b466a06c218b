package pda

import "fmt"

// dedupActionSets assigns a shared actionSetID to every transition
// whose action list is structurally identical to another's, so the
// table builder only needs to store one copy of each distinct action
// list. IDs start at 1; a transition's actionSetID of 0 is never
// produced by this pass and would indicate it was skipped.
//
// Grounded on the action-set hash-consing the original builder
// performs while it assembles its final tables.
func dedupActionSets(g *Graph) {
	seen := map[string]int{}
	next := 1

	for _, st := range g.States {
		for _, trans := range st.Trans.ordered() {
			key := actionSetKey(trans)
			if id, ok := seen[key]; ok {
				trans.actionSetID = id
				continue
			}
			seen[key] = next
			trans.actionSetID = next
			next++
		}
	}
}

// actionSetKey incorporates the transition's commit length alongside
// its actions: two transitions whose actions are identical but whose
// commit bookkeeping differs must not share a row, since a runtime
// reading CommitLen out of a shared action-set entry would commit at
// the wrong depth for one of them (§4.10).
func actionSetKey(trans *Trans) string {
	key := fmt.Sprintf("c%d;", trans.CommitLen)
	for _, a := range trans.Actions {
		key += fmt.Sprintf("%d:%d:%d;", a.Kind, a.Target, a.PrecSym)
	}
	return key
}
