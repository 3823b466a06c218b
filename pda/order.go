package pda

import (
	"fmt"

	"github.com/nihei9/pdabuild/grammar"
	"github.com/nihei9/pdabuild/symbol"
)

// orderer carries the state threaded through the action-ordering
// traversal (§4.5): a mutual recursion between orderProd (walk a
// production's own FSM in lockstep with the table graph) and
// orderFollow (stamp the reduce actions that follow one of a
// non-terminal's definitions), grounded on pdaOrderProd/pdaOrderFollow
// in the original builder's pdabuild.cc.
type orderer struct {
	g          *Graph
	gram       *grammar.Grammar
	fsmByProd  map[int]*grammar.ProdFSM
	first      *grammar.FirstSet
	isTerminal func(symbol.ID) bool

	time int

	// dotSet2 is, per table state number, the set of production-FSM
	// states already visited from it — the same identity the original
	// builder tracks via a per-state dot-item-id set, except here the
	// *grammar.ProdFSMState pointers themselves are the identity,
	// since fsmByProd is built once and shared with genGraph.
	dotSet2 map[int]map[*grammar.ProdFSMState]bool

	curWrapProd *grammar.Production
	curEOF      symbol.ID

	err error
}

func (o *orderer) fail(err error) {
	if o.err == nil {
		o.err = err
	}
}

// trySetTime stamps time (and advances it) on the first action in
// trans matching kind (and, when matchTarget, target) whose Time is
// still unset. A transition carries at most one shift action, so
// shifts never need to match on target; reduces are disambiguated by
// production number.
func trySetTime(trans *Trans, kind ActionKind, target int, matchTarget bool, time *int) {
	for _, a := range trans.Actions {
		if a.Kind != kind {
			continue
		}
		if matchTarget && a.Target != target {
			continue
		}
		if a.Time == 0 {
			a.Time = *time
			*time++
		}
		return
	}
}

func shiftTarget(trans *Trans) int {
	if trans == nil {
		return -1
	}
	for _, a := range trans.Actions {
		if a.Kind == ActionShift {
			return a.Target
		}
	}
	return -1
}

func wrapProdFor(gram *grammar.Grammar, startID symbol.ID) *grammar.Production {
	for _, p := range gram.Prods {
		if p.LHS == gram.WrapSym && len(p.RHS) > 0 && p.RHS[0].Sym == startID {
			return p
		}
	}
	return nil
}

// orderActions assigns a monotonic time to every shift and reduce
// action reachable from each declared start symbol, and attaches the
// token regions predicted along the way (§4.5, §4.8 — folded together
// exactly where the original builder's addRegion is called, since a region is
// only known at the point an action's time is stamped). lalr1 supplies
// each table state's kernel items, consulted only for the closing
// dotSet/dotSet2 coverage check (§8.4); pass nil to skip it.
func orderActions(g *Graph, gram *grammar.Grammar, fsms []*grammar.ProdFSM, first *grammar.FirstSet, isTerminal func(symbol.ID) bool, lalr1 *lalr1Automaton) error {
	o := &orderer{
		g:          g,
		gram:       gram,
		first:      first,
		isTerminal: isTerminal,
		fsmByProd:  map[int]*grammar.ProdFSM{},
		dotSet2:    map[int]map[*grammar.ProdFSMState]bool{},
		time:       1,
	}
	for _, f := range fsms {
		o.fsmByProd[f.Prod.Num] = f
	}

	for _, startID := range gram.StartSymbols {
		startSym, ok := gram.Symbols.ByID(startID)
		if !ok {
			return fmt.Errorf("%w: undefined start symbol", errInternalOrderingGap)
		}
		wrapProd := wrapProdFor(gram, startID)
		if wrapProd == nil {
			return fmt.Errorf("%w: no wrap production for start symbol %v", errInternalOrderingGap, startSym.Text)
		}
		o.curWrapProd = wrapProd
		o.curEOF = startSym.EOFSym

		startState := g.State(g.StartStates[startID])
		o.orderProd(startState, o.fsmByProd[wrapProd.Num].States[0], wrapProd)
		if o.err != nil {
			return o.err
		}

		// Stamp the shift of the eof that completes this start
		// symbol's parse; orderProd alone never reaches it, since it
		// stops once a production's FSM runs out of elements.
		overStart, ok := startState.Trans.get(startID)
		if !ok {
			return fmt.Errorf("%w: start state has no transition on %v", errInternalOrderingGap, startSym.Text)
		}
		eofState := g.State(shiftTarget(overStart))
		if eofState == nil {
			return fmt.Errorf("%w: start symbol %v has no successor state", errInternalOrderingGap, startSym.Text)
		}
		eofTrans, ok := eofState.Trans.get(startSym.EOFSym)
		if !ok {
			return fmt.Errorf("%w: no eof transition for start symbol %v", errInternalOrderingGap, startSym.Text)
		}
		for _, a := range eofTrans.Actions {
			if a.Kind == ActionShift {
				if a.Time == 0 {
					a.Time = o.time
					o.time++
				}
				break
			}
		}
	}

	// Any state left with no recorded region, but with an outgoing eof
	// transition, scans the synthetic eof region instead (§4.8).
	for _, st := range g.States {
		if len(st.Regions) > 0 {
			continue
		}
		for _, tr := range st.Trans.ordered() {
			sym, ok := gram.Symbols.ByID(tr.Sym)
			if ok && sym.IsEOF {
				st.addRegion(eofTokenRegion)
				break
			}
		}
	}

	if lalr1 != nil {
		for _, st := range lalr1.states {
			visited := o.dotSet2[st.num.Int()]
			for _, it := range st.items {
				fsm, ok := o.fsmByProd[it.prod.Num]
				if !ok {
					continue
				}
				ps := fsm.States[it.dot]
				if !visited[ps] {
					return fmt.Errorf("%w: state %d, production %d dot %d was never visited", errInternalOrderingGap, st.num.Int(), it.prod.Num, it.dot)
				}
			}
		}
	}

	return nil
}

// orderProd walks one production's FSM, in lockstep with the table
// graph, stamping the shift that advances past each element and
// recursing into every definition of a non-terminal element before
// moving on (or, for a reduceFirst non-terminal, recursing into every
// definition's follow before any of their bodies, forcing a
// shortest-match order).
func (o *orderer) orderProd(tabState *State, srcState *grammar.ProdFSMState, parentDef *grammar.Production) {
	if o.err != nil || tabState == nil || srcState == nil {
		return
	}

	visited := o.dotSet2[tabState.Num]
	if visited == nil {
		visited = map[*grammar.ProdFSMState]bool{}
		o.dotSet2[tabState.Num] = visited
	}
	if visited[srcState] {
		return
	}
	visited[srcState] = true

	if srcState.Trans == nil {
		return
	}
	srcTrans := srcState.Trans

	tabTrans, ok := tabState.Trans.get(srcTrans.Sym)
	if !ok {
		o.fail(fmt.Errorf("%w: state %d has no transition for symbol %v", errInternalOrderingGap, tabState.Num, srcTrans.Sym))
		return
	}

	sym, symOK := o.gram.Symbols.ByID(srcTrans.Sym)
	if symOK && sym.IsNonTerminal() {
		defs := o.gram.ProdsByLHS(srcTrans.Sym)
		overTab := o.g.State(shiftTarget(tabTrans))
		overSrc := o.fsmByProd[parentDef.Num].States[srcState.Dot+1]

		if sym.ReduceFirst {
			// Shortest-match ordering: resolve every definition's
			// follow before descending into any of their bodies.
			for _, def := range defs {
				o.orderFollow(tabState, overTab, overSrc, parentDef, def)
			}
			for _, def := range defs {
				o.orderProd(tabState, o.fsmByProd[def.Num].States[0], def)
			}
		} else {
			for _, def := range defs {
				o.orderProd(tabState, o.fsmByProd[def.Num].States[0], def)
				o.orderFollow(tabState, overTab, overSrc, parentDef, def)
			}
		}
		if o.err != nil {
			return
		}
	}

	trySetTime(tabTrans, ActionShift, 0, false, &o.time)

	if symOK && !sym.TermDup.IsNil() {
		if dupTrans, ok2 := tabState.Trans.get(sym.TermDup); ok2 {
			trySetTime(dupTrans, ActionShift, 0, false, &o.time)
		}
	}

	o.addRegion(tabState, tabTrans, srcTrans.Sym)

	o.orderProd(o.g.State(shiftTarget(tabTrans)), o.fsmByProd[parentDef.Num].States[srcState.Dot+1], parentDef)
}

// orderFollow stamps the reduce action(s) that complete definition,
// restricted to the symbols that may legally follow it here: the
// current start symbol's own eof when parentDef is that start
// symbol's wrap production, otherwise whatever findFollow computes
// from the enclosing production.
func (o *orderer) orderFollow(tabState, overTab *State, overSrc *grammar.ProdFSMState, parentDef, definition *grammar.Production) {
	if o.err != nil {
		return
	}

	var alphSet map[symbol.ID]bool
	if parentDef == o.curWrapProd {
		alphSet = map[symbol.ID]bool{o.curEOF: true}
	} else {
		alphSet = o.findFollow(overTab, overSrc, parentDef)
	}

	defFSM, ok := o.fsmByProd[definition.Num]
	if !ok {
		o.fail(fmt.Errorf("%w: unknown production %d", errInternalOrderingGap, definition.Num))
		return
	}
	expandToState := o.followProd(tabState, defFSM)
	if o.err != nil {
		return
	}

	for _, tt := range expandToState.Trans.ordered() {
		if !alphSet[tt.Sym] {
			continue
		}
		trySetTime(tt, ActionReduce, definition.Num, true, &o.time)
		o.addRegion(expandToState, tt, tt.Sym)
	}
}

// findFollow computes the set of terminals that may follow overSrc,
// the dot position directly after parentDef's non-terminal element,
// consulting every definition's own first-set and, if any of them can
// derive empty, recursing over the table/production pair that follows.
func (o *orderer) findFollow(overTab *State, overSrc *grammar.ProdFSMState, parentDef *grammar.Production) map[symbol.ID]bool {
	result := map[symbol.ID]bool{}
	if o.err != nil {
		return result
	}

	if overSrc.IsFinal() {
		for _, tt := range overTab.Trans.ordered() {
			for _, a := range tt.Actions {
				if a.Kind == ActionReduce && a.Target == parentDef.Num {
					result[tt.Sym] = true
				}
			}
		}
		return result
	}

	trans := overSrc.Trans
	sym, ok := o.gram.Symbols.ByID(trans.Sym)
	if ok && sym.IsNonTerminal() {
		hasEpsilon := false
		for _, def := range o.gram.ProdsByLHS(trans.Sym) {
			fsm, fok := o.fsmByProd[def.Num]
			if !fok {
				continue
			}
			fst := o.first.Find(fsm, 0, o.isTerminal)
			for s := range fst.Symbols {
				result[s] = true
			}
			if fst.Empty {
				hasEpsilon = true
			}
		}

		if hasEpsilon {
			tabTrans, tok := overTab.Trans.get(trans.Sym)
			if !tok {
				o.fail(fmt.Errorf("%w: no transition for symbol %v while computing follow", errInternalOrderingGap, trans.Sym))
				return result
			}
			nextSrc := o.fsmByProd[parentDef.Num].States[overSrc.Dot+1]
			sub := o.findFollow(o.g.State(shiftTarget(tabTrans)), nextSrc, parentDef)
			for s := range sub {
				result[s] = true
			}
		}

		if !sym.TermDup.IsNil() {
			result[sym.TermDup] = true
		}
	} else {
		result[trans.Sym] = true
	}

	return result
}

// followProd walks fsm from its start state, in lockstep with
// tabState, returning the table state reached once fsm has no more
// elements to advance over.
func (o *orderer) followProd(tabState *State, fsm *grammar.ProdFSM) *State {
	prodState := fsm.States[0]
	for prodState.Trans != nil {
		if o.err != nil {
			return tabState
		}
		tabTrans, ok := tabState.Trans.get(prodState.Trans.Sym)
		if !ok {
			o.fail(fmt.Errorf("%w: no transition for symbol %v while following a production", errInternalOrderingGap, prodState.Trans.Sym))
			return tabState
		}
		tgt := shiftTarget(tabTrans)
		next := o.g.State(tgt)
		if next == nil {
			o.fail(fmt.Errorf("%w: shift target %d is not a state", errInternalOrderingGap, tgt))
			return tabState
		}
		tabState = next
		prodState = fsm.States[prodState.Dot+1]
	}
	return tabState
}

// addRegion attaches the token region a terminal symbol predicts to
// tabState's Regions (the region to scan while predicting it) and,
// unless the terminal suppresses post-ignore, the shift's target
// state's PreRegions (§4.8). Non-terminal symbols and terminals with
// no declared region are no-ops.
func (o *orderer) addRegion(tabState *State, tabTrans *Trans, symID symbol.ID) {
	sym, ok := o.gram.Symbols.ByID(symID)
	if !ok || !sym.IsTerminal() {
		return
	}
	region := o.gram.RegionFor(sym.Region)
	if region == nil {
		return
	}

	scanRegion := region.ScanRegion(sym.NoPreIgnore)
	if scanRegion != nil {
		tabState.addRegion(scanRegion.Name)
	}

	if !sym.NoPostIgnore && region.IgnoreOnlyRegion != nil {
		toState := o.g.State(shiftTarget(tabTrans))
		if toState != nil {
			toState.addPreRegion(region.IgnoreOnlyRegion.Name)
		}
	}
}
