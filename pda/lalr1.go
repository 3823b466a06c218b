package pda

import (
	"fmt"

	"github.com/nihei9/pdabuild/grammar"
	"github.com/nihei9/pdabuild/symbol"
)

type stateAndItem struct {
	kernelID kernelID
	itemID   itemID
}

type propagation struct {
	src  *stateAndItem
	dest []*stateAndItem
}

type lalr1Automaton struct {
	*lr0Automaton
}

// genLALR1Automaton computes look-ahead sets over an LR(0) kernel
// automaton by lazy propagation: each item's closure is generated once
// (genLALR1Closure), recording either a concrete look-ahead set or a
// propagation edge to a successor item, and propagateLookAhead then
// runs those edges to a fixed point.
//
// Adapted from the teacher's grammar/lalr1.go. This is the concrete
// implementation of the "assumed provided as a primitive" LALR(1)
// state builder.
func genLALR1Automaton(lr0 *lr0Automaton, prods []*grammar.Production, first *grammar.FirstSet, isTerminal func(symbol.ID) bool) (*lalr1Automaton, error) {
	iniState := lr0.states[lr0.initialState]
	// Each kernel item in the initial state is a distinct wrap
	// production `<root> → S_i <eof:S_i>`; its own look-ahead is just
	// its own paired eof, read straight off its RHS rather than a
	// single shared eof symbol (§2, §6).
	for _, it := range iniState.items {
		eofSym := it.prod.RHS[len(it.prod.RHS)-1].Sym
		it.lookAhead.symbols = map[symbol.ID]struct{}{eofSym: {}}
	}

	byLHS := map[symbol.ID][]*grammar.Production{}
	for _, p := range prods {
		byLHS[p.LHS] = append(byLHS[p.LHS], p)
	}

	var props []*propagation
	for _, state := range lr0.states {
		for _, kItem := range state.items {
			items, err := genLALR1Closure(kItem, byLHS, first, isTerminal)
			if err != nil {
				return nil, err
			}
			kItem.lookAhead.propagation = true

			var propDests []*stateAndItem
			for _, it := range items {
				if it.reducible {
					if !it.prod.IsEmpty() {
						continue
					}
					var reducibleItem *item
					for _, e := range state.emptyProdItems {
						if e.id == it.id {
							reducibleItem = e
							break
						}
					}
					if reducibleItem == nil {
						return nil, fmt.Errorf("reducible item not found: %v", it.id)
					}
					if reducibleItem.lookAhead.symbols == nil {
						reducibleItem.lookAhead.symbols = map[symbol.ID]struct{}{}
					}
					for a := range it.lookAhead.symbols {
						reducibleItem.lookAhead.symbols[a] = struct{}{}
					}
					if it.lookAhead.propagation {
						propDests = append(propDests, &stateAndItem{kernelID: state.id, itemID: it.id})
					}
					continue
				}

				nextKID, ok := state.next[it.dottedSymbol]
				if !ok {
					continue
				}
				nextItem, err := newItem(it.prod, it.dot+1, isTerminal, symbol.IDNil)
				if err != nil {
					return nil, err
				}

				if it.lookAhead.propagation {
					propDests = append(propDests, &stateAndItem{kernelID: nextKID, itemID: nextItem.id})
				} else {
					nextState := lr0.states[nextKID]
					var target *item
					for _, ci := range nextState.items {
						if ci.id == nextItem.id {
							target = ci
							break
						}
					}
					if target == nil {
						return nil, fmt.Errorf("item not found: %v", nextItem.id)
					}
					if target.lookAhead.symbols == nil {
						target.lookAhead.symbols = map[symbol.ID]struct{}{}
					}
					for a := range it.lookAhead.symbols {
						target.lookAhead.symbols[a] = struct{}{}
					}
				}
			}
			if len(propDests) == 0 {
				continue
			}
			props = append(props, &propagation{
				src:  &stateAndItem{kernelID: state.id, itemID: kItem.id},
				dest: propDests,
			})
		}
	}

	if err := propagateLookAhead(lr0, props); err != nil {
		return nil, fmt.Errorf("failed to propagate look-ahead symbols: %w", err)
	}

	return &lalr1Automaton{lr0Automaton: lr0}, nil
}

func genLALR1Closure(src *item, byLHS map[symbol.ID][]*grammar.Production, first *grammar.FirstSet, isTerminal func(symbol.ID) bool) ([]*item, error) {
	var items []*item
	known := map[itemID]map[symbol.ID]struct{}{}
	knownProp := map[itemID]struct{}{}
	unchecked := []*item{src}
	items = append(items, src)

	for len(unchecked) > 0 {
		var next []*item
		for _, it := range unchecked {
			if it.dottedSymbol.IsNil() || isTerminal(it.dottedSymbol) {
				continue
			}

			fsm := grammar.BuildProdFSM(it.prod)
			fst := first.Find(fsm, it.dot+1, isTerminal)
			fstSyms := make([]symbol.ID, 0, len(fst.Symbols))
			for s := range fst.Symbols {
				fstSyms = append(fstSyms, s)
			}

			for _, prod := range byLHS[it.dottedSymbol] {
				lookAheadSyms := append([]symbol.ID{}, fstSyms...)
				if fst.Empty {
					for a := range it.lookAhead.symbols {
						lookAheadSyms = append(lookAheadSyms, a)
					}
				}

				for _, a := range lookAheadSyms {
					ni, err := newItem(prod, 0, isTerminal, symbol.IDNil)
					if err != nil {
						return nil, err
					}
					if seen, ok := known[ni.id]; ok {
						if _, ok := seen[a]; ok {
							continue
						}
					}
					ni.lookAhead.symbols = map[symbol.ID]struct{}{a: {}}
					items = append(items, ni)
					if known[ni.id] == nil {
						known[ni.id] = map[symbol.ID]struct{}{}
					}
					known[ni.id][a] = struct{}{}
					next = append(next, ni)
				}

				if fst.Empty {
					ni, err := newItem(prod, 0, isTerminal, symbol.IDNil)
					if err != nil {
						return nil, err
					}
					if _, ok := knownProp[ni.id]; ok {
						continue
					}
					ni.lookAhead.propagation = true
					items = append(items, ni)
					knownProp[ni.id] = struct{}{}
					next = append(next, ni)
				}
			}
		}
		unchecked = next
	}

	return items, nil
}

func propagateLookAhead(lr0 *lr0Automaton, props []*propagation) error {
	findItem := func(st *lrState, id itemID) *item {
		for _, it := range st.items {
			if it.id == id {
				return it
			}
		}
		for _, it := range st.emptyProdItems {
			if it.id == id {
				return it
			}
		}
		return nil
	}

	for {
		changed := false
		for _, prop := range props {
			srcState, ok := lr0.states[prop.src.kernelID]
			if !ok {
				return fmt.Errorf("source state not found: %v", prop.src.kernelID)
			}
			srcItem := findItem(srcState, prop.src.itemID)
			if srcItem == nil {
				return fmt.Errorf("source item not found")
			}

			for _, dest := range prop.dest {
				destState, ok := lr0.states[dest.kernelID]
				if !ok {
					return fmt.Errorf("destination state not found: %v", dest.kernelID)
				}
				destItem := findItem(destState, dest.itemID)
				if destItem == nil {
					return fmt.Errorf("destination item not found")
				}

				for a := range srcItem.lookAhead.symbols {
					if _, ok := destItem.lookAhead.symbols[a]; ok {
						continue
					}
					if destItem.lookAhead.symbols == nil {
						destItem.lookAhead.symbols = map[symbol.ID]struct{}{}
					}
					destItem.lookAhead.symbols[a] = struct{}{}
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	return nil
}
