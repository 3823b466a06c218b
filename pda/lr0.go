package pda

import (
	"fmt"
	"sort"

	"github.com/nihei9/pdabuild/grammar"
	"github.com/nihei9/pdabuild/symbol"
)

type lr0Automaton struct {
	initialState kernelID
	states       map[kernelID]*lrState
}

// genLR0Automaton is the assumed-provided LALR(1) primitive's first
// half: it builds the LR(0) kernel automaton by a BFS worklist over
// kernels, closing each one and splitting its closure by dotted
// symbol into the kernels of its successor states.
//
// Adapted from the teacher's genLR0Automaton/genStateAndNeighbourKernels/
// genLR0Closure/genNeighbourKernels (grammar/lr0.go), generalized from a
// flat RHS walk to grammar.Production's RHS directly (ProdElem carries
// region/commit annotations the closure itself does not need to
// inspect).
func genLR0Automaton(prods []*grammar.Production, rootSym symbol.ID, isTerminal func(symbol.ID) bool) (*lr0Automaton, error) {
	byLHS := map[symbol.ID][]*grammar.Production{}
	for _, p := range prods {
		byLHS[p.LHS] = append(byLHS[p.LHS], p)
	}

	automaton := &lr0Automaton{states: map[kernelID]*lrState{}}

	current := stateNumInitial
	known := map[kernelID]struct{}{}
	var unchecked []*kernel

	var rootProds []*grammar.Production
	for _, p := range prods {
		if p.LHS == rootSym {
			rootProds = append(rootProds, p)
		}
	}
	if len(rootProds) == 0 {
		return nil, fmt.Errorf("no production has the root symbol as its LHS")
	}
	// One initial item per wrap production, not just the first: a
	// grammar with several start symbols wraps each in its own
	// production under the same LHS, and every one of them must be
	// live in the initial kernel so parsing can begin from any of them
	// (§2, §6).
	iniItems := make([]*item, 0, len(rootProds))
	for _, p := range rootProds {
		it, err := newItem(p, 0, isTerminal, rootSym)
		if err != nil {
			return nil, err
		}
		iniItems = append(iniItems, it)
	}
	iniKernel, err := newKernel(iniItems)
	if err != nil {
		return nil, err
	}
	automaton.initialState = iniKernel.id
	known[iniKernel.id] = struct{}{}
	unchecked = append(unchecked, iniKernel)

	for len(unchecked) > 0 {
		var nextUnchecked []*kernel
		for _, k := range unchecked {
			state, neighbours, err := genStateAndNeighbourKernels(k, byLHS, rootSym, isTerminal)
			if err != nil {
				return nil, err
			}
			state.num = current
			current = current.next()
			automaton.states[state.id] = state

			for _, nk := range neighbours {
				if _, ok := known[nk.id]; ok {
					continue
				}
				known[nk.id] = struct{}{}
				nextUnchecked = append(nextUnchecked, nk)
			}
		}
		unchecked = nextUnchecked
	}

	return automaton, nil
}

func genStateAndNeighbourKernels(k *kernel, byLHS map[symbol.ID][]*grammar.Production, rootSym symbol.ID, isTerminal func(symbol.ID) bool) (*lrState, []*kernel, error) {
	items, err := genLR0Closure(k, byLHS, rootSym, isTerminal)
	if err != nil {
		return nil, nil, err
	}
	neighbours, next, err := genNeighbourKernels(items, rootSym, isTerminal)
	if err != nil {
		return nil, nil, err
	}

	reducible := map[int]struct{}{}
	var emptyProdItems []*item
	for _, it := range items {
		if !it.reducible {
			continue
		}
		reducible[it.prod.Num] = struct{}{}
		if it.prod.IsEmpty() {
			emptyProdItems = append(emptyProdItems, it)
		}
	}

	return &lrState{
		kernel:         k,
		next:           next,
		reducible:      reducible,
		emptyProdItems: emptyProdItems,
	}, neighbours, nil
}

func genLR0Closure(k *kernel, byLHS map[symbol.ID][]*grammar.Production, rootSym symbol.ID, isTerminal func(symbol.ID) bool) ([]*item, error) {
	var items []*item
	known := map[itemID]struct{}{}
	unchecked := append([]*item{}, k.items...)
	items = append(items, k.items...)

	for len(unchecked) > 0 {
		var next []*item
		for _, it := range unchecked {
			if it.dottedSymbol.IsNil() || isTerminal(it.dottedSymbol) {
				continue
			}
			for _, prod := range byLHS[it.dottedSymbol] {
				ni, err := newItem(prod, 0, isTerminal, rootSym)
				if err != nil {
					return nil, err
				}
				if _, ok := known[ni.id]; ok {
					continue
				}
				items = append(items, ni)
				known[ni.id] = struct{}{}
				next = append(next, ni)
			}
		}
		unchecked = next
	}

	return items, nil
}

func genNeighbourKernels(items []*item, rootSym symbol.ID, isTerminal func(symbol.ID) bool) ([]*kernel, map[symbol.ID]kernelID, error) {
	byDotted := map[symbol.ID][]*item{}
	for _, it := range items {
		if it.dottedSymbol.IsNil() {
			continue
		}
		ni, err := newItem(it.prod, it.dot+1, isTerminal, rootSym)
		if err != nil {
			return nil, nil, err
		}
		byDotted[it.dottedSymbol] = append(byDotted[it.dottedSymbol], ni)
	}

	syms := make([]symbol.ID, 0, len(byDotted))
	for s := range byDotted {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

	var kernels []*kernel
	next := map[symbol.ID]kernelID{}
	for _, s := range syms {
		k, err := newKernel(byDotted[s])
		if err != nil {
			return nil, nil, err
		}
		kernels = append(kernels, k)
		next[s] = k.id
	}

	return kernels, next, nil
}
