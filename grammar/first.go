package grammar

// FirstEntry is the result of a FIRST-set lookup: the terminals that
// can begin a derivation, plus whether the derivation can also be
// empty (so the symbol or sequence after it also contributes).
type FirstEntry struct {
	Symbols map[ID]struct{}
	Empty   bool
}

// FirstSet maps every non-terminal to its FIRST entry. It is computed
// by the classic iterative fixed point: repeat a pass over every
// production until no entry changes.
//
// Grounded on the outer fixed-point shape of the original builder's
// first-set pass (genFirstSet/makeFirstSets), generalized to walk
// ProdFSM transitions instead of a flat RHS slice so that later passes
// which also walk ProdFSMs can share the same traversal order.
type FirstSet struct {
	set map[ID]*FirstEntry
}

func newFirstEntry() *FirstEntry {
	return &FirstEntry{Symbols: map[ID]struct{}{}}
}

func (f *FirstSet) FindBySymbol(sym ID, isTerminal bool) *FirstEntry {
	if isTerminal {
		e := newFirstEntry()
		e.Symbols[sym] = struct{}{}
		return e
	}
	if e, ok := f.set[sym]; ok {
		return e
	}
	return newFirstEntry()
}

// Find returns the FIRST entry of the symbol sequence starting at dot
// in fsm's production.
func (f *FirstSet) Find(fsm *ProdFSM, dot int, isTerminal func(ID) bool) *FirstEntry {
	result := newFirstEntry()
	for i := dot; i < len(fsm.States)-1; i++ {
		elemSym := fsm.States[i].Trans.Sym
		entry := f.FindBySymbol(elemSym, isTerminal(elemSym))
		for s := range entry.Symbols {
			result.Symbols[s] = struct{}{}
		}
		if !entry.Empty {
			return result
		}
	}
	result.Empty = true
	return result
}

// GenFirstSet computes FIRST(A) for every non-terminal A across the
// whole grammar's productions, iterating to a fixed point.
func GenFirstSet(fsms []*ProdFSM, isTerminal func(ID) bool) *FirstSet {
	fs := &FirstSet{set: map[ID]*FirstEntry{}}
	for _, fsm := range fsms {
		if _, ok := fs.set[fsm.Prod.LHS]; !ok {
			fs.set[fsm.Prod.LHS] = newFirstEntry()
		}
	}

	for {
		changed := false
		for _, fsm := range fsms {
			lhsEntry := fs.set[fsm.Prod.LHS]

			if fsm.Prod.IsEmpty() {
				if !lhsEntry.Empty {
					lhsEntry.Empty = true
					changed = true
				}
				continue
			}

			for i := 0; i < len(fsm.States)-1; i++ {
				sym := fsm.States[i].Trans.Sym
				entry := fs.FindBySymbol(sym, isTerminal(sym))
				for s := range entry.Symbols {
					if _, ok := lhsEntry.Symbols[s]; !ok {
						lhsEntry.Symbols[s] = struct{}{}
						changed = true
					}
				}
				if !entry.Empty {
					break
				}
				if i == len(fsm.States)-2 {
					if !lhsEntry.Empty {
						lhsEntry.Empty = true
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	return fs
}

// NonTermFirstSet is FIRST restricted to non-terminal symbols: the set
// of non-terminals that some derivation of A can begin with, ignoring
// terminals entirely. It is a second, distinct fixed point from FIRST
// (which only tracks terminals), and its one consumer is
// IsLeftRecursive; the action-ordering pass does not consult it, and
// pda.Build does not compute it.
//
// Grounded on makeNonTermFirstSets in the original builder; the
// teacher's own first.go has no equivalent, since it builds classic
// LALR tables with no backtracking order to produce.
type NonTermFirstSet struct {
	set map[ID]map[ID]struct{}
}

func (f *NonTermFirstSet) Contains(lhs, cand ID) bool {
	m, ok := f.set[lhs]
	if !ok {
		return false
	}
	_, ok = m[cand]
	return ok
}

func GenNonTermFirstSet(fsms []*ProdFSM, isTerminal func(ID) bool) *NonTermFirstSet {
	nf := &NonTermFirstSet{set: map[ID]map[ID]struct{}{}}
	for _, fsm := range fsms {
		if _, ok := nf.set[fsm.Prod.LHS]; !ok {
			nf.set[fsm.Prod.LHS] = map[ID]struct{}{}
		}
	}

	for {
		changed := false
		for _, fsm := range fsms {
			if fsm.Prod.IsEmpty() {
				continue
			}
			first := fsm.States[0].Trans.Sym
			if isTerminal(first) {
				continue
			}
			lhsSet := nf.set[fsm.Prod.LHS]
			if _, ok := lhsSet[first]; !ok {
				lhsSet[first] = struct{}{}
				changed = true
			}
			for cand := range nf.set[first] {
				if _, ok := lhsSet[cand]; !ok {
					lhsSet[cand] = struct{}{}
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	return nf
}

// IsLeftRecursive reports whether lhs can derive a sentential form
// beginning with itself, directly or through intermediate
// non-terminals.
func (f *NonTermFirstSet) IsLeftRecursive(lhs ID) bool {
	return f.Contains(lhs, lhs)
}
