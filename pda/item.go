package pda

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/nihei9/pdabuild/grammar"
	"github.com/nihei9/pdabuild/symbol"
)

// itemID identifies an LR item by hashing its production and dot
// position, the same identity scheme the teacher automaton uses for
// its items and kernels.
type itemID [32]byte

func (id itemID) num() uint32 {
	return binary.LittleEndian.Uint32(id[:])
}

type lookAhead struct {
	symbols map[symbol.ID]struct{}
	// propagation is true when an item propagates look-ahead symbols
	// to other items rather than owning its own set directly.
	propagation bool
}

// item is one (production, dot) pair together with its look-ahead set.
//
//	E → E + T
//
//	Dot | Dotted Symbol | Item
//	----+---------------+------------
//	0   | E             | E →・E + T
//	1   | +             | E → E・+ T
//	2   | T             | E → E +・T
//	3   | Nil           | E → E + T・
type item struct {
	id   itemID
	prod *grammar.Production

	dot          int
	dottedSymbol symbol.ID

	// initial is true when the LHS is the grammar's (wrapped) root
	// symbol and dot is 0: <root> →・Root <eof>.
	initial bool

	reducible bool
	kernel    bool

	lookAhead lookAhead
}

func newItem(prod *grammar.Production, dot int, isTerminal func(symbol.ID) bool, rootSym symbol.ID) (*item, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > len(prod.RHS) {
		return nil, fmt.Errorf("dot must be between 0 and %v", len(prod.RHS))
	}

	var id itemID
	{
		b := make([]byte, 0, 16)
		bNum := make([]byte, 8)
		binary.LittleEndian.PutUint64(bNum, uint64(prod.Num))
		b = append(b, bNum...)
		bDot := make([]byte, 8)
		binary.LittleEndian.PutUint64(bDot, uint64(dot))
		b = append(b, bDot...)
		id = sha256.Sum256(b)
	}

	dotted := symbol.IDNil
	if dot < len(prod.RHS) {
		dotted = prod.RHS[dot].Sym
	}

	initial := prod.LHS == rootSym && dot == 0

	return &item{
		id:           id,
		prod:         prod,
		dot:          dot,
		dottedSymbol: dotted,
		initial:      initial,
		reducible:    dot == len(prod.RHS),
		kernel:       initial || dot > 0,
	}, nil
}

type kernelID [32]byte

type kernel struct {
	id    kernelID
	items []*item
}

func newKernel(items []*item) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel needs at least one item")
	}

	m := map[itemID]*item{}
	for _, it := range items {
		if !it.kernel {
			return nil, fmt.Errorf("not a kernel item: %v", it.id)
		}
		m[it.id] = it
	}
	sorted := make([]*item, 0, len(m))
	for _, it := range m {
		sorted = append(sorted, it)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].id.num() < sorted[j].id.num()
	})

	b := make([]byte, 0, 32*len(sorted))
	for _, it := range sorted {
		b = append(b, it.id[:]...)
	}

	return &kernel{id: sha256.Sum256(b), items: sorted}, nil
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) next() stateNum { return n + 1 }
func (n stateNum) Int() int       { return int(n) }

// lrState is one LALR(1) automaton state: a kernel closed under
// itself, with its outgoing transitions and reducible productions.
type lrState struct {
	*kernel
	num            stateNum
	next           map[symbol.ID]kernelID
	reducible      map[int]struct{} // production Num -> present
	emptyProdItems []*item
}
