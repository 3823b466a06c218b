// Package symbol assigns dense integer ids to the terminal and
// non-terminal symbols of a grammar and carries the per-symbol flags the
// later PDA-building passes need.
package symbol

import (
	"fmt"
)

// ID is a dense symbol id; real symbols are numbered from 1. IDNil
// never identifies a real symbol; it is the zero value so an unset ID
// field is detectable.
type ID uint32

const IDNil = ID(0)

func (id ID) Int() int {
	return int(id)
}

func (id ID) IsNil() bool {
	return id == IDNil
}

// PredType is the associativity/precedence discipline attached to a
// symbol via a %left/%right/%precedence-style declaration.
type PredType int

const (
	PredNone PredType = iota
	PredLeft
	PredRight
	PredNonassoc
)

func (t PredType) String() string {
	switch t {
	case PredLeft:
		return "left"
	case PredRight:
		return "right"
	case PredNonassoc:
		return "nonassoc"
	default:
		return "none"
	}
}

// Symbol carries every flag the build pipeline consults about one
// terminal or non-terminal. A kind other than KindTerminal is a
// non-terminal.
type Symbol struct {
	ID   ID
	Text string
	Kind Kind

	IsUserTerm  bool // declared directly in the grammar, as opposed to synthesized
	IsEOF       bool
	IsCI        bool // case-insensitive literal terminal
	IsIgnore    bool // a terminal in the default ignore set
	IsLiteral   bool
	IsRepeat    bool // synthesized for a `elem+`/`elem*` repetition
	IsList      bool // synthesized list wrapper non-terminal
	IsOpt       bool // synthesized for a `elem?` optional
	ParseStop   bool // parsing halts cleanly on reduction of this non-terminal
	ReduceFirst bool // order this non-terminal's definitions for shortest-match (§4.5)
	NoPreIgnore bool
	NoPostIgnore bool

	PredType  PredType
	PredValue int // precedence level; higher binds tighter

	TermDup ID // a terminal this one is a duplicate/alias of, or IDNil

	Region  string // token region this terminal is valid in, "" for unscoped
	DefList []ID   // not filled in by this module; passes find a non-terminal's productions with grammar.Grammar.ProdsByLHS

	EOFSym     ID // the EOF terminal paired with this start/root symbol
	RootDef    bool
	StartState bool
}

type Kind int

const (
	KindNonTerminal Kind = iota
	KindTerminal
)

func (k Kind) String() string {
	if k == KindTerminal {
		return "terminal"
	}
	return "non-terminal"
}

func (s *Symbol) IsTerminal() bool {
	return s.Kind == KindTerminal
}

func (s *Symbol) IsNonTerminal() bool {
	return s.Kind == KindNonTerminal
}

func (s *Symbol) String() string {
	prefix := "n"
	if s.IsTerminal() {
		prefix = "t"
	}
	if s.StartState {
		prefix = "s"
	}
	if s.IsEOF {
		prefix = "e"
	}
	return fmt.Sprintf("%v%v:%v", prefix, s.ID.Int(), s.Text)
}

// Table owns every Symbol known to a grammar and the assignment of
// dense, ordered ids to them. The assignment order follows four
// partitions, matching the original builder: user terminals, EOF
// terminals, the reserved no-token symbol, the reserved error symbol,
// then everything else (non-terminals and synthesized terminals).
type Table struct {
	text2sym map[string]*Symbol
	all      []*Symbol

	firstNonTermID ID
	assigned       bool
}

func NewTable() *Table {
	return &Table{
		text2sym: map[string]*Symbol{},
	}
}

// Declare registers a symbol by name, returning the existing one if
// already declared. IDs are not assigned until AssignIDs runs.
func (t *Table) Declare(text string, kind Kind) *Symbol {
	if sym, ok := t.text2sym[text]; ok {
		return sym
	}
	sym := &Symbol{
		Text: text,
		Kind: kind,
	}
	t.text2sym[text] = sym
	t.all = append(t.all, sym)
	return sym
}

func (t *Table) Lookup(text string) (*Symbol, bool) {
	sym, ok := t.text2sym[text]
	return sym, ok
}

// AssignIDs assigns dense ids to every declared symbol, in the
// partition order described on Table. It is grounded on the id
// assignment performed once per compile by the original builder:
// user terminals first, then EOF terminals, then the no-token and
// error reserved symbols, then the remainder (non-terminals and any
// terminal synthesized after user declarations, e.g. literals).
//
// AssignIDs is safe to call again after new symbols are declared (for
// example by root-wrapping, which declares the synthesized root and
// EOF symbols only after the grammar's own symbols already have ids):
// already-assigned symbols keep their ids, and only newly-declared
// ones are placed into their partition, after every existing id.
func (t *Table) AssignIDs(noTokenName, errorName string) error {
	var userTerms, eofTerms, rest []*Symbol
	var noToken, errSym *Symbol
	next := ID(1) // 0 is reserved for IDNil

	for _, sym := range t.all {
		if !sym.ID.IsNil() {
			if sym.ID >= next {
				next = sym.ID + 1
			}
			continue
		}
		switch {
		case sym.Text == noTokenName:
			noToken = sym
		case sym.Text == errorName:
			errSym = sym
		case sym.IsTerminal() && sym.IsEOF:
			eofTerms = append(eofTerms, sym)
		case sym.IsTerminal() && sym.IsUserTerm:
			userTerms = append(userTerms, sym)
		default:
			rest = append(rest, sym)
		}
	}

	// Each partition keeps declaration order (the order Declare was
	// called in), matching makeLangElIds in the original builder: ids
	// are handed out in a single pass over the symbols as declared, not
	// sorted into any canonical order first.
	assign := func(syms []*Symbol) {
		for _, sym := range syms {
			sym.ID = next
			next++
		}
	}

	assign(userTerms)
	assign(eofTerms)
	if noToken != nil {
		noToken.ID = next
		next++
	}
	if errSym != nil {
		errSym.ID = next
		next++
	}
	if t.firstNonTermID.IsNil() && len(rest) > 0 {
		t.firstNonTermID = next
	}
	assign(rest)

	t.assigned = true
	return nil
}

func (t *Table) FirstNonTermID() ID {
	return t.firstNonTermID
}

func (t *Table) All() []*Symbol {
	return t.all
}

func (t *Table) ByID(id ID) (*Symbol, bool) {
	for _, sym := range t.all {
		if sym.ID == id {
			return sym, true
		}
	}
	return nil, false
}

// CheckBuiltinIDs asserts that the given names were assigned the
// exact ids a runtime expects, e.g. a fixed ABI for built-in types
// like _ptr, _bool, _int, _str, _stream, _ignore. This mirrors the
// assertions the original builder makes right after id assignment;
// callers with no runtime ABI to satisfy can skip calling it.
func (t *Table) CheckBuiltinIDs(want map[string]ID) error {
	for name, wantID := range want {
		sym, ok := t.text2sym[name]
		if !ok {
			return fmt.Errorf("required builtin symbol %q was not declared", name)
		}
		if sym.ID != wantID {
			return fmt.Errorf("required builtin symbol %q has id %v, want %v", name, sym.ID, wantID)
		}
	}
	return nil
}
