// Package grammar models a resolved context-free grammar: its symbols,
// productions, token regions and precedence declarations. It does not
// parse grammar source text (that surface is out of scope); callers
// build a Grammar value directly through Builder.
package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/pdabuild/symbol"
)

// ProdElem is one element of a production's right-hand side: a symbol
// reference plus the annotations that travel with its position rather
// than with the symbol itself.
type ProdElem struct {
	Sym ID

	// Commit marks a commit point immediately following this
	// element: once the parser advances past it on this production,
	// backtracking may no longer undo the choice of this production.
	Commit bool

	// Region, when non-empty, is the token region active while this
	// element is matched. It applies to this element only: BuildProdFSM
	// copies it onto this element's own transition and does not carry
	// it forward to later elements.
	Region string

	// Priority is this element's shift priority (ProdEl.priorVal):
	// when several actions land on the same transition, a shift with
	// a higher priority sorts before one with a lower priority (§4.6).
	Priority int
}

// ID is a symbol id, re-exported for convenience so callers of this
// package rarely need to import symbol directly.
type ID = symbol.ID

// Production is one grammar rule, LHS → RHS.
type Production struct {
	Num  int
	LHS  ID
	RHS  []*ProdElem
	Prec      symbol.PredType
	PrecValue int
	PrecSym   ID // the symbol whose declared precedence governs this production
}

func (p *Production) IsEmpty() bool {
	return len(p.RHS) == 0
}

func (p *Production) String() string {
	return fmt.Sprintf("prod#%v", p.Num)
}

// Region is a token-scoping region. A terminal belongs to the region
// named by its symbol.Symbol.Region; TokenOnlyRegion and IgnoreOnlyRegion are
// companion regions (not terminal lists) consulted by region
// attachment (§4.8): TokenOnlyRegion restricts which terminals a
// no-pre-ignore terminal may be predicted against, IgnoreOnlyRegion is
// the region scanned for an ignore-only lookahead.
type Region struct {
	Name             string
	TokenOnlyRegion  *Region
	IgnoreOnlyRegion *Region
}

// Grammar is a fully resolved grammar: symbols carry their final ids,
// every production references them, and every declared region is
// indexed by name.
//
// StartSymbols holds every symbol the grammar declared as a possible
// start symbol, in declaration order, before WrapRoot runs. WrapSym is
// the single shared `<root>` non-terminal WrapRoot creates to wrap all
// of them (IDNil until WrapRoot has run).
type Grammar struct {
	Symbols      *symbol.Table
	Prods        []*Production
	Regions      map[string]*Region
	StartSymbols []ID
	WrapSym      ID
}

// ResolvePrecedence assigns a governing precedence symbol to every
// production that does not already declare one explicitly (Production.PrecSym
// set before this runs): the rightmost terminal in its RHS, the
// convention the original builder also uses when a production has no
// explicit %prec override.
func (g *Grammar) ResolvePrecedence() {
	for _, p := range g.Prods {
		if !p.PrecSym.IsNil() {
			continue
		}
		for i := len(p.RHS) - 1; i >= 0; i-- {
			sym, ok := g.Symbols.ByID(p.RHS[i].Sym)
			if !ok || !sym.IsTerminal() {
				continue
			}
			p.PrecSym = sym.ID
			p.Prec = sym.PredType
			p.PrecValue = sym.PredValue
			break
		}
	}
}

func (g *Grammar) ProdsByLHS(lhs ID) []*Production {
	var out []*Production
	for _, p := range g.Prods {
		if p.LHS == lhs {
			out = append(out, p)
		}
	}
	return out
}

// Builder assembles a Grammar from symbol declarations and production
// rules. It does not parse source text; callers pass already-resolved
// names and element lists.
type Builder struct {
	syms      *symbol.Table
	prods     []*Production
	regions   map[string]*Region
	startNames []string
	errs      []error
}

func NewBuilder() *Builder {
	return &Builder{
		syms:    symbol.NewTable(),
		regions: map[string]*Region{},
	}
}

// Terminal and NonTerminal declare a symbol and assign its id right
// away, so the returned id (and the ids Elem and AddProduction record)
// is final. Ids follow declaration order: a terminal declared after a
// non-terminal gets a higher id than that non-terminal.
func (b *Builder) Terminal(name string) ID {
	sym := b.syms.Declare(name, symbol.KindTerminal)
	sym.IsUserTerm = true
	b.syms.AssignIDs("<no-token>", "error")
	return sym.ID
}

func (b *Builder) NonTerminal(name string) ID {
	sym := b.syms.Declare(name, symbol.KindNonTerminal)
	b.syms.AssignIDs("<no-token>", "error")
	return sym.ID
}

// SetRoot declares name as a possible start symbol. It may be called
// more than once: each call adds another start symbol, matching
// wrapNonTerminals in the original builder, which wraps one `_root`
// production per start-capable symbol rather than a single one.
func (b *Builder) SetRoot(name string) {
	b.startNames = append(b.startNames, name)
}

// AddProduction registers lhs → rhs. rhs elements reference symbol
// names declared earlier via Terminal/NonTerminal.
func (b *Builder) AddProduction(lhs string, rhs ...*ProdElem) {
	lhsSym, ok := b.syms.Lookup(lhs)
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("%w: %v", errUndefinedSymbol, lhs))
		return
	}
	b.prods = append(b.prods, &Production{
		LHS: lhsSym.ID,
		RHS: rhs,
	})
}

func (b *Builder) AddRegion(r *Region) {
	if r.Name == "" {
		b.errs = append(b.errs, errEmptyRegionName)
		return
	}
	b.regions[r.Name] = r
}

// Elem constructs a plain production element referencing a
// previously-declared symbol name.
func (b *Builder) Elem(name string) *ProdElem {
	sym, ok := b.syms.Lookup(name)
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("%w: %v", errUndefinedSymbol, name))
		return &ProdElem{}
	}
	return &ProdElem{Sym: sym.ID}
}

// Build assigns ids to any symbol still without one (§4.1), numbers productions grouped by LHS
// symbol id (declaration order within one LHS), and validates the
// resulting grammar. It accumulates every
// validation error from this pass before returning, per the
// accumulate-then-abort-before-next-pass error policy.
func (b *Builder) Build() (*Grammar, error) {
	var errs []error
	errs = append(errs, b.errs...)

	if len(b.prods) == 0 {
		errs = append(errs, errNoProduction)
	}

	if err := b.syms.AssignIDs("<no-token>", "error"); err != nil {
		errs = append(errs, err)
	}

	for i, p := range b.prods {
		p.Num = i
	}
	sort.SliceStable(b.prods, func(i, j int) bool {
		return b.prods[i].LHS < b.prods[j].LHS
	})
	for i, p := range b.prods {
		p.Num = i
	}

	seen := map[productionID]bool{}
	for _, p := range b.prods {
		id := genProductionID(p.LHS, p.RHS)
		if seen[id] {
			errs = append(errs, fmt.Errorf("%w: production %v", errDuplicateProduction, p.Num))
			continue
		}
		seen[id] = true
	}

	var startSyms []*symbol.Symbol
	if len(b.startNames) == 0 {
		errs = append(errs, errNoRootProduction)
	}
	for _, name := range b.startNames {
		sym, ok := b.syms.Lookup(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %v", errUndefinedSymbol, name))
			continue
		}
		startSyms = append(startSyms, sym)
	}

	if err := newBuildError("grammar", errs); err != nil {
		return nil, err
	}

	startIDs := make([]ID, 0, len(startSyms))
	for _, sym := range startSyms {
		sym.RootDef = true
		startIDs = append(startIDs, sym.ID)
	}

	return &Grammar{
		Symbols:      b.syms,
		Prods:        b.prods,
		Regions:      b.regions,
		StartSymbols: startIDs,
	}, nil
}
