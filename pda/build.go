package pda

import (
	"fmt"

	"github.com/nihei9/pdabuild/grammar"
	"github.com/nihei9/pdabuild/symbol"
)

// Options configures one Build call. There are no process-wide
// mutable settings: every option a pass needs to consult is explicit
// here (§5's single-Compiler-value ownership model).
type Options struct {
	// VerifyParseStop, when true, runs the parse-stop consistency
	// check (§4.9, grounded per start symbol on that symbol's own
	// ParseStop flag) once actions have been sorted and precedence
	// resolved.
	VerifyParseStop bool

	// LogBranchPoints, when true, has sortActions record one line per
	// transition left with more than one action after sorting, for
	// later diagnostics (§4.6).
	LogBranchPoints bool

	// ReduceFirst lists the non-terminals the action-ordering pass
	// should order for shortest-match (§4.5): Build sets each one's
	// Symbol.ReduceFirst flag before ordering runs, so the flag a
	// caller declares here ends up consulted exactly where the
	// original builder consults langEl->reduceFirst directly.
	ReduceFirst []symbol.ID
}

// Result is everything a Build call produces: the canonical state
// graph, for callers that want to inspect or describe it, and the
// compressed tables a runtime actually consumes.
type Result struct {
	Graph  *Graph
	Tables *Tables
}

// Build runs the full pipeline (§2) over a grammar that has already
// been through grammar.Builder.Build, grammar.WrapRoot, and
// grammar.Grammar.ResolvePrecedence: LALR(1) state construction,
// graph translation, action ordering with region attachment, sort,
// precedence resolution, optional parse-stop verification, advance-
// reductions, action-set deduplication, and table compression.
//
// Each pass's errors are accumulated and reported together; the
// pipeline stops before the next pass once a pass reports any error,
// matching §7's accumulate-then-abort-before-next-pass policy.
func Build(g *grammar.Grammar, opts Options) (*Result, error) {
	if len(g.StartSymbols) == 0 {
		return nil, errNoStartState
	}
	if g.WrapSym.IsNil() {
		return nil, fmt.Errorf("%w: grammar has not been through WrapRoot", errNoStartState)
	}

	for _, id := range opts.ReduceFirst {
		sym, ok := g.Symbols.ByID(id)
		if !ok {
			return nil, fmt.Errorf("reduceFirst: undefined symbol %v", id)
		}
		sym.ReduceFirst = true
	}

	if err := validateCommitPoints(g); err != nil {
		return nil, err
	}

	isTerminal := func(id symbol.ID) bool {
		sym, ok := g.Symbols.ByID(id)
		return ok && sym.IsTerminal()
	}

	fsms := grammar.BuildProdFSMs(g)
	first := grammar.GenFirstSet(fsms, isTerminal)

	lr0, err := genLR0Automaton(g.Prods, g.WrapSym, isTerminal)
	if err != nil {
		return nil, fmt.Errorf("lr0: %w", err)
	}

	lalr1, err := genLALR1Automaton(lr0, g.Prods, first, isTerminal)
	if err != nil {
		return nil, fmt.Errorf("lalr1: %w", err)
	}

	graph, err := genGraph(lalr1, g, fsms)
	if err != nil {
		return nil, fmt.Errorf("graph: %w", err)
	}

	// Action ordering (time-stamping + inline region attachment) runs
	// first, since sorting, precedence resolution, parse-stop
	// verification and advance-reductions all rely on the times and
	// regions it produces (§2 steps 7-10).
	if err := orderActions(graph, g, fsms, first, isTerminal, lalr1); err != nil {
		return nil, err
	}

	if err := sortActions(graph, g, opts.LogBranchPoints); err != nil {
		return nil, err
	}

	if err := resolvePrecedence(graph, g); err != nil {
		return nil, err
	}

	if opts.VerifyParseStop {
		if err := verifyParseStop(graph, g); err != nil {
			return nil, err
		}
	}

	computeAdvanceReductions(graph)

	dedupActionSets(graph)

	tables, err := buildTables(graph)
	if err != nil {
		return nil, fmt.Errorf("tables: %w", err)
	}

	return &Result{Graph: graph, Tables: tables}, nil
}
