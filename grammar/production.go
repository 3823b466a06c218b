package grammar

import (
	"crypto/sha256"
	"encoding/binary"
)

// productionID is a structural hash of a production's LHS and RHS
// symbol sequence, used to detect two productions that are identical
// down to their symbol ids even if declared separately. Grounded on
// genProductionID in the teacher's grammar/production.go.
type productionID [32]byte

func genProductionID(lhs ID, rhs []*ProdElem) productionID {
	buf := make([]byte, 4*(1+len(rhs)))
	binary.BigEndian.PutUint32(buf, uint32(lhs))
	for i, e := range rhs {
		binary.BigEndian.PutUint32(buf[4*(i+1):], uint32(e.Sym))
	}
	return productionID(sha256.Sum256(buf))
}

// ProdFSM is the per-production "dot" automaton: one state per dot
// position (0..len(RHS)), with a single outgoing transition per state
// labeled by the next RHS symbol. This is distinct from an LR(0) item
// set: it only ever walks one production, and it carries the region
// and commit-length annotations the PDA-building passes consult when
// they splice this production's states into the shared state graph.
//
// Grounded on ProdElList::walk in the original builder.
type ProdFSM struct {
	Prod   *Production
	States []*ProdFSMState
}

type ProdFSMState struct {
	Dot int

	// Trans is nil in the final state (dot == len(RHS)), where the
	// production is complete and ready to reduce.
	Trans *ProdFSMTrans
}

type ProdFSMTrans struct {
	Sym ID

	// CommitLen is the number of states back up the production's own
	// call stack that become un-backtrackable once this transition
	// is taken. It accumulates: a commit point after element i raises
	// CommitLen on every transition from i+1 onward, matching the
	// original builder's placement of the commit length on the
	// transition out of the state preceding the element that follows
	// the commit point, not on the commit point's own transition.
	CommitLen int

	// Region is the token region active while this transition's
	// element is being matched, or "" if none is declared.
	Region string

	// Priority is this element's shift priority (ProdEl.priorVal),
	// carried straight from the production element with no
	// accumulation: it only ever competes against other actions
	// landing on the very same PDA transition (§4.6).
	Priority int
}

func (s *ProdFSMState) IsFinal() bool {
	return s.Trans == nil
}

// BuildProdFSM walks a production's RHS once, in order, producing its
// dot automaton. It never inspects other productions: the first-set
// solver and the LALR(1) state builder are what later link many
// productions' FSMs into one shared graph.
func BuildProdFSM(p *Production) *ProdFSM {
	n := len(p.RHS)
	states := make([]*ProdFSMState, n+1)
	for i := range states {
		states[i] = &ProdFSMState{Dot: i}
	}

	commitLen := 0
	for i, elem := range p.RHS {
		states[i].Trans = &ProdFSMTrans{
			Sym:       elem.Sym,
			CommitLen: commitLen,
			Region:    elem.Region,
			Priority:  elem.Priority,
		}
		if elem.Commit {
			commitLen++
		}
	}

	return &ProdFSM{Prod: p, States: states}
}

// BuildProdFSMs builds one ProdFSM per production in g, in production
// order.
func BuildProdFSMs(g *Grammar) []*ProdFSM {
	fsms := make([]*ProdFSM, len(g.Prods))
	for i, p := range g.Prods {
		fsms[i] = BuildProdFSM(p)
	}
	return fsms
}
