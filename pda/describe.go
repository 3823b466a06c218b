package pda

import (
	"fmt"
	"io"

	"github.com/dekarrin/rosed"
	"github.com/nihei9/pdabuild/grammar"
)

// Describe writes a human-readable dump of every state and
// transition in g, wrapping long per-state action listings with
// rosed so they stay readable in a terminal. This is developer-facing
// diagnostic output, not the runtime's end-user syntax-error
// reporting (which stays out of scope).
//
// Grounded on writeDescription in the teacher's parsing_table.go,
// adapted to this module's combined action-list transition shape.
func (g *Graph) Describe(w io.Writer, gram *grammar.Grammar) error {
	prodByNum := map[int]*grammar.Production{}
	for _, p := range gram.Prods {
		prodByNum[p.Num] = p
	}

	for _, st := range g.States {
		fmt.Fprintf(w, "state %v\n", st.Num)
		for _, trans := range st.Trans.ordered() {
			symText := symbolText(gram, trans.Sym)
			line := fmt.Sprintf("  on %v: %v", symText, describeActions(trans.Actions, prodByNum))
			fmt.Fprintln(w, rosed.Edit(line).Wrap(100).String())
		}
	}
	return nil
}

func describeActions(actions []*Action, prodByNum map[int]*grammar.Production) string {
	out := ""
	for i, a := range actions {
		if i > 0 {
			out += " | "
		}
		switch a.Kind {
		case ActionShift:
			out += fmt.Sprintf("shift to %v", a.Target)
		case ActionReduce:
			out += fmt.Sprintf("reduce %v", describeProd(prodByNum[a.Target]))
		case ActionShiftReduce:
			out += fmt.Sprintf("shift-reduce %v", describeProd(prodByNum[a.Target]))
		}
	}
	return out
}

func describeProd(p *grammar.Production) string {
	if p == nil {
		return "?"
	}
	return fmt.Sprintf("prod#%v", p.Num)
}

func symbolText(gram *grammar.Grammar, id grammar.ID) string {
	sym, ok := gram.Symbols.ByID(id)
	if !ok {
		return "?"
	}
	return sym.Text
}
