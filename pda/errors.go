package pda

import "errors"

var (
	errNoStartState           = errors.New("grammar has no root production")
	errSuccessorKernelMissing = errors.New("internal: successor kernel not found while building the pda graph")
	errActionSetInconsistent  = errors.New("internal: action-set deduplication produced a mismatched entry")

	// errNonTermTransitionNotSingleShift is reported when a
	// non-terminal-keyed transition (a GOTO) does not carry exactly
	// one action, or that action is not a shift/shift-reduce (§4.6,
	// testable property §8.2).
	errNonTermTransitionNotSingleShift = errors.New("a non-terminal transition must carry exactly one shift action")

	// errCommitOnNonTermTransition is reported when a commit point
	// lands on a non-terminal-keyed (GOTO) transition, which the
	// runtime has no representation for (§4.6).
	errCommitOnNonTermTransition = errors.New("a commit point cannot land on a non-terminal transition")

	// errParseStopIncompatible is reported when, after following the
	// root definition from a parse-stop start symbol's start state,
	// some other non-sink state still has a transition on that start
	// symbol's EOF terminal (§4.9, scenario S6).
	errParseStopIncompatible = errors.New("grammar is incompatible with parse_stop")

	// errInternalOrderingGap is reported when the action-ordering pass
	// finishes without stamping a time on every action it was
	// supposed to reach (§4.5's dotSet == dotSet2 coverage assertion).
	errInternalOrderingGap = errors.New("internal: action ordering left a production state unvisited")
)

// BuildError aggregates every error raised within one pass of the PDA
// build pipeline (§7): the pipeline reports every error a pass finds
// before aborting, rather than stopping at the first one.
type BuildError struct {
	Pass   string
	Causes []error
}

func (e *BuildError) Error() string {
	if len(e.Causes) == 1 {
		return e.Pass + ": " + e.Causes[0].Error()
	}
	msg := e.Pass + ":"
	for _, c := range e.Causes {
		msg += "\n  " + c.Error()
	}
	return msg
}

func (e *BuildError) Unwrap() []error {
	return e.Causes
}

func newBuildError(pass string, causes []error) error {
	if len(causes) == 0 {
		return nil
	}
	return &BuildError{Pass: pass, Causes: causes}
}
