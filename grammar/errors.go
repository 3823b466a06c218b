package grammar

import "errors"

var (
	errUndefinedSymbol     = errors.New("undefined symbol")
	errDuplicateProduction = errors.New("duplicate production")
	errNoProduction        = errors.New("a grammar needs at least one production")
	errNoRootProduction    = errors.New("a grammar needs at least one declared start symbol")
	errEmptyRegionName     = errors.New("a token region must have a non-empty name")
)

// BuildError aggregates every error raised within one pass of the
// build pipeline. Passes accumulate sibling errors so a caller sees
// every problem in a pass at once, but the pipeline stops before
// starting the next pass once a pass produced any error.
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
