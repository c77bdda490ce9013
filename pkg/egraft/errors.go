package egraft

import (
	"sort"
	"strings"

	"github.com/starkandwayne/goutils/ansi"
)

// ParseError reports a malformed s-expression or an unrecognized
// operator token — surfaced to the caller, never reaches the e-graph.
// Grounded on pkg/graft/expr_errors.go's typed expression-error style.
type ParseError struct {
	Pos     int
	Line    int
	Col     int
	Message string
}

func (e *ParseError) Error() string {
	return ansi.Sprintf("@R{parse error} @r{at %d:%d}: %s", e.Line, e.Col, e.Message)
}

// ArityError reports an ENode passed to EGraph.Add with the wrong child
// count for its Op — a fatal programming error per spec §7. Pattern
// construction does not check arity.
type ArityError struct {
	Op   Op
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return ansi.Sprintf("@R{arity mismatch for} @r{%s}: want %d children, got %d", e.Op, e.Want, e.Got)
}

// MultiError batches several parse diagnostics into one error, e.g. when
// reading a file of several s-expressions. Grounded on
// pkg/graft/errors.go's MultiError (ansi-formatted, sorted for stable
// output).
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		lines = append(lines, " - "+err.Error())
	}
	sort.Strings(lines)
	return ansi.Sprintf("@r{%d} error(s) detected:\n%s\n", len(e.Errors), strings.Join(lines, "\n"))
}

func (e *MultiError) Append(err error) {
	if err == nil {
		return
	}
	if m, ok := err.(*MultiError); ok {
		e.Errors = append(e.Errors, m.Errors...)
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *MultiError) Count() int { return len(e.Errors) }

// Err returns e as an error, or nil if it carries no errors — the usual
// "accumulate then check at the end" idiom.
func (e *MultiError) Err() error {
	if e.Count() == 0 {
		return nil
	}
	return e
}

// ExtractError reports that a class has no finite-cost representative
// under the supplied CostFn. It is returned by Extractor.Extract for the
// requested class; a Runner's run never produces it.
type ExtractError struct {
	Class Id
}

func (e *ExtractError) Error() string {
	return ansi.Sprintf("@R{no finite-cost representative for class} @r{%s}", e.Class)
}
