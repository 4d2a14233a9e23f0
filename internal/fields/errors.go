package fields

import (
	"fmt"
	"strings"
)

// FieldProblem is one scalar input that could not be parsed.
type FieldProblem struct {
	Field string
	Kind  Kind
	Text  string
	Err   error
}

// ValueCoercionError aborts a scalar save. It lists every field that failed to parse.
type ValueCoercionError struct {
	Problems []FieldProblem
}

func (e *ValueCoercionError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = fmt.Sprintf("%s: %q is not a valid %s", p.Field, p.Text, p.Kind)
	}
	return "cannot apply values: " + strings.Join(parts, "; ")
}
