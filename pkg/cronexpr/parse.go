package cronexpr

import (
	"fmt"
	"strings"
)

// InvalidExpressionError reports why an expression cannot be stored or
// previewed. Fields lists the positions that failed ValidateField.
type InvalidExpressionError struct {
	Expression string
	Fields     []FieldName
	Reason     string
}

func (e *InvalidExpressionError) Error() string {
	if len(e.Fields) > 0 {
		names := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			names[i] = string(f)
		}
		return fmt.Sprintf("invalid cron expression %q: invalid %s", e.Expression, strings.Join(names, ", "))
	}
	return fmt.Sprintf("invalid cron expression %q: %s", e.Expression, e.Reason)
}

// Parse is the strict counterpart of Decompose for callers that persist or
// evaluate expressions: it fails on fewer than six tokens, on more than
// seven, and on any field rejected by ValidateField.
func Parse(expr string) (Fields, error) {
	n := len(strings.Fields(expr))
	if n < 6 || n > 7 {
		return Fields{}, &InvalidExpressionError{
			Expression: expr,
			Reason:     fmt.Sprintf("expected 6 or 7 fields, got %d", n),
		}
	}
	f, _ := Decompose(strings.Join(strings.Fields(expr), " "))
	if bad := f.Invalid(); len(bad) > 0 {
		return Fields{}, &InvalidExpressionError{Expression: expr, Fields: bad}
	}
	return f, nil
}

// Canonical returns Compose(Parse(expr)).
func Canonical(expr string) (string, error) {
	f, err := Parse(expr)
	if err != nil {
		return "", err
	}
	return Compose(f), nil
}
