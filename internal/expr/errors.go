package expr

import "errors"

var (
	// ErrCompareDifferingTypes is returned when a comparison node's two
	// operands evaluate to different attribute types.
	ErrCompareDifferingTypes = errors.New("expr: cannot compare values of differing types")

	// ErrExprNotBoolean is returned by EvalPredicate when the root
	// expression does not evaluate to a boolean, and by And/Or/Not when
	// one of their operands does not.
	ErrExprNotBoolean = errors.New("expr: expression does not evaluate to a boolean")

	// ErrUnknownAttr is returned when an attribute reference names a
	// column not present in the schema being evaluated against.
	ErrUnknownAttr = errors.New("expr: unknown attribute")
)
