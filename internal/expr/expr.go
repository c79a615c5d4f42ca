// Package expr implements the boolean predicate expression tree used
// to drive table scans: comparisons and logical connectives over
// attribute references and constants.
package expr

import (
	"fmt"

	"github.com/relcore/relcore/internal/record"
)

// CompareOp names a comparison node's operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

// Node is one expression tree node. Eval evaluates it against a record
// under schema s and returns the resulting typed value.
type Node interface {
	Eval(s *record.Schema, rec *record.Record) (record.Value, error)
}

// Const is a literal value node.
type Const struct {
	Value record.Value
}

func (c Const) Eval(_ *record.Schema, _ *record.Record) (record.Value, error) {
	return c.Value, nil
}

// AttrRef reads an attribute out of the record being evaluated.
type AttrRef struct {
	Index int
}

func (a AttrRef) Eval(s *record.Schema, rec *record.Record) (record.Value, error) {
	if a.Index < 0 || a.Index >= len(s.Attrs) {
		return record.Value{}, fmt.Errorf("%w: index %d", ErrUnknownAttr, a.Index)
	}
	return s.GetAttr(rec, a.Index)
}

// Compare evaluates Left and Right and applies Op. Both sides must
// evaluate to the same attribute type.
type Compare struct {
	Op    CompareOp
	Left  Node
	Right Node
}

func (c Compare) Eval(s *record.Schema, rec *record.Record) (record.Value, error) {
	lv, err := c.Left.Eval(s, rec)
	if err != nil {
		return record.Value{}, err
	}
	rv, err := c.Right.Eval(s, rec)
	if err != nil {
		return record.Value{}, err
	}
	if lv.Type != rv.Type {
		return record.Value{}, ErrCompareDifferingTypes
	}

	var result bool
	switch lv.Type {
	case record.TypeInt:
		result = compareOrdered(c.Op, lv.Int, rv.Int)
	case record.TypeFloat:
		result = compareOrdered(c.Op, lv.Float, rv.Float)
	case record.TypeString:
		result = compareOrdered(c.Op, lv.String, rv.String)
	case record.TypeBool:
		result = compareBool(c.Op, lv.Bool, rv.Bool)
	default:
		return record.Value{}, fmt.Errorf("expr: unsupported type in comparison: %v", lv.Type)
	}

	return record.BoolValue(result), nil
}

func compareOrdered[T int32 | float32 | string](op CompareOp, a, b T) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNeq:
		return a != b
	case OpLt:
		return a < b
	case OpLte:
		return a <= b
	case OpGt:
		return a > b
	case OpGte:
		return a >= b
	default:
		return false
	}
}

func compareBool(op CompareOp, a, b bool) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNeq:
		return a != b
	default:
		return false
	}
}

// And is a conjunction of operands, each of which must evaluate to a
// boolean. Evaluation short-circuits on the first false operand.
type And struct {
	Operands []Node
}

func (n And) Eval(s *record.Schema, rec *record.Record) (record.Value, error) {
	for _, op := range n.Operands {
		v, err := evalBool(op, s, rec)
		if err != nil {
			return record.Value{}, err
		}
		if !v {
			return record.BoolValue(false), nil
		}
	}
	return record.BoolValue(true), nil
}

// Or is a disjunction of operands, each of which must evaluate to a
// boolean. Evaluation short-circuits on the first true operand.
type Or struct {
	Operands []Node
}

func (n Or) Eval(s *record.Schema, rec *record.Record) (record.Value, error) {
	for _, op := range n.Operands {
		v, err := evalBool(op, s, rec)
		if err != nil {
			return record.Value{}, err
		}
		if v {
			return record.BoolValue(true), nil
		}
	}
	return record.BoolValue(false), nil
}

// Not negates a single boolean operand.
type Not struct {
	Operand Node
}

func (n Not) Eval(s *record.Schema, rec *record.Record) (record.Value, error) {
	v, err := evalBool(n.Operand, s, rec)
	if err != nil {
		return record.Value{}, err
	}
	return record.BoolValue(!v), nil
}

func evalBool(n Node, s *record.Schema, rec *record.Record) (bool, error) {
	v, err := n.Eval(s, rec)
	if err != nil {
		return false, err
	}
	if v.Type != record.TypeBool {
		return false, ErrExprNotBoolean
	}
	return v.Bool, nil
}

// EvalPredicate evaluates root against rec under schema s and returns
// its boolean result. It is the entry point the table scan uses to
// test each tuple.
func EvalPredicate(root Node, s *record.Schema, rec *record.Record) (bool, error) {
	return evalBool(root, s, rec)
}
