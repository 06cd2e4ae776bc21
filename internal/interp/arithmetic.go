package interp

import (
	"math"

	"github.com/eduardosm/rsjsonnet/internal/ast"
)

// plusValues implements the polymorphic `+` operator on already-forced
// operands: numeric addition, string/array concatenation, or object
// composition, per spec.md §4.4.
func plusValues(i *Interp, left, right Value) (Value, error) {
	// A string on the right with a non-string left still stringifies,
	// matching `+` being concatenation whenever either side is a string.
	if rs, ok := right.(String); ok {
		if _, lok := left.(String); !lok {
			ls, err := i.ToString(left)
			if err != nil {
				return nil, err
			}
			return StringValueRunes(append([]rune(ls), rs.R...)), nil
		}
	}
	switch l := left.(type) {
	case Number:
		r, ok := right.(Number)
		if !ok {
			return nil, i.Errorf("binary + : expected number, got %s", right.TypeName())
		}
		return NumberValue(l.N + r.N), nil
	case String:
		rs, err := i.ToString(right)
		if err != nil {
			return nil, err
		}
		return StringValueRunes(append(append([]rune(nil), l.R...), []rune(rs)...)), nil
	case Array:
		switch r := right.(type) {
		case Array:
			elems := make([]*Thunk, 0, len(l.Elems)+len(r.Elems))
			elems = append(elems, l.Elems...)
			elems = append(elems, r.Elems...)
			return ArrayValue(elems), nil
		default:
			return nil, i.Errorf("binary + : expected array, got %s", right.TypeName())
		}
	case *Object:
		r, ok := right.(*Object)
		if !ok {
			return nil, i.Errorf("binary + : expected object, got %s", right.TypeName())
		}
		return PlusObjects(l, r), nil
	default:
		return nil, i.Errorf("binary + : unsupported operand type %s", left.TypeName())
	}
}

// evalBinary evaluates a non-short-circuiting binary operator on already
// forced operands.
func (i *Interp) evalBinary(loc ast.LocationRange, op ast.BinaryOp, left, right Value) (Value, error) {
	switch op {
	case ast.BopPlus:
		return plusValues(i, left, right)
	case ast.BopMinus:
		l, r, err := i.numPair(left, right, "-")
		if err != nil {
			return nil, err
		}
		return NumberValue(l - r), nil
	case ast.BopMul:
		l, r, err := i.numPair(left, right, "*")
		if err != nil {
			return nil, err
		}
		return NumberValue(l * r), nil
	case ast.BopDiv:
		l, r, err := i.numPair(left, right, "/")
		if err != nil {
			return nil, err
		}
		if r == 0 {
			return nil, i.Errorf("division by zero")
		}
		return NumberValue(l / r), nil
	case ast.BopMod:
		return i.evalMod(left, right)
	case ast.BopShiftL, ast.BopShiftR:
		opName := "<<"
		if op == ast.BopShiftR {
			opName = ">>"
		}
		l, r, err := i.intPair(left, right, opName)
		if err != nil {
			return nil, err
		}
		if r < 0 {
			return nil, i.Errorf("binary %s : shift by negative exponent", opName)
		}
		shift := uint(r) & 63
		if op == ast.BopShiftL {
			return NumberValue(float64(l << shift)), nil
		}
		return NumberValue(float64(l >> shift)), nil
	case ast.BopBitAnd:
		l, r, err := i.intPair(left, right, "&")
		if err != nil {
			return nil, err
		}
		return NumberValue(float64(l & r)), nil
	case ast.BopBitOr:
		l, r, err := i.intPair(left, right, "|")
		if err != nil {
			return nil, err
		}
		return NumberValue(float64(l | r)), nil
	case ast.BopBitXor:
		l, r, err := i.intPair(left, right, "^")
		if err != nil {
			return nil, err
		}
		return NumberValue(float64(l ^ r)), nil
	case ast.BopLess, ast.BopLessEq, ast.BopGreater, ast.BopGreaterEq:
		c, err := i.compareValues(left, right)
		if err != nil {
			return nil, err
		}
		switch op {
		case ast.BopLess:
			return BoolValue(c < 0), nil
		case ast.BopLessEq:
			return BoolValue(c <= 0), nil
		case ast.BopGreater:
			return BoolValue(c > 0), nil
		default:
			return BoolValue(c >= 0), nil
		}
	case ast.BopEqual:
		eq, err := i.valuesEqual(left, right)
		if err != nil {
			return nil, err
		}
		return BoolValue(eq), nil
	case ast.BopNotEqual:
		eq, err := i.valuesEqual(left, right)
		if err != nil {
			return nil, err
		}
		return BoolValue(!eq), nil
	case ast.BopIn:
		obj, ok := right.(*Object)
		if !ok {
			return nil, i.Errorf("binary 'in' : expected object on right, got %s", right.TypeName())
		}
		s, ok := left.(String)
		if !ok {
			return nil, i.Errorf("binary 'in' : expected string on left, got %s", left.TypeName())
		}
		return BoolValue(obj.HasField(s.Go(), true)), nil
	}
	return nil, i.Errorf("unsupported binary operator")
}

func (i *Interp) numPair(left, right Value, op string) (float64, float64, error) {
	l, ok := left.(Number)
	if !ok {
		return 0, 0, i.Errorf("binary %s : expected number, got %s", op, left.TypeName())
	}
	r, ok := right.(Number)
	if !ok {
		return 0, 0, i.Errorf("binary %s : expected number, got %s", op, right.TypeName())
	}
	return l.N, r.N, nil
}

// intPair converts left/right to int64 for a bitwise operator, rejecting
// operands outside the int64 range rather than silently truncating them,
// per spec.md §3 ("bitwise operators reject out-of-range values").
func (i *Interp) intPair(left, right Value, op string) (int64, int64, error) {
	l, err := i.bitwiseIntArg(left, op)
	if err != nil {
		return 0, 0, err
	}
	r, err := i.bitwiseIntArg(right, op)
	if err != nil {
		return 0, 0, err
	}
	return l, r, nil
}

func (i *Interp) bitwiseIntArg(v Value, op string) (int64, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, i.Errorf("binary %s : expected number, got %s", op, v.TypeName())
	}
	if n.N < math.MinInt64 || n.N > math.MaxInt64 {
		return 0, i.Errorf("binary %s : argument %s outside of int64 range", op, formatNumber(n.N))
	}
	return int64(n.N), nil
}

func (i *Interp) evalMod(left, right Value) (Value, error) {
	if ls, ok := left.(String); ok {
		return i.Format(ls.Go(), right)
	}
	l, r, err := i.numPair(left, right, "%")
	if err != nil {
		return nil, err
	}
	if r == 0 {
		return nil, i.Errorf("division by zero")
	}
	return NumberValue(math.Mod(l, r)), nil
}
