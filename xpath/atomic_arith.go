package xpath

import (
	"math"
	"math/big"
	"time"
)

// ArithOp names one of the XPath arithmetic operators.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv  // "div"
	OpIDiv // "idiv"
	OpMod  // "mod"
)

// Arith implements operand atomization, untyped promotion and the XSD
// arithmetic rules described in spec.md §4.3 ("Arithmetic"): untyped
// atomics promote to xs:double unless the other operand is a date or
// duration, in which case they promote to that operand's type; integer
// div yields decimal, idiv truncates toward zero, mod follows IEEE 754
// for doubles and XSD truncated division for decimals/integers.
func Arith(op ArithOp, a, b Atomic) (Atomic, error) {
	if a.Type == TypeUntypedAtomic {
		target := TypeDouble
		if isDateLike(b.Type) || isDurationType(b.Type) {
			target = b.Type
		}
		pa, err := Promote(a, target)
		if err != nil {
			return Atomic{}, err
		}
		a = pa
	}
	if b.Type == TypeUntypedAtomic {
		target := TypeDouble
		if isDateLike(a.Type) || isDurationType(a.Type) {
			target = a.Type
		}
		pb, err := Promote(b, target)
		if err != nil {
			return Atomic{}, err
		}
		b = pb
	}

	switch {
	case a.IsNumeric() && b.IsNumeric():
		return arithNumeric(op, a, b)
	case isDateLike(a.Type) && isDurationType(b.Type) && (op == OpAdd || op == OpSub):
		return arithDatePlusDuration(op, a, b)
	case isDurationType(a.Type) && isDateLike(b.Type) && op == OpAdd:
		return arithDatePlusDuration(op, b, a)
	case isDateLike(a.Type) && isDateLike(b.Type) && op == OpSub:
		return arithDateMinusDate(a, b)
	case isDurationType(a.Type) && isDurationType(b.Type) && (op == OpAdd || op == OpSub):
		return arithDurationAddSub(op, a, b)
	case isDurationType(a.Type) && b.IsNumeric() && (op == OpMul || op == OpDiv):
		return arithDurationScale(op, a, b)
	case a.IsNumeric() && isDurationType(b.Type) && op == OpMul:
		return arithDurationScale(OpMul, b, a)
	case isDurationType(a.Type) && isDurationType(b.Type) && op == OpDiv:
		return arithDurationDivDuration(a, b)
	}
	return Atomic{}, newError(XPTY0004, "operator not defined for operand types %s and %s", a.Type, b.Type)
}

func arithNumeric(op ArithOp, a, b Atomic) (Atomic, error) {
	if a.IsNaN() || b.IsNaN() {
		return NewNaN(TypeDouble), nil
	}
	resultType := numericResultType(a.Type, b.Type, op)

	if op == OpIDiv {
		return arithIDiv(a, b)
	}
	if op == OpMod {
		return arithMod(a, b, resultType)
	}

	if resultType == TypeInteger && a.ibig != nil && b.ibig != nil && op != OpDiv {
		var r big.Int
		switch op {
		case OpAdd:
			r.Add(a.ibig, b.ibig)
		case OpSub:
			r.Sub(a.ibig, b.ibig)
		case OpMul:
			r.Mul(a.ibig, b.ibig)
		}
		return NewInteger(&r), nil
	}

	af, bf := bigFloatOf(a), bigFloatOf(b)
	var r big.Float
	r.SetPrec(200)
	switch op {
	case OpAdd:
		r.Add(af, bf)
	case OpSub:
		r.Sub(af, bf)
	case OpMul:
		r.Mul(af, bf)
	case OpDiv:
		if bf.Sign() == 0 {
			if resultType == TypeFloat || resultType == TypeDouble {
				if af.Sign() == 0 {
					return NewNaN(resultType), nil
				}
				inf := new(big.Float).SetInf(af.Sign() < 0)
				return Atomic{Type: resultType, num: inf}, nil
			}
			return Atomic{}, newError(FOAR0001, "division by zero")
		}
		r.Quo(af, bf)
	}
	return Atomic{Type: resultType, num: &r}, nil
}

func numericResultType(a, b AtomicType, op ArithOp) AtomicType {
	rank := func(t AtomicType) int {
		switch t {
		case TypeDouble:
			return 3
		case TypeFloat:
			return 2
		case TypeDecimal:
			return 1
		default:
			return 0 // integer family
		}
	}
	if op == OpDiv {
		if rank(a) == 0 && rank(b) == 0 {
			return TypeDecimal
		}
	}
	if rank(a) >= rank(b) {
		if rank(a) == 0 {
			return TypeInteger
		}
		return normalizeNumericType(a)
	}
	return normalizeNumericType(b)
}

func normalizeNumericType(t AtomicType) AtomicType {
	switch t {
	case TypeDouble, TypeFloat, TypeDecimal:
		return t
	default:
		return TypeInteger
	}
}

func arithIDiv(a, b Atomic) (Atomic, error) {
	if b.Float64() == 0 {
		return Atomic{}, newError(FOAR0001, "integer division by zero")
	}
	af, bf := bigFloatOf(a), bigFloatOf(b)
	q := new(big.Float).SetPrec(200).Quo(af, bf)
	i, _ := q.Int(nil) // big.Float.Int truncates toward zero
	return NewInteger(i), nil
}

func arithMod(a, b Atomic, resultType AtomicType) (Atomic, error) {
	if resultType == TypeDouble || resultType == TypeFloat {
		av, bv := a.Float64(), b.Float64()
		if bv == 0 {
			return NewNaN(resultType), nil
		}
		return Atomic{Type: resultType, num: big.NewFloat(math.Mod(av, bv))}, nil
	}
	if b.Float64() == 0 {
		return Atomic{}, newError(FOAR0001, "modulo by zero")
	}
	af, bf := bigFloatOf(a), bigFloatOf(b)
	q := new(big.Float).SetPrec(200).Quo(af, bf)
	qi, _ := q.Int(nil)
	qf := new(big.Float).SetInt(qi)
	prod := new(big.Float).Mul(qf, bf)
	r := new(big.Float).Sub(af, prod)
	return Atomic{Type: resultType, num: r}, nil
}

func arithDatePlusDuration(op ArithOp, d Atomic, dur Atomic) (Atomic, error) {
	t := d.t
	months := dur.dur.Months
	seconds := dur.dur.Seconds
	if op == OpSub {
		months, seconds = -months, -seconds
	}
	t = t.AddDate(0, int(months), 0)
	t = t.Add(time.Duration(seconds * float64(time.Second)))
	return Atomic{Type: d.Type, t: t, hasTZ: d.hasTZ}, nil
}

func arithDateMinusDate(a, b Atomic) (Atomic, error) {
	delta := a.t.Sub(b.t)
	return NewDurationValue(Duration{Seconds: delta.Seconds()}, TypeDayTimeDuration), nil
}

func arithDurationAddSub(op ArithOp, a, b Atomic) (Atomic, error) {
	months, seconds := a.dur.Months, a.dur.Seconds
	if op == OpAdd {
		months += b.dur.Months
		seconds += b.dur.Seconds
	} else {
		months -= b.dur.Months
		seconds -= b.dur.Seconds
	}
	typ := a.Type
	if typ != b.Type {
		typ = TypeDuration
	}
	return NewDurationValue(Duration{Months: months, Seconds: seconds}, typ), nil
}

func arithDurationScale(op ArithOp, dur, n Atomic) (Atomic, error) {
	factor := n.Float64()
	if op == OpDiv && factor == 0 {
		return Atomic{}, newError(FOAR0001, "duration division by zero")
	}
	if op == OpDiv {
		factor = 1 / factor
	}
	return NewDurationValue(Duration{
		Months:  int64(math.Round(float64(dur.dur.Months) * factor)),
		Seconds: dur.dur.Seconds * factor,
	}, dur.Type), nil
}

func arithDurationDivDuration(a, b Atomic) (Atomic, error) {
	av := float64(a.dur.Months)*2629800 + a.dur.Seconds
	bv := float64(b.dur.Months)*2629800 + b.dur.Seconds
	if bv == 0 {
		return Atomic{}, newError(FOAR0001, "duration division by zero")
	}
	return NewDecimal(av / bv), nil
}

