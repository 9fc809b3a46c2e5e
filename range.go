package shroud

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// minInterval is the smallest derived interval. Smaller values would let
// single-digit numbers generalize to themselves.
const minInterval = 10

type rangeTransform struct{}

// Range returns the built-in range transform.
//
// The value is divided by an interval, rounded according to the field's
// rounding mode and multiplied back. With no configured interval one is
// derived from the value's magnitude: 10^floor(log10(|v|)), but never less
// than 10. Arithmetic is exact decimal; the result has the same type as the
// input. Integer fields receive fractional results rounded half to even.
//
// Accepted inputs are integer, unsigned, float and numeric string kinds.
// Anything else fails with ErrNotNumeric.
func Range() ConfigurableTransform {
	return rangeTransform{}
}

func (t rangeTransform) Apply(value any) (any, error) {
	return t.ApplyWith(value, Sensitivity{Method: MethodRange})
}

func (rangeTransform) ApplyWith(value any, s Sensitivity) (any, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	x, err := decimalOf(rv)
	if err != nil {
		return nil, err
	}

	interval := intervalFor(x, s.Interval)
	g, err := generalize(x, interval, s.rounding())
	if err != nil {
		return nil, err
	}
	return fromDecimal(g, rv.Type())
}

// intervalFor returns the configured interval, or derives one from x.
func intervalFor(x decimal.Decimal, configured float64) decimal.Decimal {
	if configured > 0 {
		return decimal.NewFromFloat(configured)
	}

	a := x.Abs()
	if a.IsZero() {
		return decimal.NewFromInt(minInterval)
	}

	// floor(log10(a)) for a >= 1 is the digit count of floor(a) minus one.
	// For a < 1 the magnitude is negative and the minimum applies.
	magnitude := len(a.Floor().BigInt().String()) - 1
	if magnitude < 1 {
		return decimal.NewFromInt(minInterval)
	}
	return decimal.New(1, int32(magnitude))
}

// generalize snaps x onto a multiple of interval, which must be positive.
// QuoRem at precision 0 truncates toward zero and leaves an exact
// remainder carrying the sign of x.
func generalize(x, interval decimal.Decimal, mode Rounding) (decimal.Decimal, error) {
	q, r := x.QuoRem(interval, 0)
	one := decimal.NewFromInt(1)

	switch mode {
	case RoundFloor:
		if r.Sign() < 0 {
			q = q.Sub(one)
		}
	case RoundCeiling:
		if r.Sign() > 0 {
			q = q.Add(one)
		}
	case RoundNearest:
		if r.Abs().Add(r.Abs()).Cmp(interval) >= 0 {
			q = q.Add(decimal.NewFromInt(int64(x.Sign())))
		}
	default:
		return decimal.Decimal{}, fmt.Errorf("unknown rounding mode %q", mode)
	}

	return q.Mul(interval), nil
}

// decimalOf converts a numeric reflect value to an exact decimal.
// Floats use their shortest decimal representation so that 0.1 means 0.1.
func decimalOf(rv reflect.Value) (decimal.Decimal, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return decimal.NewFromUint64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrNotNumeric, f)
		}
		if rv.Kind() == reflect.Float32 {
			return decimal.NewFromFloat32(float32(f)), nil
		}
		return decimal.NewFromFloat(f), nil
	case reflect.String:
		d, err := decimal.NewFromString(strings.TrimSpace(rv.String()))
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrNotNumeric, rv.String())
		}
		return d, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrNotNumeric, rv.Type())
	}
}

// fromDecimal converts d back to typ, reporting overflow instead of wrapping.
func fromDecimal(d decimal.Decimal, typ reflect.Type) (any, error) {
	out := reflect.New(typ).Elem()

	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := d.RoundBank(0).BigInt()
		if !n.IsInt64() || out.OverflowInt(n.Int64()) {
			return nil, fmt.Errorf("%w: %s does not fit %s", ErrOverflow, n, typ)
		}
		out.SetInt(n.Int64())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := d.RoundBank(0).BigInt()
		if n.Sign() < 0 || !n.IsUint64() || out.OverflowUint(n.Uint64()) {
			return nil, fmt.Errorf("%w: %s does not fit %s", ErrOverflow, n, typ)
		}
		out.SetUint(n.Uint64())
	case reflect.Float32, reflect.Float64:
		f, _ := d.Float64()
		if math.IsInf(f, 0) || out.OverflowFloat(f) {
			return nil, fmt.Errorf("%w: %s does not fit %s", ErrOverflow, d, typ)
		}
		out.SetFloat(f)
	case reflect.String:
		out.SetString(d.String())
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotNumeric, typ)
	}

	return out.Interface(), nil
}
