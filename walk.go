package shroud

import (
	"context"
	"fmt"
	"go/token"
	"maps"
	"reflect"
)

// methodOverride labels failures raised by an Anonymizable implementation.
const methodOverride Method = "override"

var anonymizableType = reflect.TypeFor[Anonymizable]()

// walker carries the state of a single Anonymize call.
type walker struct {
	a           *Anonymizer
	ctx         context.Context
	transformed int
	failed      int
}

// walk returns the anonymized form of v. The input is never modified.
func (w *walker) walk(v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() || isAbsent(v) {
		return v, nil
	}
	if out, ok := w.override(v); ok {
		return out, nil
	}

	t := v.Type()
	if w.a.isAtomic(t) || isCollection(t.Kind()) {
		return v, nil
	}

	switch v.Kind() {
	case reflect.Interface:
		inner, err := w.walk(v.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		out.Set(inner)
		return out, nil

	case reflect.Pointer:
		et := t.Elem()
		if et.Kind() != reflect.Struct || w.a.isAtomic(et) {
			return v, nil
		}
		s, err := w.walkStruct(v.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(et)
		p.Elem().Set(s)
		return p, nil

	case reflect.Struct:
		return w.walkStruct(v)
	}

	return v, nil
}

// walkStruct builds a new struct of v's type, field by field.
func (w *walker) walkStruct(v reflect.Value) (reflect.Value, error) {
	plan, err := planFor(v.Type())
	if err != nil {
		return reflect.Value{}, err
	}

	out := reflect.New(v.Type()).Elem()
	for i := range plan.fields {
		f := &plan.fields[i]
		if !f.readable || !f.writable {
			continue
		}

		fv := v.FieldByIndex(f.index)
		if isAbsent(fv) {
			continue
		}

		var res reflect.Value
		switch {
		case f.sensitivity != nil:
			res, err = w.dispatch(f, fv)
		case isCollection(fv.Kind()):
			res = fv
		default:
			res, err = w.walk(fv)
		}
		if err != nil {
			return reflect.Value{}, err
		}
		out.FieldByIndex(f.index).Set(res)
	}

	return out, nil
}

// dispatch runs the field's transform. Only a missing transform is
// returned as an error; every other failure keeps the original value.
func (w *walker) dispatch(f *fieldPlan, fv reflect.Value) (reflect.Value, error) {
	s := *f.sensitivity
	t, ok := w.a.transforms[s.Method]
	if !ok {
		return reflect.Value{}, newConfigError(ErrMissingTransform, string(s.Method), f.name)
	}

	in := fv
	for (in.Kind() == reflect.Pointer || in.Kind() == reflect.Interface) && !in.IsNil() {
		in = in.Elem()
	}
	var arg any
	if !isAbsent(in) {
		arg = in.Interface()
	}

	res, err := apply(t, arg, s)
	if err != nil {
		w.fail(f.name, s.Method, err)
		return fv, nil
	}
	out, err := assign(fv.Type(), res)
	if err != nil {
		w.fail(f.name, s.Method, err)
		return fv, nil
	}

	w.succeed()
	return out, nil
}

// override hands v to its Anonymizable implementation, if it has one.
// Value receivers are reached through a pointer to a copy of v.
func (w *walker) override(v reflect.Value) (reflect.Value, bool) {
	t := v.Type()
	if t.Kind() == reflect.Interface {
		return reflect.Value{}, false
	}

	var target Anonymizable
	switch {
	case t.Implements(anonymizableType):
		target = v.Interface().(Anonymizable)
	case t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(anonymizableType):
		p := reflect.New(t)
		p.Elem().Set(v)
		target = p.Interface().(Anonymizable)
	default:
		return reflect.Value{}, false
	}

	res, err := anonymizeWith(target, maps.Clone(w.a.transforms))
	if err != nil {
		w.fail(t.String(), methodOverride, err)
		return v, true
	}
	out, err := assign(t, res)
	if err != nil {
		w.fail(t.String(), methodOverride, err)
		return v, true
	}

	w.succeed()
	return out, true
}

func (w *walker) succeed() {
	w.transformed++
	w.a.metrics.Counter(FieldsTransformedTotal).Inc()
}

func (w *walker) fail(field string, m Method, cause error) {
	w.failed++
	w.a.metrics.Counter(FieldsFailedTotal).Inc()
	w.a.sink.Warn(w.ctx, newTransformError(m, field, cause).Error())
}

// apply invokes t, converting a panic into an error.
func apply(t Transform, value any, s Sensitivity) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if ct, ok := t.(ConfigurableTransform); ok {
		return ct.ApplyWith(value, s)
	}
	return t.Apply(value)
}

func anonymizeWith(target Anonymizable, transforms map[Method]Transform) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return target.AnonymizeWith(transforms)
}

// assign converts a transform result into a value storable in a field of
// type typ.
func assign(typ reflect.Type, res any) (reflect.Value, error) {
	if res == nil {
		return reflect.Zero(typ), nil
	}

	rv := reflect.ValueOf(res)
	rt := rv.Type()
	switch {
	case rt.AssignableTo(typ):
		return rv, nil
	case typ.Kind() == reflect.Pointer:
		elem, err := assign(typ.Elem(), res)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(typ.Elem())
		p.Elem().Set(elem)
		return p, nil
	case rt.Kind() == reflect.Pointer && !rv.IsNil() && rt.Elem().AssignableTo(typ):
		return rv.Elem(), nil
	case sameFamily(rt, typ) && rt.ConvertibleTo(typ):
		return rv.Convert(typ), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %s into %s", ErrUnassignable, rt, typ)
}

// sameFamily reports whether a conversion from src to dst preserves meaning:
// text to text, number to number, or text to bytes.
func sameFamily(src, dst reflect.Type) bool {
	switch {
	case src.Kind() == reflect.String && dst.Kind() == reflect.String:
		return true
	case isNumeric(src.Kind()) && isNumeric(dst.Kind()):
		return true
	case src.Kind() == reflect.String && dst.Kind() == reflect.Slice && dst.Elem().Kind() == reflect.Uint8:
		return true
	}
	return false
}

// isAtomic reports whether values of t are copied whole and never walked.
func (a *Anonymizer) isAtomic(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String, reflect.Complex64, reflect.Complex128,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	case reflect.Struct:
		if a.atomic[t] {
			return true
		}
		for i := 0; i < t.NumField(); i++ {
			if token.IsExported(t.Field(i).Name) {
				return false
			}
		}
		return true
	}
	return isNumeric(t.Kind()) || a.atomic[t]
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}

// isAbsent reports whether v is a nil reference.
func isAbsent(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	case reflect.Invalid:
		return true
	}
	return false
}
