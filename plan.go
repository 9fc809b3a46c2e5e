package shroud

import (
	"go/token"
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag(TagName)
}

// fieldPlan describes one field of a struct type.
type fieldPlan struct {
	index       []int        // reflect.Value.FieldByIndex access path
	name        string       // qualified name for diagnostics (Type.Field)
	readable    bool         // exported
	writable    bool         // exported and not tagged anonymize:"-"
	sensitivity *Sensitivity // nil when the field is not sensitive
}

// typePlan is the cached field list for one struct type.
// It depends only on the type, never on an instance.
type typePlan struct {
	typeName string
	fields   []fieldPlan
}

// Plans live for the process lifetime and are never evicted.
var (
	plans   = make(map[reflect.Type]*typePlan)
	plansMu sync.RWMutex
)

// planFor returns the cached plan for a struct type, building it on first use.
func planFor(rt reflect.Type) (*typePlan, error) {
	plansMu.RLock()
	if p, ok := plans[rt]; ok {
		plansMu.RUnlock()
		return p, nil
	}
	plansMu.RUnlock()

	plansMu.Lock()
	defer plansMu.Unlock()

	if p, ok := plans[rt]; ok {
		return p, nil
	}

	p, err := buildPlan(rt)
	if err != nil {
		return nil, err
	}
	plans[rt] = p
	return p, nil
}

func buildPlan(rt reflect.Type) (*typePlan, error) {
	meta := scanType(rt)
	p := &typePlan{
		typeName: rt.String(),
		fields:   make([]fieldPlan, 0, len(meta.Fields)),
	}

	for _, f := range meta.Fields {
		fp := fieldPlan{
			index:    f.Index,
			name:     rt.Name() + "." + f.Name,
			readable: f.ReflectType != nil && token.IsExported(f.Name),
		}
		fp.writable = fp.readable

		tag, ok := f.Tags[TagName]
		switch {
		case !ok || tag == "":
		case tag == skipTag:
			fp.writable = false
		default:
			s, err := ParseSensitivity(tag)
			if err != nil {
				return nil, &ConfigError{Err: err, Method: tag, Field: fp.name}
			}
			fp.sensitivity = &s
		}

		p.fields = append(p.fields, fp)
	}

	return p, nil
}

// scanType returns field metadata for a struct type, preferring sentinel's
// registry and falling back to reflection for types it has not seen.
// Sentinel keys its registry by package path and type name, which
// function-local types can share, so a hit must also match rt itself.
func scanType(rt reflect.Type) sentinel.Metadata {
	if rt.PkgPath() != "" {
		meta, ok := sentinel.Lookup(rt.PkgPath() + "." + rt.Name())
		if ok && meta.ReflectType == rt {
			return meta
		}
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        map[string]string{},
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Pointer:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		if val, ok := sf.Tag.Lookup(TagName); ok {
			fm.Tags[TagName] = val
		}
		meta.Fields = append(meta.Fields, fm)
	}

	return meta
}

// scan registers T with sentinel so nested lookups hit its registry.
func scan[T any]() {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() == reflect.Struct {
		_, _ = sentinel.TryScan[T]()
	}
}
