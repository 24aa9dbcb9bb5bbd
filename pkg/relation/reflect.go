package relation

import (
	"errors"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// Reflect returns the method set of a live model value.
// Value and pointer receiver methods are both included. A method whose name
// also belongs to an embedded field's method set is treated as promoted.
func Reflect(v any) []Method {
	if v == nil {
		return nil
	}

	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer {
		p := reflect.New(val.Type())
		p.Elem().Set(val)
		val = p
	}
	if val.IsNil() {
		val = reflect.New(val.Type().Elem())
	}

	t := val.Type()
	elem := t.Elem()
	promoted := promotedNames(elem)

	methods := make([]Method, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		fn := val.Method(i)

		declaredOn := elem.Name()
		if promoted[m.Name] {
			declaredOn = ""
		}

		methods = append(methods, Method{
			Name:       m.Name,
			Exported:   m.IsExported(),
			NumParams:  m.Type.NumIn() - 1,
			DeclaredOn: declaredOn,
			Call:       func() (any, error) { return callValue(fn) },
		})
	}
	return methods
}

func promotedNames(t reflect.Type) map[string]bool {
	names := make(map[string]bool)
	if t.Kind() != reflect.Struct {
		return names
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() != reflect.Pointer && ft.Kind() != reflect.Interface {
			ft = reflect.PointerTo(ft)
		}
		for j := 0; j < ft.NumMethod(); j++ {
			names[ft.Method(j).Name] = true
		}
	}
	return names
}

// callValue calls a parameterless method value. A trailing error result is returned as the error.
func callValue(fn reflect.Value) (any, error) {
	if fn.Type().NumIn() != 0 {
		return nil, fmt.Errorf("method takes %d parameters", fn.Type().NumIn())
	}

	out := fn.Call(nil)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	case 2:
		if !fn.Type().Out(1).Implements(errorType) {
			return nil, errors.New("unsupported result signature")
		}
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	default:
		return nil, errors.New("unsupported result signature")
	}
}
