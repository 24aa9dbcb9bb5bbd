package catalog

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/leapstack-labs/modeldoc/pkg/core"
	"github.com/leapstack-labs/modeldoc/pkg/relation"
)

type tabler interface {
	TableName() string
}

// Reflect builds an entity from a live model value. The declaring file is
// found by resolving the type's package through the manifest.
func Reflect(v any, m *Manifest) (*Entity, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("nil model")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t.Name() == "" {
		return nil, fmt.Errorf("%s is not a named struct type", t)
	}

	e := &Entity{
		Name:    t.Name(),
		Package: t.PkgPath(),
		ModelTarget: core.ModelTarget{
			QualifiedName: qualify(t.PkgPath(), t.Name()),
			TableName:     tableNameOf(v, t),
		},
		Methods: relation.Reflect(v),
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if name := relation.ShortName(ft.Name()); name != "" {
			e.Embeds = append(e.Embeds, name)
		}
	}

	if m != nil {
		dir, ok := m.Resolve(e.Package)
		if !ok {
			// External test packages live in the directory of the package they test.
			dir, ok = m.Resolve(strings.TrimSuffix(e.Package, "_test"))
		}
		if !ok {
			return nil, fmt.Errorf("package %s not found in project modules: %w", e.Package, core.ErrTypeNotFound)
		}
		file, err := FindTypeFile(dir, e.Name)
		if err != nil {
			return nil, err
		}
		e.SourceFilePath = file
	}

	return e, nil
}

func tableNameOf(v any, t reflect.Type) string {
	if val := reflect.ValueOf(v); val.Kind() == reflect.Pointer && val.IsNil() {
		v = reflect.New(t).Interface()
	}
	if tn, ok := v.(tabler); ok {
		return tn.TableName()
	}
	if tn, ok := reflect.New(t).Interface().(tabler); ok {
		return tn.TableName()
	}
	return DefaultTableName(t.Name())
}
