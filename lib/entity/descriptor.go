package entity

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// field is one persisted field of an entity type.
type field struct {
	name  string
	index []int
}

// descriptor holds what the reflection over an entity type yields.
// Descriptors only depend on the type and are computed once per type.
type descriptor struct {
	typ      reflect.Type
	fields   []field
	keyName  string
	keyField int
	diskName string
}

var descriptors = xsync.NewMapOf[reflect.Type, *descriptor]()

// describe returns the descriptor of T.
func describe[T Entity]() (*descriptor, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if d, ok := descriptors.Load(typ); ok {
		return d, nil
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotAStruct, typ)
	}

	var zero T
	d := &descriptor{
		typ:      typ,
		fields:   collectFields(typ, nil),
		keyName:  zero.KeyName(),
		keyField: -1,
		diskName: zero.DiskName(),
	}
	if d.diskName == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoDiskName, typ)
	}
	seen := make(map[string]struct{}, len(d.fields))
	for i, f := range d.fields {
		if _, ok := seen[f.name]; ok {
			return nil, fmt.Errorf("%w: %s has more than one field %q", ErrDuplicateField, typ, f.name)
		}
		seen[f.name] = struct{}{}
		if f.name == d.keyName {
			d.keyField = i
		}
	}
	if d.keyField < 0 {
		return nil, fmt.Errorf("%w: %s has no field %q", ErrKeyField, typ, d.keyName)
	}

	d, _ = descriptors.LoadOrStore(typ, d)
	return d, nil
}

// collectFields returns the persisted fields of typ in declaration order.
// Exported fields are persisted under their json name (or their Go name if
// they have none) and fields tagged json:"-" are skipped. Embedded structs are
// always flattened, matching how mapstructure squashes them on decode, so a
// field must not reuse the name of a field of an embedded struct.
func collectFields(typ reflect.Type, parent []int) []field {
	var fields []field
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		index := append(append([]int{}, parent...), i)

		name := jsonName(sf)
		if name == "-" {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			fields = append(fields, collectFields(sf.Type, index)...)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		fields = append(fields, field{name: name, index: index})
	}
	return fields
}

// jsonName returns the mapping name of a struct field.
func jsonName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" {
		return sf.Name
	}
	return name
}
