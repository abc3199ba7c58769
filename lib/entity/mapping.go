package entity

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/ValentinKolb/dStore/lib/store"
	"github.com/go-viper/mapstructure/v2"
)

// ToMapping returns the persisted fields of e, keyed by their mapping name.
// The key field is included.
func ToMapping[T Entity](e *T) (store.Mapping, error) {
	d, err := describe[T]()
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNilEntity
	}
	return d.toMapping(reflect.ValueOf(e).Elem()), nil
}

// FromMapping creates a new T and assigns every field found in m.
// Fields missing from m keep their zero value. Values are converted where
// this is lossless or obvious (json numbers to ints, RFC 3339 strings to time.Time, ...).
// Byte slices are expected base64 encoded and json.Unmarshaler fields get the
// JSON form of their value, so mappings read from a record decode like
// encoding/json would decode them.
func FromMapping[T Entity](m store.Mapping) (*T, error) {
	if _, err := describe[T](); err != nil {
		return nil, err
	}
	out := new(T)
	if err := decode(m, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Key returns the value of the key field of e.
func Key[T Entity](e *T) (any, error) {
	d, err := describe[T]()
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNilEntity
	}
	return d.key(reflect.ValueOf(e).Elem()), nil
}

// SetKey assigns v to the key field of e, converting it like FromMapping does.
// All other fields are left untouched.
func SetKey[T Entity](e *T, v any) error {
	d, err := describe[T]()
	if err != nil {
		return err
	}
	if e == nil {
		return ErrNilEntity
	}
	return decode(store.Mapping{d.keyName: v}, e)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func (d *descriptor) toMapping(v reflect.Value) store.Mapping {
	m := make(store.Mapping, len(d.fields))
	for _, f := range d.fields {
		m[f.name] = v.FieldByIndex(f.index).Interface()
	}
	return m
}

func (d *descriptor) key(v reflect.Value) any {
	return v.FieldByIndex(d.fields[d.keyField].index).Interface()
}

// decode assigns m to the struct pointed to by out.
func decode(m store.Mapping, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		Squash:           true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonUnmarshalerHook,
			base64BytesHook,
			numberHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("entity: decode %T: %w", out, err)
	}
	return nil
}

var (
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	jsonNumberType      = reflect.TypeOf((*json.Number)(nil)).Elem()
)

// jsonUnmarshalerHook hands values for json.Unmarshaler targets back to their
// UnmarshalJSON, since their stored form is whatever MarshalJSON produced.
func jsonUnmarshalerHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from == to || !reflect.PointerTo(to).Implements(jsonUnmarshalerType) {
		return data, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := reflect.New(to)
	if err := out.Interface().(json.Unmarshaler).UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return out.Elem().Interface(), nil
}

// base64BytesHook decodes byte slices, which are stored as base64 strings.
func base64BytesHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice || to.Elem().Kind() != reflect.Uint8 {
		return data, nil
	}
	b, err := base64.StdEncoding.DecodeString(reflect.ValueOf(data).String())
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(b).Convert(to).Interface(), nil
}

// numberHook converts json numbers for untyped (any) and unsigned targets.
// Untyped targets get int64 or float64, unsigned targets are parsed without a
// detour over int64 so values above math.MaxInt64 survive. Everything else is
// converted by mapstructure itself.
func numberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from != jsonNumberType {
		return data, nil
	}
	n := data.(json.Number)
	switch to.Kind() {
	case reflect.Interface:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		if f, err := n.Float64(); err == nil {
			return f, nil
		}
		return n.String(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u, err := strconv.ParseUint(n.String(), 10, to.Bits()); err == nil {
			return reflect.ValueOf(u).Convert(to).Interface(), nil
		}
	}
	return data, nil
}
