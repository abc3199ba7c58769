package entity

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ValentinKolb/dStore/lib/store"
)

type base struct {
	CreatedAt time.Time `json:"created_at"`
}

type Meta struct {
	Source string `json:"source"`
}

type record struct {
	base
	Meta     `json:"meta"`
	ID       int64          `json:"id"`
	Title    string         `json:"title,omitempty"`
	Count    uint           `json:"count"`
	Timeout  time.Duration  `json:"timeout"`
	Extra    any            `json:"extra"`
	Nested   map[string]any `json:"nested"`
	Secret   string         `json:"-"`
	Plain    bool
	internal int
}

func (record) KeyName() string  { return "id" }
func (record) DiskName() string { return "records" }

type pointerKeyed struct {
	Key *string `json:"key"`
}

func (pointerKeyed) KeyName() string  { return "key" }
func (pointerKeyed) DiskName() string { return "pointers" }

type notAStruct string

func (notAStruct) KeyName() string  { return "id" }
func (notAStruct) DiskName() string { return "strings" }

type withoutKey struct {
	Name string `json:"name"`
}

func (withoutKey) KeyName() string  { return "id" }
func (withoutKey) DiskName() string { return "without" }

type withoutDisk struct {
	ID string `json:"id"`
}

func (withoutDisk) KeyName() string  { return "id" }
func (withoutDisk) DiskName() string { return "" }

type shadowing struct {
	Meta
	ID     string `json:"id"`
	Origin string `json:"source"`
}

func (shadowing) KeyName() string  { return "id" }
func (shadowing) DiskName() string { return "shadowing" }

func TestDescribe(t *testing.T) {
	d, err := describe[record]()
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}

	var names []string
	for _, f := range d.fields {
		names = append(names, f.name)
	}
	want := []string{"created_at", "source", "id", "title", "count", "timeout", "extra", "nested", "Plain"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("unexpected fields\nwant %v\ngot  %v", want, names)
	}
	if d.fields[d.keyField].name != "id" || d.diskName != "records" {
		t.Errorf("unexpected key field or disk name: %+v", d)
	}

	again, _ := describe[record]()
	if again != d {
		t.Errorf("expected the descriptor to be computed once per type")
	}
}

func TestDescribeErrors(t *testing.T) {
	if _, err := describe[notAStruct](); !errors.Is(err, ErrNotAStruct) {
		t.Errorf("expected ErrNotAStruct, got %v", err)
	}
	if _, err := describe[withoutKey](); !errors.Is(err, ErrKeyField) {
		t.Errorf("expected ErrKeyField, got %v", err)
	}
	if _, err := describe[withoutDisk](); !errors.Is(err, ErrNoDiskName) {
		t.Errorf("expected ErrNoDiskName, got %v", err)
	}
	if _, err := describe[shadowing](); !errors.Is(err, ErrDuplicateField) {
		t.Errorf("expected ErrDuplicateField, got %v", err)
	}
	if _, err := NewRepository[withoutKey](nil); !errors.Is(err, ErrKeyField) {
		t.Errorf("expected NewRepository to validate the type, got %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("expected MustRepository to panic")
		}
	}()
	MustRepository[notAStruct](nil)
}

func TestToMapping(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := &record{
		base:     base{CreatedAt: now},
		Meta:     Meta{Source: "import"},
		ID:       7,
		Secret:   "hidden",
		Plain:    true,
		internal: 3,
	}

	m, err := ToMapping(r)
	if err != nil {
		t.Fatalf("ToMapping failed: %v", err)
	}

	if m["created_at"] != now || m["id"] != int64(7) || m["Plain"] != true {
		t.Errorf("unexpected mapping %v", m)
	}
	if m["source"] != "import" {
		t.Errorf("expected embedded struct to be flattened, got %v", m)
	}
	if _, ok := m["title"]; !ok {
		t.Errorf("expected empty fields to be present")
	}
	for _, hidden := range []string{"Secret", "-", "internal"} {
		if _, ok := m[hidden]; ok {
			t.Errorf("field %s must not be persisted", hidden)
		}
	}

	key, err := Key(r)
	if err != nil || key != int64(7) {
		t.Errorf("Key = %v, %v", key, err)
	}
}

func TestFromMapping(t *testing.T) {
	m := store.Mapping{
		"created_at": "2024-05-01T12:00:00Z",
		"source":     "import",
		"id":         json.Number("9007199254740993"),
		"count":      json.Number("3"),
		"timeout":    "1m30s",
		"extra":      json.Number("12"),
		"nested":     map[string]any{"n": json.Number("1.5"), "s": "x"},
		"Secret":     "ignored",
		"plain":      true,
		"unknown":    "ignored",
	}

	r, err := FromMapping[record](m)
	if err != nil {
		t.Fatalf("FromMapping failed: %v", err)
	}

	if !r.CreatedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected created_at %v", r.CreatedAt)
	}
	if r.Source != "import" || r.ID != 9007199254740993 || r.Count != 3 {
		t.Errorf("unexpected values %+v", r)
	}
	if r.Timeout != 90*time.Second {
		t.Errorf("unexpected timeout %v", r.Timeout)
	}
	if r.Extra != int64(12) {
		t.Errorf("expected untyped integer to become int64, got %#v", r.Extra)
	}
	if r.Nested["n"] != 1.5 || r.Nested["s"] != "x" {
		t.Errorf("unexpected nested %#v", r.Nested)
	}
	if r.Secret != "" || r.Title != "" {
		t.Errorf("absent and skipped fields must keep their zero value, got %+v", r)
	}
	if !r.Plain {
		t.Errorf("expected untagged field to match case insensitive")
	}
}

func TestFromMappingEmpty(t *testing.T) {
	r, err := FromMapping[record](nil)
	if err != nil {
		t.Fatalf("FromMapping(nil) failed: %v", err)
	}
	if !reflect.DeepEqual(*r, record{}) {
		t.Errorf("expected zero value, got %+v", r)
	}
}

func TestFromMappingTypeMismatch(t *testing.T) {
	if _, err := FromMapping[record](store.Mapping{"id": "not a number"}); err == nil {
		t.Errorf("expected an error for a key that is not numeric")
	}
}

func TestPointerKey(t *testing.T) {
	repo := MustRepository[pointerKeyed](nil)

	if _, err := repo.Key(&pointerKeyed{}); err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	e, err := repo.For("abc")
	if err != nil {
		t.Fatalf("For failed: %v", err)
	}
	if e.Key == nil || *e.Key != "abc" {
		t.Errorf("expected pointer key to be set, got %v", e.Key)
	}
	if got, _ := store.KeyString(mustKey(t, repo, e)); got != "abc" {
		t.Errorf("expected pointer key to stringify to abc, got %q", got)
	}
}

func TestSetKey(t *testing.T) {
	r := &record{ID: 1, Title: "keep"}
	if err := SetKey(r, "7"); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}
	if r.ID != 7 || r.Title != "keep" {
		t.Errorf("expected id 7 and untouched title, got %+v", r)
	}
	if err := SetKey[record](nil, 1); !errors.Is(err, ErrNilEntity) {
		t.Errorf("expected ErrNilEntity, got %v", err)
	}
	if err := SetKey(r, "x"); err == nil {
		t.Errorf("expected an error for a non numeric key")
	}
}

func mustKey[T Entity](t *testing.T, r *Repository[T], e *T) any {
	t.Helper()
	k, err := r.Key(e)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	return k
}

func TestRepositoryMetadata(t *testing.T) {
	repo := MustRepository[record](nil)
	if repo.KeyName() != "id" || repo.DiskName() != "records" {
		t.Errorf("unexpected metadata %s/%s", repo.KeyName(), repo.DiskName())
	}
	if fields := repo.Fields(); len(fields) != 9 || fields[0] != "created_at" {
		t.Errorf("unexpected fields %v", fields)
	}
}
