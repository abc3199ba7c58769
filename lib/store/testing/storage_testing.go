package testing

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/ValentinKolb/dStore/lib/store"
)

// StorageFactory creates a new engine on an empty disk for a single test.
type StorageFactory func(t *testing.T) store.IStorage

// RunStorageTests runs a comprehensive test suite for an IStorage implementation.
func RunStorageTests(t *testing.T, name string, factory StorageFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Store&Read", func(t *testing.T) {
			testStoreRead(t, factory(t))
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory(t))
		})

		t.Run("Absent", func(t *testing.T) {
			testAbsent(t, factory(t))
		})

		t.Run("MissingKey", func(t *testing.T) {
			testMissingKey(t, factory(t))
		})

		t.Run("NamespaceNotSet", func(t *testing.T) {
			testNamespaceNotSet(t, factory(t))
		})

		t.Run("NamespaceIsolation", func(t *testing.T) {
			testNamespaceIsolation(t, factory(t))
		})

		t.Run("KeyTypes", func(t *testing.T) {
			testKeyTypes(t, factory(t))
		})

		t.Run("Path", func(t *testing.T) {
			testPath(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func record(key any, data store.Mapping) *store.MappingRecord {
	return store.NewMappingRecord("id", key, data)
}

func mustStore(t *testing.T, s store.IStorage, obj store.Storable) {
	t.Helper()
	if err := s.Store(obj); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
}

func mustRead(t *testing.T, s store.IStorage, key any) store.Mapping {
	t.Helper()
	m, ok, err := s.Read(key)
	if err != nil {
		t.Fatalf("Read(%v) failed: %v", key, err)
	}
	if !ok {
		t.Fatalf("Expected record %v to exist", key)
	}
	return m
}

// normalize brings a mapping into the shape a json round trip produces,
// so mappings written and mappings read back can be compared.
func normalize(t *testing.T, m store.Mapping) store.Mapping {
	t.Helper()
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out store.Mapping
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return out
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testStoreRead(t *testing.T, s store.IStorage) {
	s.SetNamespace("users")

	r := record("42", store.Mapping{"name": "Ada", "age": 36, "admin": true, "tags": []string{"a"}})
	mustStore(t, s, r)

	got := mustRead(t, s, "42")
	if !reflect.DeepEqual(normalize(t, got), normalize(t, r.Data)) {
		t.Errorf("Expected %v, got %v", r.Data, got)
	}

	ok, err := s.HasSaved("42")
	if err != nil || !ok {
		t.Errorf("Expected HasSaved=true after Store (ok=%v, err=%v)", ok, err)
	}
}

func testOverwrite(t *testing.T, s store.IStorage) {
	s.SetNamespace("users")

	mustStore(t, s, record("42", store.Mapping{"name": "Ada", "email": "ada@example.com"}))
	mustStore(t, s, record("42", store.Mapping{"name": "Grace"}))

	got := mustRead(t, s, "42")
	if got["name"] != "Grace" {
		t.Errorf("Expected name Grace after overwrite, got %v", got["name"])
	}
	if _, ok := got["email"]; ok {
		t.Errorf("Expected no residual field email after overwrite, got %v", got)
	}

	// storing the same record again yields the same mapping
	mustStore(t, s, record("42", store.Mapping{"name": "Grace"}))
	again := mustRead(t, s, "42")
	if !reflect.DeepEqual(got, again) {
		t.Errorf("Expected identical mapping after idempotent store, got %v and %v", got, again)
	}
}

func testAbsent(t *testing.T, s store.IStorage) {
	s.SetNamespace("users")

	m, ok, err := s.Read("never-stored")
	if err != nil || ok || m != nil {
		t.Errorf("Expected absent record (nil, false, nil), got (%v, %v, %v)", m, ok, err)
	}

	ok, err = s.HasSaved("never-stored")
	if err != nil || ok {
		t.Errorf("Expected HasSaved=false, got (%v, %v)", ok, err)
	}
}

func testMissingKey(t *testing.T, s store.IStorage) {
	s.SetNamespace("users")

	var nilPtr *string
	for _, key := range []any{nil, "", nilPtr} {
		if err := s.Store(record(key, nil)); !store.IsMissingKey(err) {
			t.Errorf("Store with key %#v: expected missing key error, got %v", key, err)
		}
		if _, _, err := s.Read(key); !store.IsMissingKey(err) {
			t.Errorf("Read with key %#v: expected missing key error, got %v", key, err)
		}
		if _, err := s.HasSaved(key); !store.IsMissingKey(err) {
			t.Errorf("HasSaved with key %#v: expected missing key error, got %v", key, err)
		}
		if _, err := s.PathFor(key); !store.IsMissingKey(err) {
			t.Errorf("PathFor with key %#v: expected missing key error, got %v", key, err)
		}
	}

	if err := s.Store(&store.MappingRecord{KeyField: "id", Data: store.Mapping{"name": "x"}}); !store.IsMissingKey(err) {
		t.Errorf("Expected missing key error for record without key field, got %v", err)
	}
}

func testNamespaceNotSet(t *testing.T, s store.IStorage) {
	if s.Namespace() != "" {
		t.Skip("factory returned an engine with a namespace")
	}
	if err := s.Store(record("1", nil)); store.CodeOf(err) != store.RetCNamespaceNotSet {
		t.Errorf("Store: expected RetCNamespaceNotSet, got %v", err)
	}
	if _, _, err := s.Read("1"); store.CodeOf(err) != store.RetCNamespaceNotSet {
		t.Errorf("Read: expected RetCNamespaceNotSet, got %v", err)
	}
	if _, err := s.HasSaved("1"); store.CodeOf(err) != store.RetCNamespaceNotSet {
		t.Errorf("HasSaved: expected RetCNamespaceNotSet, got %v", err)
	}
}

func testNamespaceIsolation(t *testing.T, s store.IStorage) {
	if got := s.SetNamespace("users").Namespace(); got != "users" {
		t.Fatalf("Expected SetNamespace to chain, namespace is %q", got)
	}
	mustStore(t, s, record("1", store.Mapping{"kind": "user"}))

	s.SetNamespace("teams")
	if ok, err := s.HasSaved("1"); err != nil || ok {
		t.Errorf("Expected record of namespace users to be invisible in teams (ok=%v, err=%v)", ok, err)
	}
	mustStore(t, s, record("1", store.Mapping{"kind": "team"}))

	if got := mustRead(t, s.SetNamespace("users"), "1"); got["kind"] != "user" {
		t.Errorf("Expected users/1 to be untouched, got %v", got)
	}
	if got := mustRead(t, s.SetNamespace("teams"), "1"); got["kind"] != "team" {
		t.Errorf("Expected teams/1, got %v", got)
	}
}

func testKeyTypes(t *testing.T, s store.IStorage) {
	s.SetNamespace("keys")

	for _, key := range []any{0, 42, int64(-7), uint8(3), "with space", "a/b", false} {
		mustStore(t, s, record(key, store.Mapping{"v": fmt.Sprint(key)}))
		got := mustRead(t, s, key)
		if got["v"] != fmt.Sprint(key) {
			t.Errorf("Key %#v: expected v=%v, got %v", key, fmt.Sprint(key), got)
		}
	}

	// keys of different types with the same string form address the same record
	if ok, err := s.HasSaved("42"); err != nil || !ok {
		t.Errorf("Expected int key 42 and string key \"42\" to share a record (ok=%v, err=%v)", ok, err)
	}

	for _, key := range []any{".", "..", struct{}{}} {
		if err := s.Store(record(key, nil)); store.CodeOf(err) != store.RetCInvalidKey {
			t.Errorf("Key %#v: expected RetCInvalidKey, got %v", key, err)
		}
	}
}

func testPath(t *testing.T, s store.IStorage) {
	s.SetNamespace("users")

	p1, err := s.PathFor("42")
	if err != nil {
		t.Fatalf("PathFor failed: %v", err)
	}
	p2, err := s.PathFor(42)
	if err != nil {
		t.Fatalf("PathFor failed: %v", err)
	}
	if p1 != p2 {
		t.Errorf("Expected equal paths for \"42\" and 42, got %s and %s", p1, p2)
	}
	p3, err := s.PathFor("43")
	if err != nil {
		t.Fatalf("PathFor failed: %v", err)
	}
	if p1 == p3 {
		t.Errorf("Expected different paths for different keys, got %s", p1)
	}
}
