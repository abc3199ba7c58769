package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/dStore/lib/disk"
	"github.com/ValentinKolb/dStore/lib/store"
	"github.com/ValentinKolb/dStore/lib/store/codec"
	storetesting "github.com/ValentinKolb/dStore/lib/store/testing"
	"github.com/spf13/afero"
)

func newMemStorage(fs afero.Fs, opts ...store.Option) store.IStorage {
	d := disk.NewAferoDisk(fs, &disk.Options{BaseDir: "/data"})
	return store.NewDiskStorage(d, opts...)
}

func TestDiskStorage(t *testing.T) {
	storetesting.RunStorageTests(t, "MemMapFs", func(t *testing.T) store.IStorage {
		return newMemStorage(afero.NewMemMapFs())
	})

	storetesting.RunStorageTests(t, "MemMapFs(indented)", func(t *testing.T) store.IStorage {
		return newMemStorage(afero.NewMemMapFs(), store.WithCodec(codec.NewIndentedJSONCodec()))
	})

	storetesting.RunStorageTests(t, "OsFs(atomic)", func(t *testing.T) store.IStorage {
		d := disk.NewAferoDisk(afero.NewOsFs(), &disk.Options{BaseDir: t.TempDir(), AtomicWrites: true})
		return store.NewDiskStorage(d)
	})
}

func TestStoreLayout(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newMemStorage(fs, store.WithNamespace("users"))

	if err := s.Store(store.NewMappingRecord("id", "42", store.Mapping{"name": "Ada"})); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	content, err := afero.ReadFile(fs, "/data/users/42.json")
	if err != nil {
		t.Fatalf("expected record at /data/users/42.json: %v", err)
	}
	if string(content) != `{"id":"42","name":"Ada"}` {
		t.Errorf("unexpected record content: %s", content)
	}

	path, err := s.PathFor("42")
	if err != nil || path != filepath.Join("/data", "users", "42.json") {
		t.Errorf("unexpected path %q (%v)", path, err)
	}
}

func TestDirectoryProvisioning(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := disk.NewAferoDisk(fs, &disk.Options{Roots: map[string]string{"users": "/srv/deep/nested/users"}})
	s := store.NewDiskStorage(d).SetNamespace("users")

	if ok, _ := afero.DirExists(fs, "/srv/deep/nested/users"); ok {
		t.Fatalf("root must not exist before the first store")
	}

	// reading does not provision anything
	if _, ok, err := s.Read("1"); err != nil || ok {
		t.Fatalf("expected absent record, got ok=%v err=%v", ok, err)
	}
	if ok, _ := afero.DirExists(fs, "/srv/deep/nested/users"); ok {
		t.Errorf("Read must not create the namespace root")
	}

	for _, key := range []string{"1", "2"} {
		if err := s.Store(store.NewMappingRecord("id", key, nil)); err != nil {
			t.Fatalf("Store(%s) failed: %v", key, err)
		}
	}
	if ok, _ := afero.DirExists(fs, "/srv/deep/nested/users"); !ok {
		t.Errorf("expected root and its parents to be created")
	}
}

func TestFailedStoreWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newMemStorage(fs, store.WithNamespace("users"))

	if err := s.Store(store.NewMappingRecord("id", "", store.Mapping{"name": "Ada"})); !store.IsMissingKey(err) {
		t.Fatalf("expected missing key error, got %v", err)
	}
	if ok, _ := afero.Exists(fs, "/data/users"); ok {
		t.Errorf("a rejected store must not touch the disk")
	}
}

func TestDecodeError(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newMemStorage(fs, store.WithNamespace("users"))

	if err := afero.WriteFile(fs, "/data/users/broken.json", []byte(`{"id":"bro`), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	_, ok, err := s.Read("broken")
	if !store.IsDecodeError(err) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if ok {
		t.Errorf("a record that can not be decoded must not be reported as loaded")
	}
	if !errors.Is(err, &store.Error{Code: store.RetCDecodeError}) {
		t.Errorf("expected errors.Is to match on the code")
	}

	// HasSaved does not decode
	if ok, err := s.HasSaved("broken"); err != nil || !ok {
		t.Errorf("expected HasSaved=true for broken record, got ok=%v err=%v", ok, err)
	}
}

func TestDiskErrorsPropagateUnmodified(t *testing.T) {
	ro := afero.NewReadOnlyFs(afero.NewMemMapFs())
	s := newMemStorage(ro, store.WithNamespace("users"))

	err := s.Store(store.NewMappingRecord("id", "1", nil))
	if err == nil {
		t.Fatalf("expected store on read only fs to fail")
	}
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		t.Errorf("disk errors must not be wrapped, got %v", err)
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("expected permission error, got %v", err)
	}
}

func TestEncodeError(t *testing.T) {
	s := newMemStorage(afero.NewMemMapFs(), store.WithNamespace("users"))

	err := s.Store(store.NewMappingRecord("id", "1", store.Mapping{"ch": make(chan int)}))
	if store.CodeOf(err) != store.RetCEncodeError {
		t.Errorf("expected encode error, got %v", err)
	}
}

func TestNewFactory(t *testing.T) {
	d := disk.NewAferoDisk(afero.NewMemMapFs(), &disk.Options{BaseDir: "/data"})
	factory := store.NewFactory(d, store.WithNamespace("users"))

	a, b := factory(), factory()
	if a == b {
		t.Errorf("expected the factory to create independent engines")
	}
	b.SetNamespace("teams")
	if a.Namespace() != "users" {
		t.Errorf("changing the namespace of one engine must not affect another, got %q", a.Namespace())
	}
}
