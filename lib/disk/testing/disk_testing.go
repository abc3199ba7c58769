package testing

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ValentinKolb/dStore/lib/disk"
)

// DiskFactory creates a new, empty disk for a single test.
type DiskFactory func(t *testing.T) disk.IDisk

// RunDiskTests runs the conformance suite for an IDisk implementation.
func RunDiskTests(t *testing.T, name string, factory DiskFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("RootFor", func(t *testing.T) {
			testRootFor(t, factory(t))
		})

		t.Run("MakeDirectory", func(t *testing.T) {
			testMakeDirectory(t, factory(t))
		})

		t.Run("ConcurrentMakeDirectory", func(t *testing.T) {
			testConcurrentMakeDirectory(t, factory(t))
		})

		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, factory(t))
		})

		t.Run("Exists", func(t *testing.T) {
			testExists(t, factory(t))
		})

		t.Run("GetMissing", func(t *testing.T) {
			testGetMissing(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func mustRoot(t *testing.T, d disk.IDisk, namespace string) string {
	t.Helper()
	root, err := d.RootFor(namespace)
	if err != nil {
		t.Fatalf("RootFor(%q) failed: %v", namespace, err)
	}
	return root
}

func mustMkdir(t *testing.T, d disk.IDisk, path string) {
	t.Helper()
	if err := d.MakeDirectory(path, true); err != nil {
		t.Fatalf("MakeDirectory(%q) failed: %v", path, err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testRootFor(t *testing.T, d disk.IDisk) {
	users := mustRoot(t, d, "users")
	teams := mustRoot(t, d, "teams")
	if users == teams {
		t.Errorf("Expected different roots for different namespaces, got %s twice", users)
	}
	if again := mustRoot(t, d, "users"); again != users {
		t.Errorf("Expected RootFor to be deterministic, got %s and %s", users, again)
	}

	for _, invalid := range []string{"", "..", "a/../b", "/abs"} {
		if _, err := d.RootFor(invalid); err == nil {
			t.Errorf("Expected RootFor(%q) to fail", invalid)
		}
	}
}

func testMakeDirectory(t *testing.T, d disk.IDisk) {
	root := filepath.Join(mustRoot(t, d, "nested"), "a", "b", "c")

	if ok, err := d.Exists(root); err != nil || ok {
		t.Fatalf("Expected %s to not exist yet (ok=%v, err=%v)", root, ok, err)
	}

	mustMkdir(t, d, root)

	if ok, err := d.Exists(root); err != nil || !ok {
		t.Errorf("Expected %s to exist after MakeDirectory (ok=%v, err=%v)", root, ok, err)
	}

	// idempotent
	mustMkdir(t, d, root)
	if err := d.MakeDirectory(root, false); err != nil {
		t.Errorf("Expected non recursive MakeDirectory on existing directory to succeed, got %v", err)
	}
}

func testConcurrentMakeDirectory(t *testing.T, d disk.IDisk) {
	root := mustRoot(t, d, "race")

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- d.MakeDirectory(root, true)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Expected concurrent MakeDirectory to succeed, got %v", err)
		}
	}
}

func testPutGet(t *testing.T, d disk.IDisk) {
	root := mustRoot(t, d, "files")
	mustMkdir(t, d, root)
	path := filepath.Join(root, "record.json")

	first := []byte(`{"id":"1","name":"a much longer first value"}`)
	second := []byte(`{"id":"1"}`)

	if err := d.Put(path, first); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := d.Get(path)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, first) {
		t.Errorf("Expected %s, got %s", first, got)
	}

	// the second write is shorter, nothing of the first one may survive
	if err := d.Put(path, second); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err = d.Get(path)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, second) {
		t.Errorf("Expected overwrite to %s, got %s", second, got)
	}

	for i := 0; i < 10; i++ {
		p := filepath.Join(root, fmt.Sprintf("file-%d.json", i))
		if err := d.Put(p, []byte(fmt.Sprint(i))); err != nil {
			t.Fatalf("Put(%s) failed: %v", p, err)
		}
	}
	for i := 0; i < 10; i++ {
		p := filepath.Join(root, fmt.Sprintf("file-%d.json", i))
		got, err := d.Get(p)
		if err != nil || string(got) != fmt.Sprint(i) {
			t.Errorf("Get(%s) = %q, %v", p, got, err)
		}
	}
}

func testExists(t *testing.T, d disk.IDisk) {
	root := mustRoot(t, d, "exists")
	mustMkdir(t, d, root)
	path := filepath.Join(root, "x.json")

	if ok, err := d.Exists(path); err != nil || ok {
		t.Errorf("Expected Exists=false before Put (ok=%v, err=%v)", ok, err)
	}
	if err := d.Put(path, []byte("{}")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if ok, err := d.Exists(path); err != nil || !ok {
		t.Errorf("Expected Exists=true after Put (ok=%v, err=%v)", ok, err)
	}
}

func testGetMissing(t *testing.T, d disk.IDisk) {
	root := mustRoot(t, d, "missing")
	if _, err := d.Get(filepath.Join(root, "nope.json")); err == nil {
		t.Errorf("Expected Get on a missing file to fail")
	}
}
