package metrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ValentinKolb/dStore/lib/disk"
	"github.com/ValentinKolb/dStore/lib/store"
	storetesting "github.com/ValentinKolb/dStore/lib/store/testing"
	vm "github.com/VictoriaMetrics/metrics"
	"github.com/spf13/afero"
)

func newEngine() store.IStorage {
	return store.NewDiskStorage(disk.NewAferoDisk(afero.NewMemMapFs(), &disk.Options{BaseDir: "/data"}))
}

func TestInstrumentedStorage(t *testing.T) {
	storetesting.RunStorageTests(t, "Instrumented", func(t *testing.T) store.IStorage {
		return NewInstrumentedStorage(newEngine(), nil)
	})
}

func TestCounters(t *testing.T) {
	set := vm.NewSet()
	s := NewInstrumentedStorage(newEngine(), set).SetNamespace("users")

	if i, ok := s.(*instrumentedStorage); !ok || i.set != set {
		t.Fatalf("expected SetNamespace to return the instrumented engine")
	}

	if err := s.Store(store.NewMappingRecord("id", "1", nil)); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	_ = s.Store(store.NewMappingRecord("id", "", nil))
	_, _, _ = s.Read("1")
	_, _, _ = s.Read("2")
	_, _ = s.HasSaved("1")

	expect := map[string]uint64{
		OperationsName(OpStore, "users", ResultOK):       1,
		OperationsName(OpStore, "users", ResultError):    1,
		OperationsName(OpRead, "users", ResultOK):        1,
		OperationsName(OpRead, "users", ResultAbsent):    1,
		OperationsName(OpHasSaved, "users", ResultOK):    1,
		OperationsName(OpHasSaved, "users", ResultError): 0,
	}
	for name, want := range expect {
		if got := set.GetOrCreateCounter(name).Get(); got != want {
			t.Errorf("%s = %d, want %d", name, got, want)
		}
	}

	var buf bytes.Buffer
	set.WritePrometheus(&buf)
	if !strings.Contains(buf.String(), "dstore_operation_duration_seconds") {
		t.Errorf("expected duration histogram in output:\n%s", buf.String())
	}
}

func TestInstrumentFactory(t *testing.T) {
	set := vm.NewSet()
	factory := Instrument(func() store.IStorage { return newEngine() }, set)

	a := factory().SetNamespace("a")
	b := factory().SetNamespace("b")
	_, _ = a.HasSaved("x")
	_, _ = b.HasSaved("x")

	for _, ns := range []string{"a", "b"} {
		if got := set.GetOrCreateCounter(OperationsName(OpHasSaved, ns, ResultAbsent)).Get(); got != 1 {
			t.Errorf("namespace %s: expected 1 absent has_saved, got %d", ns, got)
		}
	}
}
