package metrics

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/dStore/lib/store"
	vm "github.com/VictoriaMetrics/metrics"
)

// Operation names used as the op label.
const (
	OpStore    = "store"
	OpRead     = "read"
	OpHasSaved = "has_saved"
)

// Results used as the result label.
const (
	ResultOK     = "ok"
	ResultAbsent = "absent"
	ResultError  = "error"
)

type instrumentedStorage struct {
	inner store.IStorage
	set   *vm.Set
}

// NewInstrumentedStorage wraps inner and records, per namespace and operation,
//
//	dstore_operations_total{op,namespace,result}
//	dstore_operation_duration_seconds{op,namespace}
//
// in set. If set is nil, a private set is created.
func NewInstrumentedStorage(inner store.IStorage, set *vm.Set) store.IStorage {
	if set == nil {
		set = vm.NewSet()
	}
	return &instrumentedStorage{inner: inner, set: set}
}

// Instrument returns a factory wrapping every engine of factory.
// All engines share set.
func Instrument(factory store.Factory, set *vm.Set) store.Factory {
	if set == nil {
		set = vm.NewSet()
	}
	return func() store.IStorage {
		return NewInstrumentedStorage(factory(), set)
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (i *instrumentedStorage) SetNamespace(name string) store.IStorage {
	i.inner.SetNamespace(name)
	return i
}

func (i *instrumentedStorage) Namespace() string {
	return i.inner.Namespace()
}

func (i *instrumentedStorage) Store(obj store.Storable) error {
	start := time.Now()
	err := i.inner.Store(obj)
	i.observe(OpStore, start, resultOf(true, err))
	return err
}

func (i *instrumentedStorage) Read(key any) (store.Mapping, bool, error) {
	start := time.Now()
	m, ok, err := i.inner.Read(key)
	i.observe(OpRead, start, resultOf(ok, err))
	return m, ok, err
}

func (i *instrumentedStorage) HasSaved(key any) (bool, error) {
	start := time.Now()
	ok, err := i.inner.HasSaved(key)
	i.observe(OpHasSaved, start, resultOf(ok, err))
	return ok, err
}

func (i *instrumentedStorage) PathFor(key any) (string, error) {
	return i.inner.PathFor(key)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func (i *instrumentedStorage) observe(op string, start time.Time, result string) {
	ns := i.inner.Namespace()
	i.set.GetOrCreateCounter(OperationsName(op, ns, result)).Inc()
	i.set.GetOrCreateHistogram(fmt.Sprintf(`dstore_operation_duration_seconds{op=%q,namespace=%q}`, op, ns)).UpdateDuration(start)
}

// OperationsName returns the full name of the operations counter for the given labels.
func OperationsName(op, namespace, result string) string {
	return fmt.Sprintf(`dstore_operations_total{op=%q,namespace=%q,result=%q}`, op, namespace, result)
}

func resultOf(found bool, err error) string {
	switch {
	case err != nil:
		return ResultError
	case !found:
		return ResultAbsent
	default:
		return ResultOK
	}
}
