package entity

import (
	"reflect"

	"github.com/ValentinKolb/dStore/lib/common"
	"github.com/ValentinKolb/dStore/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger(common.LoggerEntity)

// Repository binds the entity type T to storage engines created by a factory.
// Every operation creates a fresh engine scoped to T's disk name, so a
// Repository is safe for concurrent use if the factory is.
type Repository[T Entity] struct {
	factory store.Factory
	desc    *descriptor
}

// NewRepository creates a repository for T.
// It fails if T is not a struct, declares no disk name or its key field does not exist.
func NewRepository[T Entity](factory store.Factory) (*Repository[T], error) {
	d, err := describe[T]()
	if err != nil {
		return nil, err
	}
	return &Repository[T]{factory: factory, desc: d}, nil
}

// MustRepository is like NewRepository but panics on error.
// Useful for package level variables.
func MustRepository[T Entity](factory store.Factory) *Repository[T] {
	r, err := NewRepository[T](factory)
	if err != nil {
		panic(err)
	}
	return r
}

// KeyName returns the key field name declared by T.
func (r *Repository[T]) KeyName() string {
	return r.desc.keyName
}

// DiskName returns the namespace declared by T.
func (r *Repository[T]) DiskName() string {
	return r.desc.diskName
}

// Fields returns the mapping names of T's persisted fields in declaration order.
func (r *Repository[T]) Fields() []string {
	names := make([]string, len(r.desc.fields))
	for i, f := range r.desc.fields {
		names[i] = f.name
	}
	return names
}

// For returns a new, not yet stored entity with only the key field set.
func (r *Repository[T]) For(key any) (*T, error) {
	if _, err := store.KeyString(key); err != nil {
		return nil, err
	}
	return FromMapping[T](store.Mapping{r.desc.keyName: key})
}

// Find returns the stored entity for key, or nil if there is none.
func (r *Repository[T]) Find(key any) (*T, error) {
	m, ok, err := r.storage().Read(key)
	if err != nil || !ok {
		return nil, err
	}
	return FromMapping[T](m)
}

// FindOrNew returns the stored entity for key or, if there is none, For(key).
// The new entity is not stored.
func (r *Repository[T]) FindOrNew(key any) (*T, error) {
	e, err := r.Find(key)
	if err != nil {
		return nil, err
	}
	if e != nil {
		return e, nil
	}
	plog.Debugf("%s/%v not found, creating new instance", r.desc.diskName, key)
	return r.For(key)
}

// Exists reports whether an entity is stored for key.
// The record is not read, so a corrupted record still exists.
func (r *Repository[T]) Exists(key any) (bool, error) {
	return r.storage().HasSaved(key)
}

// Store persists e under its current key and returns e for chaining.
func (r *Repository[T]) Store(e *T) (*T, error) {
	if e == nil {
		return nil, ErrNilEntity
	}
	if err := r.storage().Store(r.storable(e)); err != nil {
		return nil, err
	}
	return e, nil
}

// Read loads the stored version of e (by e's current key) into a new instance.
// e itself is not modified. It returns nil if nothing is stored for the key.
func (r *Repository[T]) Read(e *T) (*T, error) {
	key, err := r.Key(e)
	if err != nil {
		return nil, err
	}
	return r.Find(key)
}

// Path returns the file the record of e is (or would be) stored in.
func (r *Repository[T]) Path(e *T) (string, error) {
	key, err := r.Key(e)
	if err != nil {
		return "", err
	}
	return r.storage().PathFor(key)
}

// Key returns the value of e's key field.
func (r *Repository[T]) Key(e *T) (any, error) {
	if e == nil {
		return nil, ErrNilEntity
	}
	return r.desc.key(reflect.ValueOf(e).Elem()), nil
}

// ToMapping returns the persisted fields of e.
func (r *Repository[T]) ToMapping(e *T) (store.Mapping, error) {
	if e == nil {
		return nil, ErrNilEntity
	}
	return r.desc.toMapping(reflect.ValueOf(e).Elem()), nil
}

// FromMapping creates a new T from m.
func (r *Repository[T]) FromMapping(m store.Mapping) (*T, error) {
	return FromMapping[T](m)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// storage creates an engine scoped to T's namespace.
func (r *Repository[T]) storage() store.IStorage {
	return r.factory().SetNamespace(r.desc.diskName)
}

func (r *Repository[T]) storable(e *T) store.Storable {
	return &storable[T]{repo: r, e: e}
}

// storable adapts an entity to store.Storable.
type storable[T Entity] struct {
	repo *Repository[T]
	e    *T
}

func (s *storable[T]) StorageKey() (any, error) {
	return s.repo.Key(s.e)
}

func (s *storable[T]) StorageMapping() (store.Mapping, error) {
	return s.repo.ToMapping(s.e)
}
