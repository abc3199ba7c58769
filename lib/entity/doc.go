// Package entity binds Go structs to the storage engine.
//
// An entity type declares two type level constants by implementing Entity on
// its value receiver: the name of its key field and the namespace (disk name)
// its records live in.
//
//	type User struct {
//		ID   string `json:"id"`
//		Name string `json:"name"`
//	}
//
//	func (User) KeyName() string  { return "id" }
//	func (User) DiskName() string { return "users" }
//
// A Repository created from a store.Factory offers the lifecycle operations:
//
//	users := entity.MustRepository[User](store.NewFactory(d))
//
//	u, _ := users.For("42")      // new instance, only the key set
//	u.Name = "Ada"
//	_, err := users.Store(u)     // writes users/42.json
//
//	found, err := users.Find("42")  // nil, nil if absent
//
// Field Introspection:
//
//	The persisted payload consists of all exported fields, named by their json
//	tag or, without one, by their Go name. Fields tagged json:"-" are skipped
//	and embedded structs are flattened. The field list of a type is
//	computed once and cached. ToMapping returns the fields of an instance,
//	FromMapping builds an instance from a mapping using mapstructure, leaving
//	fields absent from the mapping at their zero value.
//
// Engines:
//
//	Every repository operation creates an engine with the factory and scopes
//	it to the type's disk name, no engine is resolved from global state. Read
//	and Find always go to the disk.
package entity
