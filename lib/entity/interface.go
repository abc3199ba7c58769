package entity

import "errors"

// Entity is implemented by every record type that can be persisted.
//
// Both methods must be declared on the value receiver and must not depend on
// the receiver's fields: they are called on the zero value and describe the
// type, not an instance.
type Entity interface {
	// KeyName returns the name of the field identifying an instance.
	// It is matched against the mapping names of the fields (see ToMapping).
	KeyName() string
	// DiskName returns the namespace instances of this type are stored in.
	DiskName() string
}

var (
	// ErrNotAStruct is returned for entity types that are not structs.
	ErrNotAStruct = errors.New("entity: type is not a struct")
	// ErrKeyField is returned if KeyName names no field of the type.
	ErrKeyField = errors.New("entity: key field not found")
	// ErrDuplicateField is returned if two fields share a mapping name,
	// typically a field and a field of an embedded struct.
	ErrDuplicateField = errors.New("entity: duplicate field name")
	// ErrNoDiskName is returned if DiskName is empty.
	ErrNoDiskName = errors.New("entity: type declares no disk name")
	// ErrNilEntity is returned when an operation receives a nil entity.
	ErrNilEntity = errors.New("entity: nil entity")
)
