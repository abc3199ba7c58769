// Package store provides the storage engine of dStore: it maps a namespace and
// a key to a file and reads and writes records there.
//
// Key Components:
//
//   - IStorage Interface: The engine abstraction. An engine is configured with
//     exactly one namespace (SetNamespace or WithNamespace) and otherwise holds
//     no state; every Store, Read and HasSaved call goes straight to the disk.
//
//   - Storable: What Store accepts. The entity package adapts typed entities to
//     it, MappingRecord covers untyped records.
//
//   - Error System: Errors created by the engine are *Error values carrying a
//     RetCode (missing key, invalid key, namespace not set, decode and encode
//     errors). Errors of the disk are returned as they are, so callers can test
//     them with errors.Is(err, fs.ErrPermission) and friends.
//
//   - Factory: A function type creating engines. It is the injection point used
//     by entity repositories, so nothing is resolved from global state.
//
// Storage Layout:
//
//	<namespace root>/<escaped key>.json
//
//	The namespace root is resolved by disk.IDisk.RootFor. The key is converted
//	to a string (see KeyString) and path-escaped, so "a/b" is stored as
//	"a%2Fb.json". The root directory is created, including missing parents, by
//	the first Store in a namespace.
//
// Keys:
//
//	nil, nil pointers and "" are missing keys. Every other value with a string
//	form is a valid key, 0 and false included.
//
// Concurrency:
//
//	The engine performs no locking. Two writers of the same key race on the
//	disk and the last complete write wins. With atomic writes enabled on the
//	disk, a reader sees either the old or the new record, never a mix.
//
// Implementations:
//
//	NewDiskStorage creates the engine on top of a disk.IDisk. The metrics
//	package provides a decorator recording operation counts and latencies for
//	any IStorage, and the testing package a conformance suite.
package store
