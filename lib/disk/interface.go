package disk

import "errors"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IDisk is the filesystem collaborator used by the storage engine.
// Paths passed to IDisk are the ones returned by RootFor (or joined onto them),
// so implementations never have to guess where a namespace lives.
type IDisk interface {
	// Exists reports whether a file or directory exists at path.
	Exists(path string) (ok bool, err error)
	// Put writes content to path, fully replacing any prior content.
	Put(path string, content []byte) (err error)
	// Get returns the full content of the file at path.
	Get(path string) (content []byte, err error)
	// MakeDirectory creates the directory at path. With recursive set, missing
	// parents are created as well. An already existing directory is not an error.
	MakeDirectory(path string, recursive bool) (err error)
	// RootFor resolves the root directory of a namespace.
	RootFor(namespace string) (root string, err error)
}

// Errors returned by RootFor.
var (
	ErrEmptyNamespace   = errors.New("disk: namespace is empty")
	ErrUnknownNamespace = errors.New("disk: no root configured for namespace")
	ErrInvalidNamespace = errors.New("disk: invalid namespace")
)
