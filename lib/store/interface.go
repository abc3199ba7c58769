package store

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Mapping is the persisted payload of a record: field name to value.
type Mapping = map[string]any

// Factory is a function type that creates a new storage engine.
// Entities receive a Factory instead of resolving an engine from global state.
type Factory func() IStorage

// Storable is anything the engine can persist.
type Storable interface {
	// StorageKey returns the value of the declared key field.
	StorageKey() (key any, err error)
	// StorageMapping returns the payload to persist, key field included.
	StorageMapping() (m Mapping, err error)
}

// IStorage maps (namespace, key) pairs to files and reads and writes records there.
// It holds no data: every call is a round trip to the disk.
//
// Every method except SetNamespace and Namespace fails with RetCNamespaceNotSet
// if no namespace is configured, and with RetCMissingKey if the key is nil or empty.
// Errors of the underlying disk are returned unmodified.
type IStorage interface {
	// SetNamespace configures the namespace all following operations target.
	// It returns the engine itself to allow chaining.
	SetNamespace(name string) IStorage
	// Namespace returns the configured namespace ("" if unset).
	Namespace() string
	// Store writes the mapping of obj to the file of its key, replacing any prior record.
	// The namespace root is created (recursively) on first use.
	Store(obj Storable) (err error)
	// Read returns the stored mapping for key. The boolean return value
	// indicates whether a record for the key was found.
	Read(key any) (m Mapping, loaded bool, err error)
	// HasSaved returns whether a record exists for key without reading it.
	HasSaved(key any) (loaded bool, err error)
	// PathFor returns the file path of the record for key.
	PathFor(key any) (path string, err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// an error message and optionally the error that caused it.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
	Err  error   // The cause, may be nil.
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("StoreError (code %s): %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error with the same code.
// This allows errors.Is(err, &store.Error{Code: store.RetCMissingKey}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Msg == "" && t.Err == nil
}

// NewError creates a new StoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// WrapError creates a new StoreError with the given code, message and cause.
func WrapError(code RetCode, msg string, err error) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
		Err:  err,
	}
}

// CodeOf returns the code of the first *Error in err's chain.
// Errors not created by this package report RetCSuccess for nil and RetCInternalError otherwise.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return RetCInternalError
}

// IsMissingKey reports whether err was caused by a nil or empty key.
func IsMissingKey(err error) bool {
	return CodeOf(err) == RetCMissingKey
}

// IsDecodeError reports whether err was caused by a record that could not be decoded.
func IsDecodeError(err error) bool {
	return CodeOf(err) == RetCDecodeError
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess         RetCode = iota // 0: Command executed successfully.
	RetCInternalError                  // 1: Command failed due to an internal error.
	RetCMissingKey                     // 2: The key is nil or empty.
	RetCInvalidKey                     // 3: The key can not be used as file name.
	RetCNamespaceNotSet                // 4: No namespace configured.
	RetCDecodeError                    // 5: Stored content could not be decoded.
	RetCEncodeError                    // 6: The mapping could not be encoded.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCMissingKey:
		return "MissingKey"
	case RetCInvalidKey:
		return "InvalidKey"
	case RetCNamespaceNotSet:
		return "NamespaceNotSet"
	case RetCDecodeError:
		return "DecodeError"
	case RetCEncodeError:
		return "EncodeError"
	default:
		return "Unknown"
	}
}
