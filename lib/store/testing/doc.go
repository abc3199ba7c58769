// Package testing provides a conformance suite for store.IStorage implementations.
//
// The factory passed to RunStorageTests must return an engine without a
// namespace on an empty disk; the suite sets the namespaces it needs.
package testing
