// Package disk provides the filesystem collaborator of the storage engine.
//
// The IDisk interface is deliberately narrow: existence checks, whole-file
// put/get, directory creation and the resolution of a namespace to its root
// directory. Everything else (path derivation, encoding, key validation) lives
// in the store package.
//
// Implementation:
//
//	AferoDisk implements IDisk on top of github.com/spf13/afero, so the same
//	code runs against the operating system (afero.NewOsFs) or fully in memory
//	(afero.NewMemMapFs) for tests.
//
// Namespace Resolution:
//
//	A namespace resolves to an explicitly mounted root (Options.Roots or Mount)
//	or, if none is registered, to BaseDir/<namespace>. Mounts are kept in an
//	xsync.MapOf and may change while the disk is in use.
//
// Atomic Writes:
//
//	With Options.AtomicWrites enabled, Put writes a hidden temporary file in
//	the target directory and renames it over the target. A crash during the
//	write leaves the previous record untouched instead of a truncated file.
//	Without it, Put truncates and rewrites the target in place.
//
// Directory creation is idempotent: MakeDirectory on an existing directory
// succeeds, which also covers two callers racing to provision the same root.
package disk
