// Package cmd implements the command-line interface of dStore.
//
// The package is organized into several subpackages:
//
//   - record: Commands reading and writing records (get, put, has, path)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through the environment as DSTORE_<FLAG>
// (e.g. DSTORE_DATA_DIR=/var/lib/dstore); .env and .env.local are loaded first.
//
// See dstore -help for a list of all commands.
package cmd
