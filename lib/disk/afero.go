package disk

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ValentinKolb/dStore/lib/common"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/spf13/afero"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

var plog = logger.GetLogger(common.LoggerDisk)

// Options configures an afero backed disk.
type Options struct {
	// BaseDir is used as parent directory for namespaces without an explicit root.
	// If empty, only namespaces registered via Roots (or Mount) can be resolved.
	BaseDir string
	// Roots maps namespaces to explicit root directories.
	Roots map[string]string
	// AtomicWrites makes Put write a temporary file next to the target and
	// rename it into place, so readers never observe a truncated record.
	AtomicWrites bool
}

// DefaultOptions returns options rooted in the directory "data".
func DefaultOptions() *Options {
	return &Options{
		BaseDir:      "data",
		AtomicWrites: true,
	}
}

// AferoDisk implements IDisk on top of an afero filesystem.
type AferoDisk struct {
	fs     afero.Fs
	base   string
	atomic bool
	roots  *xsync.MapOf[string, string]
}

// NewAferoDisk creates a disk on top of an afero filesystem.
// Use afero.NewOsFs() for the real filesystem and afero.NewMemMapFs() in tests.
// If opts is nil, DefaultOptions are used.
func NewAferoDisk(fs afero.Fs, opts *Options) *AferoDisk {
	if opts == nil {
		opts = DefaultOptions()
	}
	d := &AferoDisk{
		fs:     fs,
		base:   opts.BaseDir,
		atomic: opts.AtomicWrites,
		roots:  xsync.NewMapOf[string, string](),
	}
	for namespace, root := range opts.Roots {
		d.roots.Store(namespace, filepath.Clean(root))
	}
	return d
}

// Mount registers (or replaces) the root directory of a namespace.
// It is safe to call Mount concurrently with any other method.
func (d *AferoDisk) Mount(namespace, root string) error {
	if err := validateNamespace(namespace); err != nil {
		return err
	}
	d.roots.Store(namespace, filepath.Clean(root))
	return nil
}

// Mounts returns a copy of all explicitly registered roots.
func (d *AferoDisk) Mounts() map[string]string {
	out := make(map[string]string, d.roots.Size())
	d.roots.Range(func(namespace, root string) bool {
		out[namespace] = root
		return true
	})
	return out
}

// --------------------------------------------------------------------------
// Interface Methods (docu see disk.IDisk)
// --------------------------------------------------------------------------

func (d *AferoDisk) Exists(path string) (bool, error) {
	return afero.Exists(d.fs, path)
}

func (d *AferoDisk) Put(path string, content []byte) error {
	if !d.atomic {
		return afero.WriteFile(d.fs, path, content, filePerm)
	}
	return d.putAtomic(path, content)
}

func (d *AferoDisk) Get(path string) ([]byte, error) {
	return afero.ReadFile(d.fs, path)
}

func (d *AferoDisk) MakeDirectory(path string, recursive bool) error {
	var err error
	if recursive {
		err = d.fs.MkdirAll(path, dirPerm)
	} else {
		err = d.fs.Mkdir(path, dirPerm)
	}
	if err != nil && errors.Is(err, os.ErrExist) {
		// someone else created it in the meantime, fine as long as it is a directory
		if ok, dirErr := afero.DirExists(d.fs, path); dirErr == nil && ok {
			return nil
		}
	}
	return err
}

func (d *AferoDisk) RootFor(namespace string) (string, error) {
	if err := validateNamespace(namespace); err != nil {
		return "", err
	}
	if root, ok := d.roots.Load(namespace); ok {
		return root, nil
	}
	if d.base == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownNamespace, namespace)
	}
	return filepath.Join(d.base, filepath.FromSlash(namespace)), nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// putAtomic writes to a temporary sibling of path and renames it over path.
// The temporary file is removed again if anything fails before the rename.
func (d *AferoDisk) putAtomic(path string, content []byte) (err error) {
	tmp, err := afero.TempFile(d.fs, filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			if rmErr := d.fs.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				plog.Warningf("could not remove temporary file %s: %v", tmpName, rmErr)
			}
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = d.fs.Chmod(tmpName, filePerm); err != nil {
		return err
	}
	return d.fs.Rename(tmpName, path)
}

// validateNamespace rejects namespaces that would resolve outside of the base directory.
// Nested namespaces ("tenants/acme") are allowed.
func validateNamespace(namespace string) error {
	if namespace == "" {
		return ErrEmptyNamespace
	}
	if strings.ContainsRune(namespace, '\\') || path.IsAbs(namespace) {
		return fmt.Errorf("%w: %s", ErrInvalidNamespace, namespace)
	}
	for _, part := range strings.Split(namespace, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("%w: %s", ErrInvalidNamespace, namespace)
		}
	}
	return nil
}
