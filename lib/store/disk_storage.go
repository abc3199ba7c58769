package store

import (
	"path/filepath"

	"github.com/ValentinKolb/dStore/lib/common"
	"github.com/ValentinKolb/dStore/lib/disk"
	"github.com/ValentinKolb/dStore/lib/store/codec"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger(common.LoggerStore)

// Option configures a disk storage engine.
type Option func(*diskStorage)

// WithNamespace sets the namespace at construction time.
func WithNamespace(name string) Option {
	return func(s *diskStorage) {
		s.namespace = name
	}
}

// WithCodec replaces the default compact json codec.
func WithCodec(c codec.ICodec) Option {
	return func(s *diskStorage) {
		s.codec = c
	}
}

type diskStorage struct {
	disk      disk.IDisk
	codec     codec.ICodec
	namespace string
}

// NewDiskStorage creates a storage engine writing one file per record to d.
// The engine is not safe for concurrent use if SetNamespace is called
// while other operations run; create one engine per namespace instead.
func NewDiskStorage(d disk.IDisk, opts ...Option) IStorage {
	s := &diskStorage{
		disk:  d,
		codec: codec.NewJSONCodec(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFactory returns a Factory creating engines on d with the given options.
func NewFactory(d disk.IDisk, opts ...Option) Factory {
	return func() IStorage {
		return NewDiskStorage(d, opts...)
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *diskStorage) SetNamespace(name string) IStorage {
	s.namespace = name
	return s
}

func (s *diskStorage) Namespace() string {
	return s.namespace
}

func (s *diskStorage) Store(obj Storable) error {
	key, err := obj.StorageKey()
	if err != nil {
		return err
	}
	path, err := s.PathFor(key)
	if err != nil {
		return err
	}

	m, err := obj.StorageMapping()
	if err != nil {
		return err
	}
	content, err := s.codec.Encode(m)
	if err != nil {
		return WrapError(RetCEncodeError, "could not encode record", err)
	}

	if err := s.prepareStorage(); err != nil {
		return err
	}

	plog.Debugf("store %s/%v (%d bytes)", s.namespace, key, len(content))
	return s.disk.Put(path, content)
}

func (s *diskStorage) Read(key any) (Mapping, bool, error) {
	path, err := s.PathFor(key)
	if err != nil {
		return nil, false, err
	}
	if ok, err := s.disk.Exists(path); err != nil || !ok {
		return nil, false, err
	}

	content, err := s.disk.Get(path)
	if err != nil {
		return nil, false, err
	}
	m, err := s.codec.Decode(content)
	if err != nil {
		return nil, false, WrapError(RetCDecodeError, "could not decode "+path, err)
	}
	plog.Debugf("read %s/%v", s.namespace, key)
	return m, true, nil
}

func (s *diskStorage) HasSaved(key any) (bool, error) {
	path, err := s.PathFor(key)
	if err != nil {
		return false, err
	}
	return s.disk.Exists(path)
}

func (s *diskStorage) PathFor(key any) (string, error) {
	root, err := s.root()
	if err != nil {
		return "", err
	}
	k, err := KeyString(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, fileStem(k)+"."+s.codec.Extension()), nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// root resolves the root directory of the configured namespace.
func (s *diskStorage) root() (string, error) {
	if s.namespace == "" {
		return "", NewError(RetCNamespaceNotSet, "no namespace set")
	}
	return s.disk.RootFor(s.namespace)
}

// prepareStorage creates the namespace root (including parents) if it does not exist yet.
func (s *diskStorage) prepareStorage() error {
	root, err := s.root()
	if err != nil {
		return err
	}
	ok, err := s.disk.Exists(root)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	plog.Infof("creating storage for namespace %s at %s", s.namespace, root)
	return s.disk.MakeDirectory(root, true)
}
