package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	DefaultDataFile = "products.json"

	filePerm = 0o644
	dirPerm  = 0o755
)

// FileStore keeps the catalog in a single pretty-printed JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultDataFile
	}
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Load reads the catalog. A missing file is created empty.
func (s *FileStore) Load(ctx context.Context) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		c := Catalog{}
		if err := s.write(c); err != nil {
			return nil, &StorageError{Op: "init", Path: s.path, Err: err}
		}
		return c, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Path: s.path, Err: err}
	}

	c, err := decodeCatalog(b)
	if err != nil {
		return nil, &StorageError{Op: "decode", Path: s.path, Err: err}
	}
	return c, nil
}

// Save replaces the file through a temp file and rename, so readers never
// see a half-written catalog.
func (s *FileStore) Save(ctx context.Context, c Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.write(c); err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	fi, err := os.Stat(dir)
	if err != nil {
		return &StorageError{Op: "stat", Path: dir, Err: err}
	}
	if !fi.IsDir() {
		return &StorageError{Op: "stat", Path: dir, Err: errors.New("not a directory")}
	}
	return nil
}

func (s *FileStore) write(c Catalog) error {
	if c == nil {
		c = Catalog{}
	}

	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		return errors.Join(fmt.Errorf("write temp file: %w", err), tmp.Close(), os.Remove(tmpPath))
	}
	if err := tmp.Sync(); err != nil {
		return errors.Join(fmt.Errorf("sync temp file: %w", err), tmp.Close(), os.Remove(tmpPath))
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(fmt.Errorf("close temp file: %w", err), os.Remove(tmpPath))
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		return errors.Join(fmt.Errorf("chmod temp file: %w", err), os.Remove(tmpPath))
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return errors.Join(fmt.Errorf("replace catalog file: %w", err), os.Remove(tmpPath))
	}
	return nil
}

// decodeCatalog accepts an object keyed by integer ids. An empty file, an
// empty array and null all mean an empty catalog.
func decodeCatalog(b []byte) (Catalog, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("[]")) || bytes.Equal(b, []byte("null")) {
		return Catalog{}, nil
	}

	var c Catalog
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	if c == nil {
		c = Catalog{}
	}
	return c, nil
}
